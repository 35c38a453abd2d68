// package services defines the HTTP collaborators of the player
//
// The catalog client ([SaavnService]) searches tracks, builds home shelves and fetches lyrics.
// [StreamClient] downloads audio bytes for the transport and the download side-channel.
// [AuthService] signs users in with an OAuth2 password grant and keeps the token in a key-value store.
//
// Every response shape is converted into [models.Track] at this boundary.
package services
