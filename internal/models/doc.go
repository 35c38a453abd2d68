// Package models defines domain entities and persistence interfaces for spin.
//
// The package contains two categories of types:
//
// 1. Value types exchanged between components:
//   - [Track] : the canonical track shape every collaborator edge converts into
//   - [ActiveTrack] : the single track loaded into the player
//   - [RecentEntry] : one row of a recently played list
//   - [Session] : the signed-in user as reported by the auth provider
//
// 2. Persistent rows backed by the relational store:
//   - [Playlist] : user playlists with sharing flag (implements [Model])
//   - [PlaylistTrack] : playlist membership
//   - [LikedTrack] : a user's liked songs
//   - [PlayHistory] : append-only play log
//
// Search results, library rows and recent entries all carry slightly different field sets;
// each converts to [Track] at the boundary so the rest of the program handles one shape.
package models
