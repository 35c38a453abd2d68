// Package repositories implements SQLite persistence for library entities and the key-value stores.
//
// Key Implementations:
//   - [PlaylistRepository] : user playlists with soft delete and sharing flag
//   - [PlaylistTrackRepository] : playlist membership rows
//   - [LikedTrackRepository] : liked songs keyed by user
//   - [PlayHistoryRepository] : append-only play log
//   - [SQLiteKV] / [RedisKV] : string key-value stores used for sessions and recently played lists
//
// Sequence numbers provide stable, human-readable ordering for playlists independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
