package library

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/shared"
	tu "github.com/desertthunder/spin/internal/testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupLibrary(t *testing.T, userID string) (*Library, *notify.Recorder, *sql.DB) {
	t.Helper()
	db := setupTestDB(t)
	rec := &notify.Recorder{}
	return NewStore(db).ForUser(userID, rec, nil), rec, db
}

func lastMessage(t *testing.T, rec *notify.Recorder) string {
	t.Helper()
	n, ok := rec.Last()
	if !ok {
		t.Fatal("expected a notice")
	}
	return n.Message
}

func TestLikes(t *testing.T) {
	tracks := tu.SampleTracks(3)

	t.Run("Like And Unlike", func(t *testing.T) {
		lib, rec, _ := setupLibrary(t, "user-1")

		if err := lib.Like(tracks[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !lib.IsLiked("t1") {
			t.Error("expected t1 to be liked")
		}
		if got := lastMessage(t, rec); got != "Song added to your library" {
			t.Errorf("unexpected notice %q", got)
		}

		if err := lib.Unlike("t1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lib.IsLiked("t1") {
			t.Error("expected t1 to be unliked")
		}
		if got := lastMessage(t, rec); got != "Song removed from your library" {
			t.Errorf("unexpected notice %q", got)
		}
	})

	t.Run("Duplicate Like", func(t *testing.T) {
		lib, rec, _ := setupLibrary(t, "user-1")

		if err := lib.Like(tracks[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lib.Like(tracks[0]); err != nil {
			t.Fatalf("duplicate like should not error: %v", err)
		}
		if got := lastMessage(t, rec); got != "This song is already in your library" {
			t.Errorf("unexpected notice %q", got)
		}

		likes, err := lib.LikedTracks()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(likes) != 1 {
			t.Errorf("expected 1 like, got %d", len(likes))
		}
	})

	t.Run("Duplicate From Another Device", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db)
		other := store.ForUser("user-1", nil, nil)
		if err := other.Like(tracks[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rec := &notify.Recorder{}
		lib := store.ForUser("user-1", rec, nil)
		if err := lib.Like(tracks[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := lastMessage(t, rec); got != "This song is already in your library" {
			t.Errorf("unexpected notice %q", got)
		}
		if !lib.IsLiked("t2") {
			t.Error("expected local state to reflect the stored like")
		}
	})

	t.Run("Rollback On Failure", func(t *testing.T) {
		lib, rec, db := setupLibrary(t, "user-1")
		db.Close()

		if err := lib.Like(tracks[0]); err == nil {
			t.Fatal("expected error from closed database")
		}
		if lib.IsLiked("t1") {
			t.Error("expected optimistic like to be rolled back")
		}
		n, _ := rec.Last()
		if n.Level != notify.Error || n.Message != "Failed to add song to library" {
			t.Errorf("unexpected notice %+v", n)
		}
	})

	t.Run("Load Likes", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db)
		first := store.ForUser("user-1", nil, nil)
		for _, track := range tracks[:2] {
			if err := first.Like(track); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		lib := store.ForUser("user-1", nil, nil)
		if lib.IsLiked("t1") {
			t.Fatal("expected empty state before LoadLikes")
		}
		if err := lib.LoadLikes(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !lib.IsLiked("t1") || !lib.IsLiked("t2") || lib.IsLiked("t3") {
			t.Error("liked state does not match the store")
		}
	})

	t.Run("Toggle", func(t *testing.T) {
		lib, _, _ := setupLibrary(t, "user-1")

		liked, err := lib.ToggleLike(tracks[2])
		if err != nil || !liked {
			t.Fatalf("expected liked, got %v, %v", liked, err)
		}
		liked, err = lib.ToggleLike(tracks[2])
		if err != nil || liked {
			t.Fatalf("expected unliked, got %v, %v", liked, err)
		}
	})

	t.Run("Users Are Isolated", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db)
		if err := store.ForUser("user-1", nil, nil).Like(tracks[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		likes, err := store.ForUser("user-2", nil, nil).LikedTracks()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(likes) != 0 {
			t.Errorf("expected no likes for user-2, got %d", len(likes))
		}
	})
}

func TestFindLiked(t *testing.T) {
	lib, _, _ := setupLibrary(t, "user-1")
	for _, track := range []models.Track{
		{ID: "a", Name: "Blinding Lights", ArtistName: "The Weeknd", DownloadURL: "u"},
		{ID: "b", Name: "Levitating", ArtistName: "Dua Lipa", DownloadURL: "u"},
		{ID: "c", Name: "Bad Guy", ArtistName: "Billie Eilish", DownloadURL: "u"},
	} {
		if err := lib.Like(track); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	t.Run("Substring", func(t *testing.T) {
		matches, err := lib.FindLiked("dua")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) != 1 || matches[0].Track.TrackID != "b" {
			t.Errorf("unexpected matches %+v", matches)
		}
		if matches[0].Score != 1 {
			t.Errorf("expected score 1, got %f", matches[0].Score)
		}
	})

	t.Run("Typo", func(t *testing.T) {
		matches, err := lib.FindLiked("blinding lihgts")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(matches) == 0 || matches[0].Track.TrackID != "a" {
			t.Errorf("expected Blinding Lights first, got %+v", matches)
		}
	})

	t.Run("Empty Query", func(t *testing.T) {
		if _, err := lib.FindLiked("  "); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestPlaylists(t *testing.T) {
	tracks := tu.SampleTracks(2)

	t.Run("Lifecycle", func(t *testing.T) {
		lib, rec, _ := setupLibrary(t, "user-1")

		playlist, err := lib.CreatePlaylist("Road Trip", "songs for the car")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := lastMessage(t, rec); got != "Playlist created successfully" {
			t.Errorf("unexpected notice %q", got)
		}

		renamed, err := lib.RenamePlaylist(playlist.ID(), "Night Drive")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if renamed.Name != "Night Drive" {
			t.Errorf("expected renamed playlist, got %q", renamed.Name)
		}

		if err := lib.AddToPlaylist(playlist.ID(), tracks[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lib.AddToPlaylist(playlist.ID(), tracks[1]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := lastMessage(t, rec); got != "Track added to playlist" {
			t.Errorf("unexpected notice %q", got)
		}

		members, err := lib.PlaylistTracks(playlist.ID())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(members) != 2 || members[0].TrackID != "t1" {
			t.Errorf("unexpected tracks %+v", members)
		}

		if err := lib.RemoveFromPlaylist(playlist.ID(), "t1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := lastMessage(t, rec); got != "Track removed from playlist" {
			t.Errorf("unexpected notice %q", got)
		}

		if err := lib.DeletePlaylist(playlist.ID()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		playlists, err := lib.Playlists()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(playlists) != 0 {
			t.Errorf("expected deleted playlist to be hidden, got %d", len(playlists))
		}
	})

	t.Run("Empty Name", func(t *testing.T) {
		lib, _, _ := setupLibrary(t, "user-1")
		if _, err := lib.CreatePlaylist("   ", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Duplicate Track", func(t *testing.T) {
		lib, rec, _ := setupLibrary(t, "user-1")
		playlist, err := lib.CreatePlaylist("Mix", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lib.AddToPlaylist(playlist.ID(), tracks[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lib.AddToPlaylist(playlist.ID(), tracks[0]); !errors.Is(err, shared.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
		if n, _ := rec.Last(); n.Level != notify.Error {
			t.Errorf("expected error notice, got %+v", n)
		}
	})

	t.Run("Other Users Playlist", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db)
		playlist, err := store.ForUser("owner", nil, nil).CreatePlaylist("Private", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		intruder := store.ForUser("intruder", nil, nil)
		if err := intruder.AddToPlaylist(playlist.ID(), tracks[0]); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
		if err := intruder.DeletePlaylist(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestSharedPlaylist(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	lib := store.ForUser("user-1", nil, nil)

	playlist, err := lib.CreatePlaylist("Shared", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := lib.AddToPlaylist(playlist.ID(), tu.SampleTracks(1)[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Private Is Hidden", func(t *testing.T) {
		if _, err := store.SharedPlaylist(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Public Is Visible", func(t *testing.T) {
		if _, err := lib.SetPublic(playlist.ID(), true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := store.SharedPlaylist(playlist.ID())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Playlist.Name != "Shared" || len(got.Tracks) != 1 {
			t.Errorf("unexpected shared playlist %+v", got)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := store.SharedPlaylist("nope"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestHistory(t *testing.T) {
	lib, _, _ := setupLibrary(t, "user-1")
	ctx := context.Background()

	for _, track := range tu.SampleTracks(3) {
		if err := lib.RecordPlay(ctx, *track.Active()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	plays, err := lib.History(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plays) != 2 {
		t.Fatalf("expected 2 plays, got %d", len(plays))
	}
	if plays[0].Name != "Song t3" {
		t.Errorf("expected newest play first, got %q", plays[0].Name)
	}
}
