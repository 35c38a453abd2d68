package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Session errors, all of which send the user back to login
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("session expired")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// Catalog errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrLyricsUnavailable  = fmt.Errorf("lyrics not available")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Library errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrAlreadyExists    = fmt.Errorf("already exists")
	ErrInvalidInput     = fmt.Errorf("invalid input")

	// Playback errors
	ErrNoActiveTrack  = fmt.Errorf("no active track")
	ErrWidgetDetached = fmt.Errorf("player was closed")
	ErrTransportLoad  = fmt.Errorf("failed to load stream")

	// Command line errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
