// Package services implements the HTTP client for the playlist service.
//
// # Playlist Client
//
// [PlaylistClient] wraps the three remote operations:
//   - GET /playlist : the full playlist as {"items": [...]}
//   - POST /add_song?song_title=<title> : append the best match for a title
//   - DELETE /clear_playlist : remove items (the server keeps at least one)
//
// The bearer credential is pulled from a [CredentialSource] on every call and the Authorization header
// is omitted when the source has none. Requests are tagged with an X-Request-ID and logged at debug level.
//
// # Error Handling
//
// Every failure of an operation is an [*OpError] that matches one sentinel from the shared package:
//   - [shared.ErrFetchFailed] : list failed (transport, non-2xx, undecodable body)
//   - [shared.ErrAddFailed] : append failed
//   - [shared.ErrClearFailed] : clear failed
//
// FastAPI error bodies ({"detail": "Song not found"}) are surfaced through [OpError.Detail].
// There are no retries; pacing via [PlaylistClientOpts.RateLimit] only spaces requests out.
package services
