// Package models defines the data carried between the session manager, the playlist API client and the controller.
//
//   - [PlaylistItem] : one entry of the remote playlist, identified by an opaque provider id
//   - [Snapshot] : the full ordered playlist as last returned by the server, replaced wholesale on every fetch
//   - [Credential] : the bearer token persisted by the session manager
//   - [Profile] : display-only identity decoded from a [Credential]
package models
