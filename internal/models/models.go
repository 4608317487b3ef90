package models

import (
	"encoding/json"
	"strings"
	"time"
)

// PlaylistItem is a single playlist entry. Items are never edited in place.
type PlaylistItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UnmarshalJSON accepts both the flat {id, title} shape and the YouTube playlistItems
// shape {id, snippet: {title}}. A top-level title takes precedence.
func (p *PlaylistItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Snippet *struct {
			Title string `json:"title"`
		} `json:"snippet"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.ID
	p.Title = raw.Title
	if p.Title == "" && raw.Snippet != nil {
		p.Title = raw.Snippet.Title
	}
	return nil
}

// Snapshot is the ordered playlist in server order.
type Snapshot []PlaylistItem

// Titles returns the item titles in order.
func (s Snapshot) Titles() []string {
	titles := make([]string, len(s))
	for i, item := range s {
		titles[i] = item.Title
	}
	return titles
}

// Clone returns a copy that does not share the backing array.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// PlaylistResponse is the body of GET /playlist.
type PlaylistResponse struct {
	Items Snapshot `json:"items"`
}

// Credential is an opaque bearer token issued by the identity provider.
type Credential string

// Empty reports whether no credential is present.
func (c Credential) Empty() bool {
	return strings.TrimSpace(string(c)) == ""
}

func (c Credential) String() string {
	return string(c)
}

// Profile is identity information decoded from a credential's claims.
//
// It is for display only; the playlist service verifies the token itself.
type Profile struct {
	Subject       string    `json:"sub"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"email_verified"`
	Audience      []string  `json:"aud"`
	ExpiresAt     time.Time `json:"exp"`
}

// Expired reports whether the credential the profile came from has expired at now.
func (p Profile) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

// DisplayName prefers the name claim and falls back to email, then subject.
func (p Profile) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Email != "":
		return p.Email
	default:
		return p.Subject
	}
}
