package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPlaylistItem(t *testing.T) {
	t.Run("Flat Shape", func(t *testing.T) {
		var resp PlaylistResponse
		if err := json.Unmarshal([]byte(`{"items":[{"id":"a","title":"Song A"}]}`), &resp); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(resp.Items) != 1 || resp.Items[0] != (PlaylistItem{ID: "a", Title: "Song A"}) {
			t.Errorf("unexpected items %+v", resp.Items)
		}
	})

	t.Run("YouTube Snippet Shape", func(t *testing.T) {
		body := `{"kind":"youtube#playlistItemListResponse","items":[
			{"kind":"youtube#playlistItem","id":"UEx1","snippet":{"title":"Never Gonna Give You Up","position":0}},
			{"kind":"youtube#playlistItem","id":"UEx2","snippet":{"title":"Take On Me","position":1}}
		]}`

		var resp PlaylistResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"Never Gonna Give You Up", "Take On Me"}
		got := resp.Items.Titles()
		if len(got) != len(want) {
			t.Fatalf("expected %d items, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("item %d: expected %q, got %q", i, want[i], got[i])
			}
		}
		if resp.Items[0].ID != "UEx1" {
			t.Errorf("expected id UEx1, got %s", resp.Items[0].ID)
		}
	})

	t.Run("Top-Level Title Wins", func(t *testing.T) {
		var item PlaylistItem
		if err := json.Unmarshal([]byte(`{"id":"x","title":"flat","snippet":{"title":"nested"}}`), &item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Title != "flat" {
			t.Errorf("expected flat title, got %q", item.Title)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		var item PlaylistItem
		if err := json.Unmarshal([]byte(`{"id":1}`), &item); err == nil {
			t.Error("expected error for numeric id")
		}
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("Clone", func(t *testing.T) {
		orig := Snapshot{{ID: "a", Title: "A"}}
		clone := orig.Clone()
		clone[0].Title = "changed"

		if orig[0].Title != "A" {
			t.Error("clone should not share backing array")
		}
	})

	t.Run("Clone Nil", func(t *testing.T) {
		var s Snapshot
		if c := s.Clone(); c == nil || len(c) != 0 {
			t.Errorf("expected empty non-nil snapshot, got %#v", c)
		}
	})
}

func TestCredential(t *testing.T) {
	if !Credential("").Empty() || !Credential("  ").Empty() {
		t.Error("blank credentials should be empty")
	}
	if Credential("tok").Empty() {
		t.Error("non-blank credential should not be empty")
	}
}

func TestProfile(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Expired", func(t *testing.T) {
		if (Profile{}).Expired(now) {
			t.Error("profile without expiry should not be expired")
		}
		if !(Profile{ExpiresAt: now.Add(-time.Minute)}).Expired(now) {
			t.Error("past expiry should be expired")
		}
		if (Profile{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
			t.Error("future expiry should not be expired")
		}
	})

	t.Run("DisplayName", func(t *testing.T) {
		if got := (Profile{Name: "Ada", Email: "ada@example.com"}).DisplayName(); got != "Ada" {
			t.Errorf("expected name, got %s", got)
		}
		if got := (Profile{Email: "ada@example.com", Subject: "1"}).DisplayName(); got != "ada@example.com" {
			t.Errorf("expected email, got %s", got)
		}
		if got := (Profile{Subject: "1"}).DisplayName(); got != "1" {
			t.Errorf("expected subject, got %s", got)
		}
	})
}
