package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytpm/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps [models.PlaylistItem] to implement [list.Item].
type songItem struct {
	position int
	item     models.PlaylistItem
}

func (i songItem) FilterValue() string { return i.item.Title }
func (i songItem) Title() string       { return i.item.Title }
func (i songItem) Description() string { return fmt.Sprintf("#%d • %s", i.position, i.item.ID) }

func songItems(snap models.Snapshot) []list.Item {
	items := make([]list.Item, len(snap))
	for i, it := range snap {
		items[i] = songItem{position: i + 1, item: it}
	}
	return items
}

func newSongList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Playlist"
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = styles.button
	return l
}
