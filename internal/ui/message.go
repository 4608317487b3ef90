package ui

import (
	"github.com/desertthunder/ytpm/internal/models"
)

type listedMsg struct {
	err error
}

// addedMsg arrives when the append settles, before the follow-up list.
type addedMsg struct {
	title string
	err   error
}

// clearedMsg arrives when the clear settles, before the follow-up list.
type clearedMsg struct {
	err error
}

// relistedMsg carries the list that follows an add or clear.
type relistedMsg struct {
	err error
}

type signedInMsg struct {
	err error
}

type profileMsg struct {
	profile models.Profile
	err     error
}
