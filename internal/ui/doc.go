// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// A single screen mirrors the playlist page: a header with the signed-in account, a text input for a song
// title, the playlist itself and a line of key help. All state that matters lives in the
// [controller.Controller]; the [Model] keeps only view concerns (input text, list cursor, spinner) and
// re-renders the controller's snapshot after every settled operation.
//
// Each operation runs inside a [tea.Cmd] and comes back as a message:
//   - [listedMsg] : mount or refresh settled
//   - [addedMsg] : append settled, the input is cleared and a re-list is dispatched
//   - [clearedMsg] : clear settled, a re-list is dispatched on success
//   - [relistedMsg] : the follow-up list settled
//   - [signedInMsg] : sign-in settled, the header is reloaded
//
// Failures never end the program. Lists, adds and clears are logged; sign-in outcomes show as a
// dismissible notice.
package ui
