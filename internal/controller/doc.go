// Package controller holds the playlist view state shared by the CLI and the terminal UI.
//
// A [Controller] owns the current [models.Snapshot] and one busy flag per [Control]. The list is never patched
// locally: mount, refresh and every mutation end in a full re-list whose response replaces the snapshot.
// Lists are ticketed so that only a response newer than the last applied one can replace it.
//
// Policy for failures:
//   - list: logged, snapshot unchanged
//   - add: logged and returned, the list is re-fetched anyway
//   - clear: logged and returned, no re-fetch
//   - sign-in: a [Notice] for the user, cancelled and failed are worded differently
package controller
