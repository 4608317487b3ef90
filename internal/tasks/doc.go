// Package tasks runs multi-step playlist operations with progress reporting.
//
// # Operations
//
//  1. [Engine.Import] : append a list of titles
//     - Optionally clears the playlist first, or skips titles already present
//     - Adds titles one at a time so the service keeps them in list order
//     - Collects per-title failures instead of stopping at the first one
//
//  2. [Engine.Diff] : compare a list of titles with the remote playlist
//     - Titles are compared case-insensitively with whitespace collapsed
//     - Reports matched count, titles missing from the playlist, and extra songs
//
// # Progress Reporting
//
// Both operations accept a channel of [ProgressUpdate]. Sends use select with default
// so a slow reader drops updates instead of stalling the operation. A nil channel
// disables reporting.
//
// Title lists are read with [ReadTitles], which understands the JSON and CSV written
// by the formatter package as well as plain text with one title per line.
package tasks
