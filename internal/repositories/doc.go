// Package repositories implements SQLite persistence.
//
// Key Implementations:
//   - [StorageRepository] : key/value slots, used by the session manager to keep the signed-in credential
//     across process restarts
//
// The schema lives in the shared package's embedded migrations and is applied by [shared.OpenStorage].
package repositories
