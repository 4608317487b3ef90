// Package session owns the signed-in credential.
//
// A [Manager] drives an identity [Provider] through initialization and interactive sign-in and keeps the
// resulting credential in a single [Store] slot under [CredentialKey]. Every read goes back to the store,
// so a credential written by one process (e.g. `ytpm auth login`) is visible to the next.
//
// Key Implementations:
//   - [Manager] : initialize/sign-in/sign-out orchestration plus [Manager.Credential] for API clients
//   - [GoogleProvider] : installed-app OAuth2 flow (PKCE, loopback callback) returning the Google ID token
//   - [SignInError] : the failure of a sign-in attempt, split into cancelled and other
package session
