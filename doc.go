// Package adminfront implements the client half of a session-authenticated
// user-management API: obtaining, storing, attaching, and invalidating a
// bearer credential across requests, plus the admin and self-service
// operations built on top of it.
//
// Credential lifecycle:
//   - A CredentialStore owns the opaque token for one client session. The
//     in-memory store backs CLI and test usage; the webapp subpackage provides
//     a request-scoped store backed by an HTTP-only cookie.
//   - Transport is an http.RoundTripper that attaches the credential as an
//     Authorization bearer header on every protected request, refuses to dial
//     when no credential is present, and clears the store on any 401 so the
//     reaction to an expired session is uniform across call sites.
//   - Gateway drives the Anonymous -> Authenticated -> Anonymous lifecycle
//     through the backend login, user-info, and logout endpoints. Revoke is
//     fire-and-forget for the remote half and mandatory for the local half.
//
// Every operation reports failures through the shared error taxonomy in
// errors.go; NewResult folds an (data, err) pair into the uniform envelope
// the view layers render.
package adminfront
