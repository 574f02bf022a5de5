// Package userauth implements the account activation and session lifecycle
// core: credential verification, activation token issuance, access/refresh
// JWT pairs, server-side session records, and role-gated HTTP middleware.
//
// Activation flow:
//   - Register checks email uniqueness and mints a short-lived activation
//     token embedding the pending registration plus a 4-digit code that is
//     delivered out-of-band via the Mailer boundary. The pending account is
//     never persisted; the signed token held by the client is its only
//     durability.
//   - Activate verifies token and code together, re-checks uniqueness, and
//     persists the account with a bcrypt password hash.
//
// Sessions:
//   - Login and SocialAuth mint an access/refresh token pair and write an
//     AccountProjection to the SessionStore keyed by account id. Every
//     authenticated request re-reads that record, so deleting it (Logout)
//     revokes access even while refresh tokens remain cryptographically
//     valid.
//   - Refresh rotates both tokens but only when the session record still
//     exists; an evicted session forces the client to authenticate again.
//
// Persistence, session storage, and mail delivery are collaborator
// boundaries (AccountStore, SessionStore, Mailer) so the core stays free of
// schema ownership. Reference adapters live in the root package (Bun
// repository), the store subpackage (Redis, in-memory), and mailer.go (SMTP).
package userauth
