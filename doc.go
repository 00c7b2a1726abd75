// Package bearer provides opaque bearer-token authentication and a uniform
// API response envelope for JSON backends.
//
// Token lifecycle:
//   - TokenService issues opaque credentials (uuid hex plus an equal-length
//     random hex string) and keeps at most one live token per user: issuing a
//     new token deletes the previous row and updates the user association in
//     a single transaction.
//   - BearerStrategy validates inbound credentials against the store,
//     enforces the configured TTL, resolves the owning user, and exposes a
//     ProtectedRoute middleware that attaches the user to the request.
//   - ResetPasswordService runs the same opaque-token lifecycle for password
//     resets in a separate table.
//
// Response envelopes:
//   - Every handler outcome maps to {data, pagination, error}. EnvelopeService
//     owns that mapping and WrapHandler applies it at the router boundary, so
//     no handler formats its own error response. Error traces are emitted
//     only in the development environment.
//   - resource.Repository serves bounded, counted, clamped pages that flow
//     through the collection envelope path.
package bearer
