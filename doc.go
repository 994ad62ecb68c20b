// Package authcore implements the authentication core of the AuraVision
// credential product: a session-backed authentication state machine over a
// slot-based persistent user store.
//
// State machine:
//   - AuthService owns an AuthState projection (Anonymous, Pending,
//     Authenticated) and orchestrates password, simulated facial and
//     simulated QR logins, registration, logout, and the password-reset
//     notification stub. Transitions are pure AuthState methods; all I/O and
//     the simulated latency happen before a transition is applied. Operations
//     are serialized per instance.
//   - Facial and QR matching are stand-ins: the injected Matcher selects a
//     user from the store (uniformly random by default) and only an empty
//     store fails. Swap the Matcher when a real backend exists.
//
// Persistence:
//   - Storage is a key/value slot port. The user collection lives in one
//     slot as a single JSON document, rewritten wholesale on each mutation
//     and re-read on each access; the current session lives in another.
//     MemoryStorage backs tests and demos, BunStorage persists slots in a
//     relational table.
//   - Sessions expire absolutely; SessionStore deletes expired or malformed
//     payloads on read so they are never resurrected.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter describing login,
//     registration, logout and password-reset events. Sinks run best-effort
//     (errors are logged) so you can forward to a database or queue without
//     blocking authentication.
package authcore
