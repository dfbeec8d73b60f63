// Package server implements the StayVista HTTP API surface.
//
// Owns:
//   - HTTP routing, handlers, and request/response contracts
//   - The credential gate (cookie-carried HS256 token, RequireAuth)
//   - The RoomStore interface and its MongoDB, SQLite and in-memory backends
//
// Does not own:
//   - Configuration loading and token signing primitives (internal/shared)
//
// Invariants:
//   - JSON responses go through writeJSON; errors are {"message": ...}
//   - Status codes come from shared.Kind via statusFor
//   - Which routes require a credential is decided by shared.AuthPolicy
//   - Every store call runs on the request context
package server
