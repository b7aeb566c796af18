// Package http provides HTTP handlers and middleware for the IT Operations
// meeting portal.
//
// The router exposes the following endpoints:
//   - GET /: module descriptor {"name","display_name","version","principal"}.
//     Protected by the auth gate.
//   - GET /healthz: {"status":"ok"} once the submission journal answers.
//   - GET /api/auth/login-url?callbackUrl=: central login URL and, when
//     Keycloak is configured, the direct authorization URL.
//   - GET /api/meeting, GET /api/meeting/accounts, GET /api/meeting/host-key,
//     POST /api/meeting/zoom/create: pass-through to the meeting backend. The
//     backend payload is relayed as-is; failures become 500 {"error": msg}.
//     POST /api/meeting answers 405 with a pointer to the create endpoint.
//   - GET /api/meeting/catalog?date=: accounts with the day's meetings, their
//     ongoing and upcoming lists and the load instant. Join links are only
//     shown to the requester and internal attendants.
//   - GET /api/meeting/availability?date=&time=&duration=: accounts free for
//     the window, with serialized start and end when the window is complete.
//   - GET /api/meeting/options: selectable start times and durations.
//   - POST /api/meeting/schedule: validated submission, 201 on success, 422
//     with per-field messages, 409 when the account became busy.
//   - GET /api/meeting/submissions?limit=, GET /api/meeting/submissions/{id}:
//     the caller's journal of scheduling attempts.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
