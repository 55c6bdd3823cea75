// Package http provides HTTP handlers and middleware for the reservation API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response data
//     carries {"token","expires_at","user"} with the token also surfaced via the
//     `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the Authorization
//     header or session cookie and clears the cookie.
//   - POST /reservation/create: opens a pending reservation and debits one unit of
//     each requested material.
//   - GET /reservation/all: lists every reservation.
//   - GET /reservation/status/{userId}: reports the status of the user's most recent
//     reservation.
//   - GET /reservation/{id}, DELETE /reservation/{id}: fetches or removes a single
//     reservation; deleting an active one returns the borrowed units to stock.
//   - PUT /reservation/accept/{id}, /reservation/refuse/{id}, /reservation/return/{id},
//     /reservation/cancel/{id}: lifecycle transitions. Refuse, return, and cancel are
//     terminal and restore inventory.
//   - CRUD under /admin/materials, /admin/reservas, /admin/links, /admin/projects,
//     /admin/users: administrator managed catalogs exchanging the DTO payloads defined
//     alongside each handler.
//   - GET /metrics: Prometheus scrape endpoint.
//
// Every response uses the envelope in responder.go: {"type","message"} plus optional
// "data" on success and "error" detail on faults. Messages are localized in
// Portuguese to match the web client.
package http
