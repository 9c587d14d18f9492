// Package audit provides the middleware writing the operation log.
//
// Every mutating request (POST, PUT, PATCH, DELETE) reaching the middleware is
// stored once the rest of the chain has run, together with the status the client
// receives. Reads are not logged. The middleware runs behind authentication, so the
// acting user id is known; rejected credentials never reach it.
//
// Usage:
//
//	api := app.Group("/api/admin", auth.RequireAuth(tokens, revoked), audit.New(db))
//
// A failing log write is reported and does not change the response.
package audit
