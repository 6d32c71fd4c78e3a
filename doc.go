// Package swagcall builds a callable client surface from a Swagger/OpenAPI
// document at load time. Every named operation in the document becomes an
// invocable entry on the client: arguments are validated against the
// operation's parameter schemas, routed into the right part of an HTTP
// request (path, query, header, form, body), and dispatched either blocking
// or with a callback.
//
// Invalid input never panics and never surfaces as a Go error on the common
// path. A call with bad arguments completes with a Transaction shaped like a
// 400 response carrying every validation error at once, so callers inspect
// local failures and remote failures through the same value.
package swagcall
