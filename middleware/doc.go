// Package middleware adapts campusAuth to net/http.
//
// [Authenticate] resolves the bearer token of every request and binds the
// resulting principal to the request context; it never rejects. A
// [RouteTable] then decides per (method, path) whether the principal may
// proceed, answering 401 or 403 with a JSON error body otherwise. Handlers
// registered through the table receive the principal as a parameter.
//
// The gin flavour lives in middleware/ginauth and shares [RoleSet],
// [Decide], [RouteTable] and the error mapping.
//
// # What this package must NOT do
//
//   - Parse or sign tokens directly (delegates to the Engine).
//   - Log the token or keep principals outside the request context.
//   - Cache access decisions between requests.
package middleware
