package contextkeys

// Custom type avoids collisions with other packages' context keys.
type contextKey string

// RequestIDContextKey carries the request id assigned by the middleware.
const RequestIDContextKey = contextKey("request_id")
