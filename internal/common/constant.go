package common

// AuthorizationHeaderName is the HTTP header (and gRPC metadata key, lower
// cased) that carries the bearer credential.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// RequestIDHeaderName carries the per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"
