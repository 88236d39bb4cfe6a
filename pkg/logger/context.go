package logger

// ContextKey is the type used for logger-related context values.
type ContextKey string

// ContextKeyRequestID carries the request ID through a request's context.
const ContextKeyRequestID ContextKey = "request_id"
