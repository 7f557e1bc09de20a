package shared

// gin context keys shared by middleware and the API layer
const (
	ContextKeyRequestID = "request_id"
	ContextKeyIdentity  = "identity"
	HeaderRequestID     = "X-Request-ID"
)
