package values

// Response status strings returned in the ServerResponse envelope.
const (
	Success        = "success"
	Created        = "created"
	Error          = "internal-error"
	BadRequestBody = "bad-request"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	ActiveLogin    = "active-login"

	SystemErr = "Something went wrong, please try again later"
)

// Request headers consumed by the tracing middleware.
const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
)

type ContextKey string

const (
	ContextTracingKey ContextKey = "tracing-context"
)
