package errors

// ErrorCode identifies an application error class in API responses.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1005

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN     ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED     ErrorCode = 2001
	ErrorCode_AUTH_INVALID_SIGNATURE ErrorCode = 2002

	// Voice pipeline
	ErrorCode_VOICE_MISSING_CALLER    ErrorCode = 3000
	ErrorCode_VOICE_CUSTOMER_LOOKUP   ErrorCode = 3001
	ErrorCode_VOICE_SCHEDULING_FAILED ErrorCode = 3002
	ErrorCode_VOICE_SESSION_STREAM    ErrorCode = 3003
	ErrorCode_VOICE_PIPELINE_PANIC    ErrorCode = 3004

	// Integrations
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 4000
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 4001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 4002

	// Database
	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 5000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 5001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_SIGNATURE:          "AUTH_INVALID_SIGNATURE",
	ErrorCode_VOICE_MISSING_CALLER:            "VOICE_MISSING_CALLER",
	ErrorCode_VOICE_CUSTOMER_LOOKUP:           "VOICE_CUSTOMER_LOOKUP",
	ErrorCode_VOICE_SCHEDULING_FAILED:         "VOICE_SCHEDULING_FAILED",
	ErrorCode_VOICE_SESSION_STREAM:            "VOICE_SESSION_STREAM",
	ErrorCode_VOICE_PIPELINE_PANIC:            "VOICE_PIPELINE_PANIC",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
