package errors

// ErrorCode identifies an application error category in API responses.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1006

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001

	// Meetings
	ErrorCode_MEETING_NOT_FOUND       ErrorCode = 3000
	ErrorCode_MEETING_INVALID_STATE   ErrorCode = 3001
	ErrorCode_UNSUPPORTED_MEETING_URL ErrorCode = 3002

	// Bot platform
	ErrorCode_BOT_PLATFORM_UNAVAILABLE ErrorCode = 4000
	ErrorCode_BOT_PLATFORM_AUTH_FAILED ErrorCode = 4001
	ErrorCode_BOT_DISPATCH_FAILED      ErrorCode = 4002
	ErrorCode_BOT_STOP_REJECTED        ErrorCode = 4003
	ErrorCode_TRANSCRIPT_INCOMPLETE    ErrorCode = 4004

	// AI generation
	ErrorCode_AI_GENERATION_FAILED ErrorCode = 5000
	ErrorCode_AI_RESPONSE_INVALID  ErrorCode = 5001
	ErrorCode_AI_CONFIG_MISSING    ErrorCode = 5002

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 6000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                  "OK",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:           "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:        "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:          "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:          "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:       "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:       "AUTH_TOKEN_EXPIRED",
	ErrorCode_MEETING_NOT_FOUND:        "MEETING_NOT_FOUND",
	ErrorCode_MEETING_INVALID_STATE:    "MEETING_INVALID_STATE",
	ErrorCode_UNSUPPORTED_MEETING_URL:  "UNSUPPORTED_MEETING_URL",
	ErrorCode_BOT_PLATFORM_UNAVAILABLE: "BOT_PLATFORM_UNAVAILABLE",
	ErrorCode_BOT_PLATFORM_AUTH_FAILED: "BOT_PLATFORM_AUTH_FAILED",
	ErrorCode_BOT_DISPATCH_FAILED:      "BOT_DISPATCH_FAILED",
	ErrorCode_BOT_STOP_REJECTED:        "BOT_STOP_REJECTED",
	ErrorCode_TRANSCRIPT_INCOMPLETE:    "TRANSCRIPT_INCOMPLETE",
	ErrorCode_AI_GENERATION_FAILED:     "AI_GENERATION_FAILED",
	ErrorCode_AI_RESPONSE_INVALID:      "AI_RESPONSE_INVALID",
	ErrorCode_AI_CONFIG_MISSING:        "AI_CONFIG_MISSING",
	ErrorCode_DB_QUERY_FAILED:          "DB_QUERY_FAILED",
}

// String returns the symbolic name of the error code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
