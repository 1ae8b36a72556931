package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"

	// Account errors
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeLoginFailed        = "login_failed"
	ErrCodeUsernameTaken      = "username_taken"
	ErrCodeEmailTaken         = "email_taken"

	// Trivia errors
	ErrCodeUnknownDifficulty  = "unknown_difficulty"
	ErrCodeTriviaStartFailed  = "trivia_start_failed"
	ErrCodeNoActiveTrivia     = "no_active_trivia"
	ErrCodeUnansweredQuestion = "unanswered_question"
	ErrCodeSubmitFailed       = "submit_failed"

	// Claim errors
	ErrCodeClaimRejected   = "claim_rejected"
	ErrCodeClaimSendFailed = "failed_send_claim"

	// Ranking errors
	ErrCodeRankingFetchFailed = "ranking_fetch_failed"

	// OAuth errors
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthStartFailed    = "oauth_start_failed"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
