package routes

var (
	SignupDurationSecondsBuckets  = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets   = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	CheckIDDurationSecondsBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
)

const (
	// API route constants
	CheckIDRouteAPI  = "/check_id"
	SignupRouteAPI   = "/signup"
	LoginRouteAPI    = "/login"
	WithdrawRouteAPI = "/withdraw"
	LogoutRouteAPI   = "/logout"
	MetricsRouteAPI  = "/metrics"
	HealthRouteAPI   = "/healthz"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// cookie constants
	CheckedIDCookie = "checked_id"
	SessionCookie   = "session_token"

	// message constants
	MsgEnterID           = "please enter an ID"
	MsgIDTaken           = "this ID is already taken"
	MsgIDAvailable       = "this ID is available"
	MsgLoginSuccessful   = "Login successful"
	MsgLogoutSuccessful  = "Logged out"
	MsgWithdrawn         = "Account deleted"
	MsgUserCreatedFormat = "User created successfully with ID: %s"

	// Error messages
	ErrMethodNotAllowed         = "Method not allowed"
	ErrInvalidContentType       = "Request Content-Type must be application/json or application/x-www-form-urlencoded"
	ErrInvalidRequestBody       = "Invalid request body"
	ErrValidationFailed         = "Data validation failed"
	ErrCheckRequired            = "ID availability check required"
	ErrSignupIncomplete         = "Signup form is incomplete"
	ErrFailedToCheckID          = "Failed to check ID availability"
	ErrFailedToRegisterUser     = "Failed to register user"
	ErrUserAlreadyExists        = "This ID is already taken"
	ErrFailedToEncodeResponse   = "Failed to encode response"
	ErrFailedToGenerateToken    = "Failed to generate session token"
	ErrInvalidCredentials       = "Invalid username or password"
	ErrNotLoggedIn              = "Login required"
	ErrFailedToWithdraw         = "Failed to delete account"
	ErrUserNotFound             = "User not found"
	ErrDatabaseUnavailable      = "Database unavailable"
	ErrInvalidContentTypeFormat = "invalid content-type: %s"

	// metrics constants
	CheckIDRequestsTotal       = "check_id_requests_total"
	CheckIDRequestsTotalHelp   = "Total number of ID availability checks received"
	CheckIDResultsTotal        = "check_id_results_total"
	CheckIDResultsTotalHelp    = "ID availability checks by outcome"
	CheckIDDurationSeconds     = "check_id_duration_seconds"
	CheckIDDurationSecondsHelp = "Duration of ID availability lookups in seconds"
	SignupRequestsTotal        = "signup_requests_total"
	SignupRequestsTotalHelp    = "Total number of signup requests received"
	SignupSuccessTotal         = "signup_success_total"
	SignupSuccessTotalHelp     = "Total number of successful signup requests"
	SignupErrorsTotal          = "signup_errors_total"
	SignupErrorsTotalHelp      = "Total number of errors during signup requests"
	SignupDurationSeconds      = "signup_duration_seconds"
	SignupDurationSecondsHelp  = "Duration of signup requests in seconds"
	LoginRequestsTotal         = "login_requests_total"
	LoginRequestsTotalHelp     = "Total number of login requests received"
	LoginSuccessTotal          = "login_success_total"
	LoginSuccessTotalHelp      = "Total number of successful login requests"
	LoginFailedTotal           = "login_failed_total"
	LoginFailedTotalHelp       = "Total number of failed login requests"
	LoginDurationSeconds       = "login_duration_seconds"
	LoginDurationSecondsHelp   = "Duration of login requests in seconds"
	WithdrawRequestsTotal      = "withdraw_requests_total"
	WithdrawRequestsTotalHelp  = "Total number of withdraw requests received"
	WithdrawSuccessTotal       = "withdraw_success_total"
	WithdrawSuccessTotalHelp   = "Total number of deleted accounts"
	WithdrawFailedTotal        = "withdraw_failed_total"
	WithdrawFailedTotalHelp    = "Total number of failed withdraw requests"
	ActiveSessions             = "active_sessions"
	ActiveSessionsHelp         = "Sessions opened by login and not yet closed by logout or withdraw"

	// metric label values
	LabelOutcome     = "outcome"
	OutcomeAvailable = "available"
	OutcomeTaken     = "taken"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
)
