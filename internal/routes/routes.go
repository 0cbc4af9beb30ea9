package routes

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/auth"
	"github.com/haguru/signup/internal/form"
	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/internal/models/dto"
	"github.com/haguru/signup/internal/userservice"
	"github.com/haguru/signup/pkg/helper"

	structValidator "github.com/go-playground/validator/v10"
)

// healthTimeout bounds the database ping behind /healthz.
const healthTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Route struct {
	Metrics     interfaces.Metrics
	UserService interfaces.UserService
	PrivateKey  *ecdsa.PrivateKey
	Logger      interfaces.Logger
	Session     config.SessionConfig
	DB          Pinger
	validator   *structValidator.Validate
	sessions    *closedSessions
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, userService interfaces.UserService,
	privateKey *ecdsa.PrivateKey, validator *structValidator.Validate,
	logger interfaces.Logger, session config.SessionConfig, db Pinger,
) *Route {
	if session.CheckedIDTTL <= 0 {
		session.CheckedIDTTL = auth.DefaultCheckedIDTTL
	}
	if session.SessionTTL <= 0 {
		session.SessionTTL = auth.DefaultSessionTTL
	}

	return &Route{
		Metrics:     metrics,
		UserService: userService,
		PrivateKey:  privateKey,
		Logger:      logger,
		Session:     session,
		DB:          db,
		validator:   validator,
		sessions:    newClosedSessions(),
	}
}

// CheckID answers whether the posted id is free. A free id also earns a
// short-lived checked_id cookie that /signup requires.
func (r *Route) CheckID(w http.ResponseWriter, req *http.Request) {
	funcName := helper.GetFuncName()
	if req.Method != http.MethodPost {
		r.errorResponse(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(CheckIDRequestsTotal)
	}

	checkRequest := &dto.CheckIDRequestDTO{}
	if !r.decode(w, req, checkRequest, CheckIDResultsTotal, OutcomeError) {
		return
	}

	id := strings.TrimSpace(checkRequest.ID)
	if id == "" {
		r.countOutcome(OutcomeEmpty)
		r.jsonResponse(w, http.StatusOK, &dto.CheckIDResponseDTO{Result: false, Message: MsgEnterID})
		return
	}

	startTime := time.Now()
	available, err := r.UserService.IsUsernameAvailable(req.Context(), id)
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(CheckIDDurationSeconds, time.Since(startTime).Seconds())
	}
	if err != nil {
		r.Logger.Error(ErrFailedToCheckID, "func", funcName, "id", id, "error", err)
		r.countOutcome(OutcomeError)
		r.errorResponse(w, http.StatusInternalServerError, err, ErrFailedToCheckID)
		return
	}

	if !available {
		r.countOutcome(OutcomeTaken)
		r.clearCookie(w, CheckedIDCookie)
		r.jsonResponse(w, http.StatusOK, &dto.CheckIDResponseDTO{Result: false, Message: MsgIDTaken})
		return
	}

	token, err := auth.CreateToken(id, auth.PurposeCheckedID, r.Session.CheckedIDTTL, r.PrivateKey)
	if err != nil {
		r.Logger.Error(ErrFailedToGenerateToken, "func", funcName, "id", id, "error", err)
		r.countOutcome(OutcomeError)
		r.errorResponse(w, http.StatusInternalServerError, err, ErrFailedToGenerateToken)
		return
	}
	r.setCookie(w, CheckedIDCookie, token, r.Session.CheckedIDTTL)

	r.countOutcome(OutcomeAvailable)
	r.Logger.Debug("ID available", "func", funcName, "id", id)
	r.jsonResponse(w, http.StatusOK, &dto.CheckIDResponseDTO{Result: true, Message: MsgIDAvailable})
}

// Signup handles user signup requests.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	funcName := helper.GetFuncName()
	if req.Method != http.MethodPost {
		r.errorResponse(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupRequestsTotal)
	}

	signupRequest := &dto.UserSignupRequestDTO{}
	if !r.decode(w, req, signupRequest, SignupErrorsTotal) {
		return
	}
	id := strings.TrimSpace(signupRequest.ID)
	if id == "" {
		r.errorResponse(w, http.StatusBadRequest, form.ErrIdentifierNotVerified, ErrCheckRequired)
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	// The form only unlocks after a successful check of this exact id.
	checked, ok := r.checkedID(req)
	verified := ok && checked == id
	state := form.FormState{
		Identifier:           id,
		IdentifierVerified:   verified,
		Password:             signupRequest.Password,
		PasswordConfirmation: signupRequest.PasswordCheck,
		DisplayName:          signupRequest.Name,
		Email:                signupRequest.Email,
		TermsAccepted:        signupRequest.Terms,
	}
	if err := form.Validate(state); err != nil {
		message := ErrSignupIncomplete
		if errors.Is(err, form.ErrIdentifierNotVerified) {
			message = ErrCheckRequired
		}
		r.Logger.Debug("Signup rejected", "func", funcName, "id", id, "error", err)
		r.errorResponse(w, http.StatusBadRequest, err, message)
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	startTime := time.Now()

	userID, err := r.UserService.RegisterUser(req.Context(), models.Registration{
		Username:    id,
		Password:    signupRequest.Password,
		DisplayName: strings.TrimSpace(signupRequest.Name),
		Email:       strings.TrimSpace(signupRequest.Email),
	})
	if err != nil {
		status, message := http.StatusInternalServerError, ErrFailedToRegisterUser
		if errors.Is(err, interfaces.ErrUserExists) {
			status, message = http.StatusConflict, ErrUserAlreadyExists
			r.clearCookie(w, CheckedIDCookie)
		}
		r.errorResponse(w, status, err, message)
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupSuccessTotal)
		r.Metrics.ObserveHistogram(SignupDurationSeconds, time.Since(startTime).Seconds())
	}

	r.clearCookie(w, CheckedIDCookie)
	r.jsonResponse(w, http.StatusCreated, &dto.UserSignupResponseDTO{
		Message: fmt.Sprintf(MsgUserCreatedFormat, userID),
		UserID:  userID,
	})
}

// Login handles user login requests.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.errorResponse(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginRequestsTotal)
	}

	loginRequest := &dto.LoginRequestDTO{}
	if !r.decode(w, req, loginRequest, LoginFailedTotal) {
		return
	}

	id := strings.TrimSpace(loginRequest.ID)
	startTime := time.Now()

	authenticated, err := r.UserService.AuthenticateUser(req.Context(), id, loginRequest.Password)
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(LoginDurationSeconds, time.Since(startTime).Seconds())
	}
	if err != nil || !authenticated {
		status := http.StatusUnauthorized
		if err == nil {
			err = userservice.ErrInvalidCredentials
		} else if !errors.Is(err, userservice.ErrInvalidCredentials) {
			status = http.StatusInternalServerError
		}
		r.errorResponse(w, status, err, ErrInvalidCredentials)
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	sessionToken, err := auth.CreateToken(id, auth.PurposeSession, r.Session.SessionTTL, r.PrivateKey)
	if err != nil {
		r.errorResponse(w, http.StatusInternalServerError, err, ErrFailedToGenerateToken)
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginSuccessTotal)
		r.Metrics.IncGauge(ActiveSessions)
	}

	r.setCookie(w, SessionCookie, sessionToken, r.Session.SessionTTL)
	r.jsonResponse(w, http.StatusOK, &dto.LoginResponseDTO{Message: MsgLoginSuccessful})
}

// Withdraw deletes the logged-in account once the password is confirmed
// and the agreement box is checked.
func (r *Route) Withdraw(w http.ResponseWriter, req *http.Request) {
	funcName := helper.GetFuncName()
	if req.Method != http.MethodPost {
		r.errorResponse(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(WithdrawRequestsTotal)
	}

	claims, err := r.session(req)
	if err != nil {
		r.errorResponse(w, http.StatusUnauthorized, err, ErrNotLoggedIn)
		if r.Metrics != nil {
			r.Metrics.IncCounter(WithdrawFailedTotal)
		}
		return
	}

	withdrawRequest := &dto.WithdrawRequestDTO{}
	if !r.decode(w, req, withdrawRequest, WithdrawFailedTotal) {
		return
	}

	err = r.UserService.WithdrawUser(req.Context(), claims.UserID, withdrawRequest.Password)
	if err != nil {
		status, message := http.StatusInternalServerError, ErrFailedToWithdraw
		switch {
		case errors.Is(err, userservice.ErrInvalidCredentials):
			status, message = http.StatusUnauthorized, ErrInvalidCredentials
		case errors.Is(err, interfaces.ErrUserNotFound):
			status, message = http.StatusNotFound, ErrUserNotFound
		}
		r.errorResponse(w, status, err, message)
		if r.Metrics != nil {
			r.Metrics.IncCounter(WithdrawFailedTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(WithdrawSuccessTotal)
	}
	r.closeSession(claims)
	r.Logger.Info("Account withdrawn", "func", funcName, "user", claims.UserID, "reason", withdrawRequest.Reason)

	r.clearCookie(w, SessionCookie)
	r.jsonResponse(w, http.StatusOK, &dto.WithdrawResponseDTO{
		Message: MsgWithdrawn,
		UserID:  claims.UserID,
		Reason:  withdrawRequest.Reason,
	})
}

// Logout clears the session cookie.
func (r *Route) Logout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.errorResponse(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	if claims, err := r.session(req); err == nil {
		r.closeSession(claims)
	}
	r.clearCookie(w, SessionCookie)
	r.jsonResponse(w, http.StatusOK, &dto.LogoutResponseDTO{Message: MsgLogoutSuccessful})
}

// Health pings the database.
func (r *Route) Health(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.errorResponse(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}
	if r.DB != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthTimeout)
		defer cancel()
		if err := r.DB.Ping(ctx); err != nil {
			r.jsonResponse(w, http.StatusServiceUnavailable, &dto.HealthResponseDTO{Status: ErrDatabaseUnavailable, Error: err.Error()})
			return
		}
	}
	r.jsonResponse(w, http.StatusOK, &dto.HealthResponseDTO{Status: "ok"})
}

// decode reads and validates the request body into dst. On failure it
// answers 400 and bumps the given counter; labels select a CounterVec entry.
func (r *Route) decode(w http.ResponseWriter, req *http.Request, dst interface{}, failCounter string, labels ...string) bool {
	err := decodeRequest(w, req, dst)
	if err == nil {
		err = r.validator.Struct(dst)
		if err != nil {
			err = fmt.Errorf("%s: %w", ErrValidationFailed, err)
		}
	}
	if err == nil {
		return true
	}

	message := ErrInvalidRequestBody
	if errors.Is(err, errUnsupportedContentType) {
		message = ErrInvalidContentType
	}
	r.errorResponse(w, http.StatusBadRequest, err, message)
	if r.Metrics != nil {
		if len(labels) > 0 {
			r.Metrics.IncCounterVec(failCounter, labels...)
		} else {
			r.Metrics.IncCounter(failCounter)
		}
	}
	return false
}

// checkedID returns the id named by a valid checked_id cookie. ok is false
// when the cookie is missing or does not verify.
func (r *Route) checkedID(req *http.Request) (id string, ok bool) {
	cookie, err := req.Cookie(CheckedIDCookie)
	if err != nil {
		return "", false
	}
	claims, err := auth.VerifyToken(cookie.Value, auth.PurposeCheckedID, &r.PrivateKey.PublicKey)
	if err != nil {
		r.Logger.Debug("Rejected checked_id cookie", "func", helper.GetFuncName(), "error", err)
		return "", false
	}
	return claims.UserID, claims.UserID != ""
}

func (r *Route) session(req *http.Request) (*auth.CustomClaims, error) {
	cookie, err := req.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}
	claims, err := auth.VerifyToken(cookie.Value, auth.PurposeSession, &r.PrivateKey.PublicKey)
	if err != nil {
		return nil, err
	}
	if r.sessions.isClosed(claims.ID) {
		return nil, errSessionClosed
	}
	return claims, nil
}

// closeSession ends the session behind claims. The gauge drops once per token.
func (r *Route) closeSession(claims *auth.CustomClaims) {
	expiresAt := time.Now().Add(r.Session.SessionTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if r.sessions.close(claims.ID, expiresAt) && r.Metrics != nil {
		r.Metrics.DecGauge(ActiveSessions)
	}
}

func (r *Route) countOutcome(outcome string) {
	if r.Metrics != nil {
		r.Metrics.IncCounterVec(CheckIDResultsTotal, outcome)
	}
}

func (r *Route) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (r *Route) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (r *Route) jsonResponse(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "func", helper.GetFuncName(), "error", err)
	}
}

func (r *Route) errorResponse(w http.ResponseWriter, status int, err error, message string) {
	r.jsonResponse(w, status, map[string]string{
		"error":   err.Error(),
		"message": message,
	})
}
