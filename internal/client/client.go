// Package client talks to the signup service on behalf of the form: it
// runs identifier availability checks and submits the completed form.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/haguru/signup/internal/form"
	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models/dto"
	"github.com/haguru/signup/pkg/helper"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	CheckIDPath = "/check_id"
	SignupPath  = "/signup"

	contentType     = "Content-Type"
	contentTypeForm = "application/x-www-form-urlencoded"

	// maxErrorBody bounds how much of a failed response is read for its message.
	maxErrorBody = 4096

	opCheckID = "check id"
	opSignup  = "signup"
)

// Client is safe for concurrent use. Cookies set by the service (the
// checked-id marker) are kept in a jar so a later Signup carries them.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     interfaces.Logger
}

// New creates a client for the service at baseURL. timeout bounds every
// request; zero means no client-side limit beyond the caller's context.
func New(baseURL string, timeout time.Duration, logger interfaces.Logger) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Jar:       jar,
			Timeout:   timeout,
		},
		logger: logger,
	}, nil
}

// CheckID asks whether identifier is still free. It implements form.Checker.
func (c *Client) CheckID(ctx context.Context, identifier string) (form.Result, error) {
	funcName := helper.GetFuncName()
	body := url.Values{"id": {identifier}}

	resp, err := c.postForm(ctx, CheckIDPath, body)
	if err != nil {
		c.logger.Error("Identifier check request failed", "func", funcName, "identifier", identifier, "error", err)
		return form.Result{}, &form.NetworkError{Op: opCheckID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return form.Result{}, c.serverError(resp)
	}

	// Pointers tell a missing field apart from a false/empty one.
	var payload struct {
		Result  *bool   `json:"result"`
		Message *string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return form.Result{}, &form.ServerError{StatusCode: resp.StatusCode, Message: "malformed check response", Err: err}
	}
	if payload.Result == nil {
		return form.Result{}, &form.ServerError{StatusCode: resp.StatusCode, Message: "check response has no result"}
	}

	result := form.Result{Available: *payload.Result}
	if payload.Message != nil {
		result.Message = *payload.Message
	}
	c.logger.Debug("Identifier check answered", "func", funcName, "identifier", identifier, "available", result.Available)
	return result, nil
}

// Signup submits a completed form. The identifier must have been checked
// through this client so the checked-id cookie accompanies the request.
func (c *Client) Signup(ctx context.Context, state form.FormState) (dto.UserSignupResponseDTO, error) {
	funcName := helper.GetFuncName()
	body := url.Values{
		"id":             {strings.TrimSpace(state.Identifier)},
		"password":       {state.Password},
		"password_check": {state.PasswordConfirmation},
		"name":           {state.DisplayName},
		"email":          {state.Email},
	}
	if state.TermsAccepted {
		body.Set("terms", "on")
	}

	resp, err := c.postForm(ctx, SignupPath, body)
	if err != nil {
		c.logger.Error("Signup request failed", "func", funcName, "identifier", state.Identifier, "error", err)
		return dto.UserSignupResponseDTO{}, &form.NetworkError{Op: opSignup, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return dto.UserSignupResponseDTO{}, c.serverError(resp)
	}

	var response dto.UserSignupResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return dto.UserSignupResponseDTO{}, &form.ServerError{StatusCode: resp.StatusCode, Message: "malformed signup response", Err: err}
	}
	c.logger.Info("Signup completed", "func", funcName, "identifier", state.Identifier, "ID", response.UserID)
	return response, nil
}

func (c *Client) postForm(ctx context.Context, path string, body url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set(contentType, contentTypeForm)
	return c.httpClient.Do(req)
}

// serverError builds a ServerError from a non-success response, using the
// service's {"error","message"} body when there is one.
func (c *Client) serverError(resp *http.Response) error {
	serverErr := &form.ServerError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		serverErr.Err = err
		return serverErr
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		serverErr.Message = body.Message
	}
	return serverErr
}
