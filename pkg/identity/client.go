package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a GoTrue-compatible identity provider over JSON/HTTP.
// The anon key authorizes public auth flows; the service key authorizes the
// admin user-management endpoints.
type Client struct {
	BaseURL    string
	anonKey    string
	serviceKey string
	Client     *http.Client
}

func NewClient(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, apiKey, bearer string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", apiKey)
	if bearer == "" {
		bearer = apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	res, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("identity request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if err := json.Unmarshal(resBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(resBody)
		}
		return apiErr
	}

	if out != nil && len(resBody) > 0 {
		if err := json.Unmarshal(resBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// SignUp registers a new account. The provider issues the signup OTP; when
// configured to delegate mail delivery it echoes the code back in the
// confirmation_sent_at/otp fields.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*User, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     map[string]interface{}{"full_name": fullName},
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", c.anonKey, "", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyOTP confirms a signup or recovery code and returns a session.
// otpType is "signup" or "recovery".
func (c *Client) VerifyOTP(ctx context.Context, email, token, otpType string) (*Session, error) {
	payload := map[string]string{
		"email": email,
		"token": token,
		"type":  otpType,
	}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/verify", c.anonKey, "", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ResendOTP asks the provider to issue a fresh signup code. An account that is
// already confirmed maps to ErrAlreadyConfirmed so callers can distinguish it
// from a generic failure.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	payload := map[string]string{
		"email": email,
		"type":  "signup",
	}
	err := c.do(ctx, http.MethodPost, "/auth/v1/resend", c.anonKey, "", payload, nil)
	if err != nil {
		var apiErr *APIError
		if ok := asAPIError(err, &apiErr); ok && strings.Contains(strings.ToLower(apiErr.Message), "already confirmed") {
			return ErrAlreadyConfirmed
		}
		return err
	}
	return nil
}

// SignInWithPassword runs the password grant.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	var session Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.anonKey, "", payload, &session)
	if err != nil {
		var apiErr *APIError
		if ok := asAPIError(err, &apiErr); ok && (apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &session, nil
}

// ExchangeCode trades an OAuth callback code for a session.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	payload := map[string]string{
		"auth_code": code,
	}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=authorization_code", c.anonKey, "", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AuthorizeURL builds the provider-hosted OAuth entry point.
func (c *Client) AuthorizeURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.BaseURL + "/auth/v1/authorize?" + q.Encode()
}

// GetUser resolves a bearer token to its account.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/auth/v1/user", c.anonKey, accessToken, nil, &user)
	if err != nil {
		var apiErr *APIError
		if ok := asAPIError(err, &apiErr); ok && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &user, nil
}

// SignOut revokes the token's session.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", c.anonKey, accessToken, nil, nil)
}

// Recover sends a password recovery code to the email.
func (c *Client) Recover(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/v1/recover", c.anonKey, "", payload, nil)
}

// UpdatePassword sets a new password for the session owner.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	payload := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPut, "/auth/v1/user", c.anonKey, accessToken, payload, nil)
}

// AdminCreateUser provisions a pre-confirmed account using the service key.
func (c *Client) AdminCreateUser(ctx context.Context, email, password string, appMetadata map[string]interface{}) (*User, error) {
	payload := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"app_metadata":  appMetadata,
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", c.serviceKey, "", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GeneratedLink is the admin generate_link response. EmailOTP is the code the
// provider would have mailed; returning it lets the backend send its own
// branded email instead.
type GeneratedLink struct {
	ActionLink  string `json:"action_link"`
	EmailOTP    string `json:"email_otp"`
	HashedToken string `json:"hashed_token"`
}

// AdminGenerateLink creates a signup/recovery link without the provider
// sending any email. linkType is "signup", "recovery" or "magiclink".
func (c *Client) AdminGenerateLink(ctx context.Context, linkType, email, password, redirectTo string) (*GeneratedLink, error) {
	payload := map[string]string{
		"type":  linkType,
		"email": email,
	}
	if password != "" {
		payload["password"] = password
	}
	if redirectTo != "" {
		payload["redirect_to"] = redirectTo
	}
	var link GeneratedLink
	if err := c.do(ctx, http.MethodPost, "/auth/v1/admin/generate_link", c.serviceKey, "", payload, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// AdminUpdateUser patches the provider-side account, typically app_metadata.
func (c *Client) AdminUpdateUser(ctx context.Context, userID string, attrs map[string]interface{}) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+userID, c.serviceKey, "", attrs, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminDeleteUser removes the account from the provider.
func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+userID, c.serviceKey, "", nil, nil)
}

func asAPIError(err error, target **APIError) bool {
	apiErr, ok := err.(*APIError)
	if ok {
		*target = apiErr
	}
	return ok
}
