package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "anon-key", "service-key")
	return client, server
}

func TestSignUp(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "new@example.com", payload["email"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "8b7f4f6e-3f07-4a5b-9e59-1f2a22f6a111",
			"email": "new@example.com",
			"user_metadata": map[string]interface{}{
				"full_name": "New Person",
			},
		})
	})
	defer server.Close()

	user, err := client.SignUp(context.Background(), "new@example.com", "password123", "New Person")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New Person", user.FullName())
}

func TestResendOTP_AlreadyConfirmedIsDistinct(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"msg": "A user with this email address has already been registered and confirmed",
		})
	})
	defer server.Close()

	err := client.ResendOTP(context.Background(), "done@example.com")
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestResendOTP_OtherErrorsPassThrough(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "rate limit exceeded"})
	})
	defer server.Close()

	err := client.ResendOTP(context.Background(), "someone@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyConfirmed)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestSignInWithPassword_BadCredentials(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "Invalid login credentials"})
	})
	defer server.Close()

	_, err := client.SignInWithPassword(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInWithPassword_Success(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "at-123",
			"refresh_token": "rt-456",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user": map[string]interface{}{
				"id":    "8b7f4f6e-3f07-4a5b-9e59-1f2a22f6a111",
				"email": "a@b.c",
			},
		})
	})
	defer server.Close()

	session, err := client.SignInWithPassword(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "at-123", session.AccessToken)
	assert.Equal(t, "a@b.c", session.User.Email)
}

func TestGetUser_InvalidToken(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"})
	})
	defer server.Close()

	_, err := client.GetUser(context.Background(), "expired-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUser_BearerHeader(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "8b7f4f6e-3f07-4a5b-9e59-1f2a22f6a111",
			"email": "me@example.com",
			"app_metadata": map[string]interface{}{
				"role": "admin",
			},
		})
	})
	defer server.Close()

	user, err := client.GetUser(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role())
}

func TestAdminGenerateLink(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/admin/generate_link", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"action_link": "https://id.example.com/verify?token=abc",
			"email_otp":   "482913",
		})
	})
	defer server.Close()

	link, err := client.AdminGenerateLink(context.Background(), "signup", "new@example.com", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, "482913", link.EmailOTP)
	assert.Equal(t, "https://id.example.com/verify?token=abc", link.ActionLink)
}
