package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const graphBaseURL = "https://graph.facebook.com"

// Client talks to the Meta Graph API for WhatsApp Business onboarding and
// messaging.
type Client struct {
	AppID        string
	AppSecret    string
	GraphVersion string
	Client       *http.Client

	oauthConf *oauth2.Config
}

func NewClient(appID, appSecret, redirectURI, graphVersion string) *Client {
	return &Client{
		AppID:        appID,
		AppSecret:    appSecret,
		GraphVersion: graphVersion,
		Client:       &http.Client{Timeout: 30 * time.Second},
		oauthConf: &oauth2.Config{
			ClientID:     appID,
			ClientSecret: appSecret,
			RedirectURL:  redirectURI,
			Scopes: []string{
				"whatsapp_business_management",
				"whatsapp_business_messaging",
				"business_management",
			},
			Endpoint: facebook.Endpoint,
		},
	}
}

// APIError is a non-2xx Graph API response.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Type       string `json:"type"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api error (http %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// AuthURL returns the embedded-signup authorization URL the frontend should
// redirect the user to.
func (c *Client) AuthURL(state string) string {
	return c.oauthConf.AuthCodeURL(state)
}

// ExchangeCode trades the OAuth code for a business-integration user token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := c.oauthConf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	return token.AccessToken, nil
}

// WABA is a WhatsApp Business Account as returned by the Graph API.
type WABA struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PhoneNumber is one phone number attached to a WABA.
type PhoneNumber struct {
	ID             string `json:"id"`
	VerifiedName   string `json:"verified_name"`
	DisplayNumber  string `json:"display_phone_number"`
	QualityRating  string `json:"quality_rating"`
	CodeVerifyStat string `json:"code_verification_status"`
}

type debugTokenResponse struct {
	Data struct {
		GranularScopes []struct {
			Scope     string   `json:"scope"`
			TargetIDs []string `json:"target_ids"`
		} `json:"granular_scopes"`
	} `json:"data"`
}

// DiscoverWABA inspects the user token to find the WhatsApp Business Account
// the user granted access to during embedded signup.
func (c *Client) DiscoverWABA(ctx context.Context, userToken string) (*WABA, error) {
	appToken := fmt.Sprintf("%s|%s", c.AppID, c.AppSecret)
	q := url.Values{}
	q.Set("input_token", userToken)
	q.Set("access_token", appToken)

	var dbg debugTokenResponse
	if err := c.do(ctx, http.MethodGet, "/debug_token?"+q.Encode(), "", nil, &dbg); err != nil {
		return nil, fmt.Errorf("debug token: %w", err)
	}

	var wabaID string
	for _, gs := range dbg.Data.GranularScopes {
		if gs.Scope == "whatsapp_business_management" && len(gs.TargetIDs) > 0 {
			wabaID = gs.TargetIDs[0]
			break
		}
	}
	if wabaID == "" {
		return nil, fmt.Errorf("token grants no whatsapp business account")
	}

	var waba WABA
	path := fmt.Sprintf("/%s/%s?fields=id,name", c.GraphVersion, wabaID)
	if err := c.do(ctx, http.MethodGet, path, userToken, nil, &waba); err != nil {
		return nil, fmt.Errorf("fetch waba: %w", err)
	}
	return &waba, nil
}

// GetPhoneNumbers lists the phone numbers registered under a WABA.
func (c *Client) GetPhoneNumbers(ctx context.Context, userToken, wabaID string) ([]PhoneNumber, error) {
	var out struct {
		Data []PhoneNumber `json:"data"`
	}
	path := fmt.Sprintf("/%s/%s/phone_numbers", c.GraphVersion, wabaID)
	if err := c.do(ctx, http.MethodGet, path, userToken, nil, &out); err != nil {
		return nil, fmt.Errorf("list phone numbers: %w", err)
	}
	return out.Data, nil
}

// SubscribeApp subscribes this app to the WABA's webhook events.
func (c *Client) SubscribeApp(ctx context.Context, userToken, wabaID string) error {
	path := fmt.Sprintf("/%s/%s/subscribed_apps", c.GraphVersion, wabaID)
	if err := c.do(ctx, http.MethodPost, path, userToken, map[string]interface{}{}, nil); err != nil {
		return fmt.Errorf("subscribe app: %w", err)
	}
	return nil
}

// RegisterPhone registers a phone number for Cloud API messaging. The pin is
// the six-digit two-step verification pin.
func (c *Client) RegisterPhone(ctx context.Context, userToken, phoneNumberID, pin string) error {
	path := fmt.Sprintf("/%s/%s/register", c.GraphVersion, phoneNumberID)
	body := map[string]interface{}{
		"messaging_product": "whatsapp",
		"pin":               pin,
	}
	if err := c.do(ctx, http.MethodPost, path, userToken, body, nil); err != nil {
		return fmt.Errorf("register phone: %w", err)
	}
	return nil
}

// RequestVerificationCode asks Meta to deliver an ownership verification code
// to the number. codeMethod is SMS or VOICE.
func (c *Client) RequestVerificationCode(ctx context.Context, userToken, phoneNumberID, codeMethod, locale string) error {
	path := fmt.Sprintf("/%s/%s/request_code", c.GraphVersion, phoneNumberID)
	body := map[string]interface{}{
		"code_method": codeMethod,
		"locale":      locale,
	}
	if err := c.do(ctx, http.MethodPost, path, userToken, body, nil); err != nil {
		return fmt.Errorf("request verification code: %w", err)
	}
	return nil
}

// VerifyCode submits the ownership verification code received by the number.
func (c *Client) VerifyCode(ctx context.Context, userToken, phoneNumberID, code string) error {
	path := fmt.Sprintf("/%s/%s/verify_code", c.GraphVersion, phoneNumberID)
	body := map[string]interface{}{"code": code}
	if err := c.do(ctx, http.MethodPost, path, userToken, body, nil); err != nil {
		return fmt.Errorf("verify code: %w", err)
	}
	return nil
}

// SendText sends a plain text message from the business number to a recipient.
func (c *Client) SendText(ctx context.Context, userToken, phoneNumberID, to, text string) error {
	path := fmt.Sprintf("/%s/%s/messages", c.GraphVersion, phoneNumberID)
	body := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}
	if err := c.do(ctx, http.MethodPost, path, userToken, body, nil); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

// do performs one Graph API request. An empty token sends no Authorization
// header (debug_token passes credentials in the query string instead).
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, graphBaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var wrapper struct {
			Error APIError `json:"error"`
		}
		if jsonErr := json.Unmarshal(respBody, &wrapper); jsonErr == nil && wrapper.Error.Message != "" {
			wrapper.Error.StatusCode = resp.StatusCode
			return &wrapper.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
