package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the optional Cloud API sender. Receipts always get a wa.me deep
// link; shops that configured Meta credentials can additionally push the
// message server-side through this client.
type Client struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClientFromEnv builds a sender from WHATSAPP_TOKEN /
// WHATSAPP_PHONE_NUMBER_ID. Returns nil when the credentials are absent,
// which callers treat as "deep links only".
func NewClientFromEnv() *Client {
	token := os.Getenv("WHATSAPP_TOKEN")
	phoneNumberID := os.Getenv("WHATSAPP_PHONE_NUMBER_ID")
	if token == "" || phoneNumberID == "" {
		return nil
	}

	baseURL := os.Getenv("WHATSAPP_BASE_URL")
	if baseURL == "" {
		baseURL = "https://graph.facebook.com"
	}
	apiVersion := os.Getenv("WHATSAPP_API_VERSION")
	if apiVersion == "" {
		apiVersion = "v20.0"
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", strings.TrimSuffix(baseURL, "/"), apiVersion)).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{
		httpClient:    restyClient,
		phoneNumberID: phoneNumberID,
	}
}

// sendResponse mirrors the successful response from Meta.
type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText pushes a plain text message to the given phone number (digits
// only, country code included). Fire-and-forget from the caller's point of
// view; no delivery receipt is tracked.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]any{
			"body":        body,
			"preview_url": false,
		},
	}

	result := new(sendResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return "", fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
	}

	if len(result.Messages) > 0 {
		return result.Messages[0].ID, nil
	}
	return "", nil
}
