package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider errors. ErrRejected means the call reached the provider and
// the provider said no; everything else on the wire is a transport
// failure. The dispatcher classifies on this distinction.
var ErrRejected = errors.New("provider rejected the request")

// TelegramClient talks to the Telegram Bot API: one GET for the
// directory lookup (getChat) and one POST for delivery (sendMessage).
// The bot token is injected at construction - it is configuration,
// never a literal in code.
type TelegramClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewTelegramClient creates a provider client. timeout bounds each
// individual outbound call.
func NewTelegramClient(baseURL, token string, timeout time.Duration) *TelegramClient {
	return &TelegramClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// getChatResponse is the subset of the getChat reply we care about.
type getChatResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		Username string `json:"username"`
	} `json:"result"`
}

// sendMessageResponse is the subset of the sendMessage reply we care about.
type sendMessageResponse struct {
	OK bool `json:"ok"`
}

func (c *TelegramClient) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// GetChatUsername resolves the display name for a chat id via getChat.
// Any non-success response or transport failure returns an error; the
// caller treats absence of a name as a normal outcome.
func (c *TelegramClient) GetChatUsername(ctx context.Context, chatID string) (string, error) {
	reqURL := c.methodURL("getChat") + "?" + url.Values{"chat_id": {chatID}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build getChat request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("getChat call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("getChat returned status %d", resp.StatusCode)
	}

	var body getChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode getChat response: %w", err)
	}

	if !body.OK {
		return "", fmt.Errorf("getChat: %w", ErrRejected)
	}

	return body.Result.Username, nil
}

// SendMessage delivers text to a chat via sendMessage. A 200 reply
// carrying ok:false is reported as ErrRejected; a non-200 status,
// connection failure or malformed body is a transport failure.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID, text string) error {
	form := url.Values{
		"chat_id": {chatID},
		"text":    {text},
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.methodURL("sendMessage"), strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("failed to build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage returned status %d", resp.StatusCode)
	}

	var body sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode sendMessage response: %w", err)
	}

	if !body.OK {
		// The provider answered and said no.
		return fmt.Errorf("sendMessage: %w", ErrRejected)
	}

	return nil
}
