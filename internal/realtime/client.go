package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/eleven-am/voice-client/internal/shared"
	"github.com/gorilla/websocket"
)

const (
	// DefaultBaseURL is the production realtime endpoint base.
	DefaultBaseURL = "wss://api.openai.com/v1"

	protocolHeader = "OpenAI-Beta"
	protocolValue  = "realtime=v1"
)

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Dialer  *websocket.Dialer
	Session Config
	Log     *slog.Logger
}

// Client establishes realtime sessions. It performs exactly one
// connection attempt per Connect call; retry policy belongs to the
// caller.
type Client struct {
	apiKey  string
	baseURL string
	dialer  *websocket.Dialer
	session Config
	log     *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		dialer:  cfg.Dialer,
		session: cfg.Session,
		log:     cfg.Log,
	}
}

// Connect upgrades one duplex connection to the endpoint serving model
// and returns the running session. A rejected handshake (bad
// credentials, unknown model, network failure) yields a
// *shared.ConnectionError.
func (c *Client) Connect(ctx context.Context, model string) (*Session, error) {
	endpoint := fmt.Sprintf("%s/realtime?model=%s", c.baseURL, url.QueryEscape(model))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)
	header.Set(protocolHeader, protocolValue)

	ws, resp, err := c.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, &shared.ConnectionError{Endpoint: endpoint, Err: err}
	}

	c.log.Info("realtime session connected", "model", model)
	return newSession(ws, c.session, c.log.With("model", model)), nil
}
