package lineapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"linebridge/internal/constants"
	"linebridge/internal/logger"
	"linebridge/pkg/circuitbreaker"
	"linebridge/pkg/metrics"
	"linebridge/pkg/retry"
)

// Client is a minimal Messaging API client for the outbound half of the
// bridge: probing the channel access token and replying to events. Requests
// go through the retry policy; the optional breaker keeps a flapping LINE
// endpoint from being hammered.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	policy     retry.Policy
	breaker    *circuitbreaker.Wrapper
	logger     logger.Logger
}

func NewClient(endpoint, token string, policy retry.Policy, breaker *circuitbreaker.Wrapper, log logger.Logger) *Client {
	if endpoint == "" {
		endpoint = constants.LineAPIEndpoint
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
		policy:  policy,
		breaker: breaker,
		logger:  log,
	}
}

type BotInfo struct {
	UserID      string `json:"userId"`
	BasicID     string `json:"basicId"`
	DisplayName string `json:"displayName"`
}

// BotInfo fetches the channel's bot profile. A success proves the access
// token is valid.
func (c *Client) BotInfo(ctx context.Context) (*BotInfo, error) {
	var info BotInfo
	if err := c.do(ctx, "bot_info", http.MethodGet, "/v2/bot/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Ping reports whether the Messaging API is reachable with the configured
// token.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.BotInfo(ctx)
	return err
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

// ReplyText sends a single text message in reply to a webhook event.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	body := replyRequest{
		ReplyToken: replyToken,
		Messages:   []textMessage{{Type: "text", Text: text}},
	}
	return c.do(ctx, "reply", http.MethodPost, "/v2/bot/message/reply", body, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return retry.NewFatalError(err)
		}
		payload = data
	}

	return retry.Retry(ctx, c.policy, func() error {
		err := c.doOnce(ctx, operation, method, path, payload, out)
		if err != nil {
			c.logger.WarnwCtx(ctx, "LINE API request failed", "operation", operation, "error", err)
		}
		return err
	})
}

func (c *Client) doOnce(ctx context.Context, operation, method, path string, payload []byte, out interface{}) error {
	fn := func() (interface{}, error) {
		start := time.Now()

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reqBody)
		if err != nil {
			return nil, retry.NewFatalError(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.IncLineAPIRequest(operation, "error")
			return nil, err
		}
		defer resp.Body.Close()

		metrics.ObserveLineAPIRequestDuration(operation, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			metrics.IncLineAPIRequest(operation, "success")
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			// Client errors won't heal on retry.
			metrics.IncLineAPIRequest(operation, "client_error")
			return nil, retry.NewFatalError(fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
		default:
			metrics.IncLineAPIRequest(operation, "server_error")
			return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("decode %s response: %w", path, err)
			}
		}

		return nil, nil
	}

	if c.breaker != nil {
		_, err := c.breaker.ExecuteWithContext(ctx, fn)
		return err
	}

	_, err := fn()
	return err
}
