package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TickerScanner/internal/config"
)

const (
	getUpdatesMethod  = "getUpdates"
	sendMessageMethod = "sendMessage"
)

// Client talks to the Telegram bot API. It polls for ticker requests and sends replies.
// It is not safe for concurrent use: Poll keeps the previously accepted input.
type Client struct {
	apiURL     string
	botToken   string
	client     *http.Client
	retryDelay time.Duration
	idleDelay  time.Duration
	logger     *slog.Logger

	prevInput string
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client from configuration.
func NewClient(cfg config.TelegramConfig, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		botToken:   cfg.BotToken,
		client:     &http.Client{Timeout: timeout},
		retryDelay: cfg.RetryDelay,
		idleDelay:  cfg.IdleDelay,
		logger:     log,
		sleep:      sleepContext,
	}
}

func (c *Client) validate() error {
	if c.botToken == "" || c.apiURL == "" || c.client == nil {
		return fmt.Errorf("telegram client misconfigured")
	}
	return nil
}

// call issues a GET against a bot method and returns the raw body whatever the status.
func (c *Client) call(ctx context.Context, method string, query url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.botToken, method)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", redactToken(err, c.botToken))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	c.logger.Debug("telegram call", "method", method, "status", resp.StatusCode)

	return body, nil
}

// redactToken keeps the bot token out of logged transport errors, which embed the URL.
func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), token, "<token>"))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
