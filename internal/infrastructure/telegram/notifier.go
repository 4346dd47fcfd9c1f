package telegram

import (
	"context"
	"net/url"

	"TickerScanner/internal/ports"
)

var _ ports.Notifier = (*Client)(nil)

// Send delivers text to chatID. Transport failures are retried after retryDelay until a
// response arrives; the response status is not inspected.
func (c *Client) Send(ctx context.Context, chatID, text string) error {
	if err := c.validate(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("chat_id", chatID)
	query.Set("text", text)

	for {
		if _, err := c.call(ctx, sendMessageMethod, query); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("send message failed", "chat_id", chatID, "error", err, "retry_in", c.retryDelay)
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				return err
			}
			continue
		}

		c.logger.Info("message sent", "chat_id", chatID)
		return nil
	}
}
