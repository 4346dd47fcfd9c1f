package telegram

import (
	"context"
	"encoding/json"

	"TickerScanner/internal/domain"
	"TickerScanner/internal/ports"
)

var _ ports.UpdateSource = (*Client)(nil)

type update struct {
	Message *struct {
		Text *string `json:"text"`
		From *struct {
			ID json.Number `json:"id"`
		} `json:"from"`
	} `json:"message"`
}

// Poll blocks until the latest update carries input different from the last accepted one.
// Transport failures are retried forever after retryDelay. A response that cannot be read
// as an update list, or a latest update without text or sender, is returned as a
// *domain.ParsingError.
func (c *Client) Poll(ctx context.Context) (domain.PollResult, error) {
	if err := c.validate(); err != nil {
		return domain.PollResult{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return domain.PollResult{}, err
		}

		body, err := c.call(ctx, getUpdatesMethod, nil)
		if err != nil {
			if ctx.Err() != nil {
				return domain.PollResult{}, ctx.Err()
			}
			c.logger.Warn("get updates failed", "error", err, "retry_in", c.retryDelay)
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				return domain.PollResult{}, err
			}
			continue
		}

		result, err := c.parseUpdates(body)
		if err != nil {
			return domain.PollResult{}, err
		}

		if result.TickerInput == "" {
			if err := c.sleep(ctx, c.idleDelay); err != nil {
				return domain.PollResult{}, err
			}
			continue
		}

		c.prevInput = result.TickerInput
		c.logger.Info("accepted input", "input", result.TickerInput, "chat_id", result.ChatID)
		return result, nil
	}
}

// parseUpdates extracts text and sender of the last update. Input equal to the previously
// accepted one comes back as an empty result.
func (c *Client) parseUpdates(body []byte) (domain.PollResult, error) {
	var envelope struct {
		Result *[]json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return domain.PollResult{}, &domain.ParsingError{
			Source:  "telegram",
			Reason:  "decode updates: " + err.Error(),
			Snippet: domain.Snippet(body),
		}
	}
	if envelope.Result == nil {
		return domain.PollResult{}, &domain.ParsingError{
			Source:  "telegram",
			Reason:  "can't find 'result' key in updates",
			Snippet: domain.Snippet(body),
		}
	}

	updates := *envelope.Result
	if len(updates) == 0 {
		return domain.PollResult{}, nil
	}
	last := updates[len(updates)-1]

	var u update
	if err := json.Unmarshal(last, &u); err != nil {
		return domain.PollResult{}, &domain.ParsingError{
			Source:  "telegram",
			Reason:  "decode update: " + err.Error(),
			Snippet: domain.Snippet(last),
		}
	}
	if u.Message == nil || u.Message.Text == nil {
		return domain.PollResult{}, &domain.ParsingError{
			Source:  "telegram",
			Reason:  "can't parse input from user",
			Snippet: domain.Snippet(last),
		}
	}
	if u.Message.From == nil || u.Message.From.ID == "" {
		return domain.PollResult{}, &domain.ParsingError{
			Source:  "telegram",
			Reason:  "can't parse chat_id from user",
			Snippet: domain.Snippet(last),
		}
	}

	text := *u.Message.Text
	if text == c.prevInput {
		return domain.PollResult{}, nil
	}

	return domain.PollResult{TickerInput: text, ChatID: u.Message.From.ID.String()}, nil
}
