package stream

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// RetryHandler retries failing message processing with exponential backoff
// and parks messages that keep failing on a dead-letter stream.
type RetryHandler struct {
	client        *redis.Client
	deadLetterKey string
}

func NewRetryHandler(client *redis.Client, deadLetterKey string) *RetryHandler {
	return &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
	}
}

// RetryWithBackoff runs fn up to maxAttempts times, doubling the pause
// between attempts. After the final failure the original message fields are
// appended to the dead-letter stream together with the failure reason.
func (h *RetryHandler) RetryWithBackoff(
	ctx context.Context,
	fn func() error,
	messageID string,
	fields map[string]interface{},
) error {
	backoff := initialBackoff

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		log.Warn().
			Err(lastErr).
			Str("message_id", messageID).
			Int("attempt", attempt).
			Msg("Message processing failed")

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	h.sendToDeadLetter(ctx, messageID, fields, lastErr)
	return lastErr
}

func (h *RetryHandler) sendToDeadLetter(ctx context.Context, messageID string, fields map[string]interface{}, cause error) {
	values := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		values[k] = v
	}
	values["original_id"] = messageID
	if cause != nil {
		values["failure_reason"] = cause.Error()
	}

	if err := h.client.XAdd(ctx, &redis.XAddArgs{
		Stream: h.deadLetterKey,
		Values: values,
	}).Err(); err != nil {
		log.Error().
			Err(err).
			Str("message_id", messageID).
			Msg("Failed to park message on dead-letter stream")
		return
	}

	log.Info().
		Str("message_id", messageID).
		Str("dead_letter", h.deadLetterKey).
		Msg("Message parked on dead-letter stream")
}
