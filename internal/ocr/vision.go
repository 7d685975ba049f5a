package ocr

import (
	"context"
	"strings"
	"time"

	"scanrag/internal/contextutil"
	"scanrag/internal/llm"
	"scanrag/internal/pdfdoc"
)

// ChatModel is the inference call the OCR stages depend on.
// *llm.Client satisfies it.
type ChatModel interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// RetryPolicy bounds retries of rate-limited OCR calls.
type RetryPolicy struct {
	// MaxAttempts counts the first call.
	MaxAttempts int
	// BaseDelay is the wait after the first failure; it doubles after each retry.
	BaseDelay time.Duration
}

// DefaultRetryPolicy makes three attempts with 1s, 2s, 4s backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	return p.BaseDelay << (attempt - 1)
}

// VisionClient transcribes page images with a multimodal model.
type VisionClient struct {
	model     ChatModel
	modelName string
	maxTokens int
	retry     RetryPolicy
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewVisionClient creates a VisionClient. A zero retry policy falls back to DefaultRetryPolicy.
func NewVisionClient(model ChatModel, modelName string, maxTokens int, retry RetryPolicy) *VisionClient {
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &VisionClient{
		model:     model,
		modelName: modelName,
		maxTokens: maxTokens,
		retry:     retry,
		sleep:     sleepContext,
	}
}

// Extract returns the page transcription, or a degraded result carrying the sentinel text.
// Only rate-limit failures are retried.
func (c *VisionClient) Extract(ctx context.Context, img pdfdoc.Image) TextResult {
	logger := contextutil.LoggerFromContext(ctx)

	messages := []llm.Message{{
		Role:    "user",
		Content: ocrPrompt,
		Images:  []llm.Image{{MIMEType: img.MIMEType, Data: img.Data}},
	}}
	params := llm.ChatParams{
		Model:       c.modelName,
		MaxTokens:   c.maxTokens,
		Temperature: llm.Temperature(0),
	}

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		text, err := c.model.ChatWithMessages(ctx, messages, params)
		if err == nil {
			text = strings.TrimSpace(text)
			if text == "" {
				return degraded(ErrEmptyResponse)
			}
			return TextResult{Text: text}
		}

		if !llm.IsRateLimited(err) {
			logger.WarnContext(ctx, "ocr call failed", "attempt", attempt, "error", err)
			return degraded(err)
		}

		lastErr = err
		if attempt == c.retry.MaxAttempts {
			break
		}
		wait := c.retry.delay(attempt)
		logger.WarnContext(ctx, "ocr rate limited, backing off", "attempt", attempt, "wait", wait)
		if err := c.sleep(ctx, wait); err != nil {
			return degraded(err)
		}
	}

	logger.ErrorContext(ctx, "ocr retries exhausted", "attempts", c.retry.MaxAttempts, "error", lastErr)
	return degraded(&rateLimitExhausted{err: lastErr})
}

func degraded(err error) TextResult {
	return TextResult{Text: Sentinel(err), Cause: err}
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
