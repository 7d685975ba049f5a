package ocr

import (
	"context"
	"strings"
	"unicode/utf8"

	"scanrag/internal/contextutil"
	"scanrag/internal/llm"
)

const (
	correctionTokenSlack = 500
	correctionTokenCap   = 4000
)

// Corrector fixes OCR character confusions with a language model.
// Correction is best effort: any failure returns the input unchanged.
type Corrector struct {
	model     ChatModel
	modelName string
	guard     *StructureGuard
}

// NewCorrector creates a Corrector. guard may be nil to accept any non-empty output.
func NewCorrector(model ChatModel, modelName string, guard *StructureGuard) *Corrector {
	return &Corrector{
		model:     model,
		modelName: modelName,
		guard:     guard,
	}
}

// Correct returns the corrected text, or the input with a Cause when correction fell back.
// Blank input and OCR sentinels pass through untouched.
func (c *Corrector) Correct(ctx context.Context, input string) TextResult {
	if strings.TrimSpace(input) == "" || IsSentinel(input) {
		return TextResult{Text: input}
	}

	logger := contextutil.LoggerFromContext(ctx)

	messages := []llm.Message{
		{Role: "system", Content: correctionPrompt},
		{Role: "user", Content: correctionPrefix + input},
	}
	params := llm.ChatParams{
		Model:       c.modelName,
		MaxTokens:   correctionBudget(input),
		Temperature: llm.Temperature(0),
	}

	out, err := c.model.ChatWithMessages(ctx, messages, params)
	if err != nil {
		logger.WarnContext(ctx, "correction failed, keeping ocr text", "error", err)
		return TextResult{Text: input, Cause: err}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		logger.WarnContext(ctx, "correction returned empty text, keeping ocr text")
		return TextResult{Text: input, Cause: ErrEmptyResponse}
	}

	if c.guard != nil {
		if err := c.guard.Check(input, out); err != nil {
			logger.WarnContext(ctx, "correction rejected", "error", err)
			return TextResult{Text: input, Cause: err}
		}
	}

	return TextResult{Text: out}
}

// correctionBudget caps the response at the input length plus slack.
func correctionBudget(input string) int {
	return min(utf8.RuneCountInString(input)+correctionTokenSlack, correctionTokenCap)
}
