// Package assist asks a Gemini model for a short commentary on a finished
// portfolio report. Purely additive: the valuation and the report are already
// complete before the model ever sees them.
package assist

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const instruction = `You are a cautious financial observer. You receive a
markdown valuation report of a private stock portfolio. Reply with a short
plain-prose commentary (at most five sentences) on today's movements and on
any warnings in the report. Never invent figures, never give buy or sell
advice.`

// Commentary sends the report to the model and returns its commentary.
func Commentary(ctx context.Context, client *genai.Client, model, report string) (string, error) {
	if model == "" {
		model = DefaultModel
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
	}
	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return "", fmt.Errorf("cannot open chat with %s: %w", model, err)
	}
	resp, err := chat.Send(ctx, &genai.Part{Text: report})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from %s", model)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
