// Package llm wraps the external text-generation service (Gemini). The
// orchestrator consumes it through a narrow interface, so everything here is
// replaceable by a fake in tests; this file only adapts the SDK surface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// ErrEmptyResponse is returned when the generation call succeeds at the
// transport level but yields no text candidates to work with.
var ErrEmptyResponse = errors.New("generation returned no text")

// Gemini generates free-text verdicts through the Gemini API. It is safe for
// concurrent use; each call builds its own model handle.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGemini wraps an already-constructed genai client. The temperature is
// biased low by the caller: this is a scoring contract, not creative writing.
func NewGemini(client *genai.Client, model string, temperature float32) *Gemini {
	return &Gemini{client: client, model: model, temperature: temperature}
}

// Generate sends the system instruction and the rendered prompt and returns
// the raw response text. The context carries the caller's timeout; no retries
// happen here.
func (g *Gemini) Generate(ctx context.Context, system, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(g.temperature)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	out := JoinText(resp)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// JoinText concatenates the text parts of the first candidate. Non-text parts
// are skipped; a nil or empty response yields "".
func JoinText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
