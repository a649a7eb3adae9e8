// Package ocr wraps the external text-recognition service. Recognition runs
// through a vision-capable Gemini model instructed to transcribe, not to
// interpret: confidence scores and layout metadata are deliberately ignored.
package ocr

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"github.com/nutrismart/go-nutrition-backend/internal/llm"
)

// transcribePrompt asks for a verbatim dump of the label text. Anything the
// model cannot read simply stays absent; downstream code handles emptiness.
const transcribePrompt = "Transcribí todo el texto visible en la imagen, " +
	"exactamente como aparece, en el mismo orden. No agregues comentarios, " +
	"explicaciones ni formato. Si no hay texto legible, no escribas nada."

// Gemini performs OCR through the Gemini API. Safe for concurrent use.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini wraps an already-constructed genai client.
func NewGemini(client *genai.Client, model string) *Gemini {
	return &Gemini{client: client, model: model}
}

// RecognizeText returns the best-guess full text of one label photo. The
// format is the image subtype ("jpeg", "png", "webp"). An unreadable image
// yields an empty string, not an error; only transport failures error out.
func (g *Gemini) RecognizeText(ctx context.Context, image []byte, format string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(0)

	resp, err := m.GenerateContent(ctx,
		genai.Text(transcribePrompt),
		genai.ImageData(format, image),
	)
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return llm.JoinText(resp), nil
}
