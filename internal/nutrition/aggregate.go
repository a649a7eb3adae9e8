package nutrition

import (
	"errors"
	"strings"
)

// ErrNoTextRecovered is returned when neither OCR pass produced any text.
// Prompting the generator with fully empty product input is pointless, so
// callers must stop the pipeline here.
var ErrNoTextRecovered = errors.New("no text recovered from product images")

// CombineOCR merges the two OCR outputs into the single product-text blob the
// prompt consumes, always in the fixed order: nutrition table, blank line,
// ingredient list. Either side may be empty; the text is passed through
// verbatim with no reordering or deduplication.
func CombineOCR(tableText, ingredientsText string) (string, error) {
	if strings.TrimSpace(tableText) == "" && strings.TrimSpace(ingredientsText) == "" {
		return "", ErrNoTextRecovered
	}
	return tableText + "\n\n" + ingredientsText, nil
}
