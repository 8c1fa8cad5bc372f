package predictor

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/vms-predict/internal/model"
)

// WriteResult writes p as the single JSON result object.
func WriteResult(w io.Writer, p *model.Prediction) error {
	return encode(w, p, true)
}

// WriteError writes err as the single JSON error object.
func WriteError(w io.Writer, err error) error {
	return encode(w, model.ErrorResult{Error: err.Error()}, true)
}

// WriteLine writes v compactly on one line, for streamed output.
func WriteLine(w io.Writer, v any) error {
	return encode(w, v, false)
}

func encode(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
