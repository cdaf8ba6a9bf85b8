package export

import (
	"bytes"
	"encoding/json"
	"gmi/internal/domain/ghost"
)

// Encode renders the import as JSON. HTML bodies are left unescaped so the
// payload stays readable.
func Encode(imp ghost.Import, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(imp); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
