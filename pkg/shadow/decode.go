package shadow

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode parses a shadow payload into a Document. The broker delivers
// payloads either as raw UTF-8 JSON bytes or as a JSON-encoded string
// wrapping the document; both are accepted. Any other encoding fails
// with ErrDecoding.
func Decode(payload []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecoding)
	}

	switch trimmed[0] {
	case '{':
		// Raw JSON document
	case '"':
		// JSON string wrapping the document
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
		}
		trimmed = []byte(inner)
	default:
		return nil, fmt.Errorf("%w: unexpected leading byte %q", ErrDecoding, trimmed[0])
	}

	doc := &Document{}
	if err := json.Unmarshal(trimmed, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return doc, nil
}
