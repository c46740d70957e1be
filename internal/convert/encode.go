package convert

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts "json" or "msgpack" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Extension returns the file extension for the format, with the dot.
func (f Format) Extension() string {
	if f == FormatMsgpack {
		return ".msgpack"
	}
	return ".json"
}

// Encode writes v in the given format. indent only applies to JSON;
// an empty indent writes compact JSON.
func Encode(w io.Writer, v any, format Format, indent string) error {
	switch format {
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(v)
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		if indent != "" {
			enc.SetIndent("", indent)
		}
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
