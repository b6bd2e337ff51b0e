package subtitle

import (
	"io"
	"strings"
)

// Convert parses SRT text from r and returns it as timed-text markup.
// Only a failure to read r is reported as an error.
func Convert(r io.Reader) (string, error) {
	var b strings.Builder
	if err := ConvertTo(&b, r, Options{}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ConvertTo parses SRT text from r and writes timed-text markup to w.
// Nothing is written when r cannot be read.
func ConvertTo(w io.Writer, r io.Reader, opts Options) error {
	cues, err := Parse(r)
	if err != nil {
		return err
	}
	return Render(w, cues, opts)
}
