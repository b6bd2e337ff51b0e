// Package subtitle converts SubRip cue files into timed-text markup.
package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rusalad/rusalad/schema"
)

const timingSeparator = " --> "

// Parse reads SRT cues from r in source order.
// Malformed cues are dropped. The returned error is only set when r cannot be read,
// in which case the cues parsed before the failure are still returned.
func Parse(r io.Reader) ([]schema.SubtitleCue, error) {
	lines := newLineReader(r)
	var cues []schema.SubtitleCue

	for {
		index, ok := lines.next()
		if !ok {
			break
		}
		// A blank line consumes one extra line before the timing line.
		if index == "" {
			if _, ok := lines.next(); !ok {
				break
			}
		}
		timing, ok := lines.next()
		if !ok {
			break
		}
		text, ok := lines.next()
		if !ok {
			break
		}

		cue, ok := parseCue(timing, text)
		if !ok {
			continue
		}
		cues = append(cues, cue)
	}

	if err := lines.err(); err != nil {
		return cues, fmt.Errorf("failed to read subtitles: %w", err)
	}
	return cues, nil
}

// parseCue builds a cue from a "HH:MM:SS,mmm --> HH:MM:SS,mmm" line and its caption.
func parseCue(timing, text string) (schema.SubtitleCue, bool) {
	sides := splitFields(timing, timingSeparator)
	if len(sides) != 2 {
		return schema.SubtitleCue{}, false
	}
	startClock, startMillis, ok := splitTimestamp(sides[0])
	if !ok {
		return schema.SubtitleCue{}, false
	}
	endClock, endMillis, ok := splitTimestamp(sides[1])
	if !ok {
		return schema.SubtitleCue{}, false
	}

	start, ok := toMillis(startClock, startMillis)
	if !ok {
		return schema.SubtitleCue{}, false
	}
	end, ok := toMillis(endClock, endMillis)
	if !ok {
		return schema.SubtitleCue{}, false
	}
	beginMillis, _ := strconv.ParseInt(startMillis, 10, 64)

	return schema.SubtitleCue{
		Start:       start,
		End:         end,
		Text:        text,
		BeginClock:  strings.Join(startClock, ":"),
		BeginMillis: beginMillis,
	}, true
}

// splitTimestamp splits "HH:MM:SS,mmm" into its clock fields and millisecond field.
func splitTimestamp(s string) (clock []string, millis string, ok bool) {
	parts := splitFields(s, ",")
	if len(parts) != 2 {
		return nil, "", false
	}
	clock = splitFields(parts[0], ":")
	if len(clock) != 3 {
		return nil, "", false
	}
	return clock, parts[1], true
}

// toMillis converts clock fields and a millisecond field into milliseconds.
func toMillis(clock []string, millis string) (int64, bool) {
	var fields [4]int64
	for i, s := range []string{clock[0], clock[1], clock[2], millis} {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		fields[i] = v
	}
	h, m, sec, ms := fields[0], fields[1], fields[2], fields[3]
	return ms + 1000*sec + 60000*m + 3600000*h, true
}

// splitFields splits s on sep and drops trailing empty fields.
func splitFields(s, sep string) []string {
	parts := strings.Split(s, sep)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// lineReader yields lines terminated by "\n", "\r\n" or a lone "\r". Lines have no length limit.
type lineReader struct {
	r       *bufio.Reader
	done    bool
	readErr error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) next() (string, bool) {
	if l.done {
		return "", false
	}
	var line []byte
	for {
		b, err := l.r.ReadByte()
		if err != nil {
			l.done = true
			if !errors.Is(err, io.EOF) {
				l.readErr = err
				return "", false
			}
			if len(line) == 0 {
				return "", false
			}
			return string(line), true
		}
		switch b {
		case '\n':
			return string(line), true
		case '\r':
			if next, err := l.r.Peek(1); err == nil && next[0] == '\n' {
				_, _ = l.r.Discard(1)
			}
			return string(line), true
		}
		line = append(line, b)
	}
}

func (l *lineReader) err() error {
	return l.readErr
}
