package subtitle

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/rusalad/rusalad/schema"
)

// DefaultLang is the language tag written when none is configured.
const DefaultLang = "en"

// ContentType is the media type of rendered timed text.
const ContentType = "text/xml"

const (
	ttNamespace      = "http://www.w3.org/2006/10/ttaf1"
	stylingNamespace = "http://www.w3.org/2006/10/ttaf1#styling"
)

var colorAttr = regexp.MustCompile(`color=(#[0-9a-fA-F]+)`)

// Options tune rendering.
type Options struct {
	// Lang is the xml:lang of the document and its div. Empty means DefaultLang.
	Lang string
}

func (o Options) lang() string {
	if o.Lang == "" {
		return DefaultLang
	}
	return o.Lang
}

// Render writes cues as a timed-text document, one paragraph per cue in order.
func Render(w io.Writer, cues []schema.SubtitleCue, opts Options) error {
	var b strings.Builder
	lang := html.EscapeString(opts.lang())

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(&b, `<tt xml:lang="%s" xmlns="%s" xmlns:tts="%s">`, lang, ttNamespace, stylingNamespace)
	b.WriteString("<body>")
	fmt.Fprintf(&b, `<div xml:lang="%s">`, lang)
	for _, cue := range cues {
		fmt.Fprintf(&b, `<p begin="%s" dur="%s">%s</p>`, Begin(cue), Duration(cue), CaptionMarkup(cue.Text))
	}
	b.WriteString("</div></body></tt>")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write timed text: %w", err)
	}
	return nil
}

// Begin renders the cue start as "HH:MM:SS.cc" using the clock as written.
func Begin(cue schema.SubtitleCue) string {
	return fmt.Sprintf("%s.%02d", cue.BeginClock, cue.BeginMillis/10)
}

// Duration renders the cue length as whole seconds and centiseconds.
func Duration(cue schema.SubtitleCue) string {
	d := cue.End - cue.Start
	return fmt.Sprintf("%d.%02d", d/1000, (d%1000)/10)
}

// CaptionMarkup escapes caption text and quotes inline color attributes.
func CaptionMarkup(text string) string {
	return colorAttr.ReplaceAllString(html.EscapeString(text), `color="$1"`)
}
