// Package charset implements newsdoc.Decoder on top of golang.org/x/text.
//
// The decoder checks a decoding by looking for Hangul in the result: pages
// from Korean publishers that are decoded with the wrong charset contain no
// Hangul at all, only mojibake.
package charset

import (
	"strings"
	"unicode"

	"github.com/fwojciec/newsdoc"
	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultFallback is tried when the declared charset yields no Hangul.
const DefaultFallback = "EUC-KR"

// Ensure Decoder implements newsdoc.Decoder at compile time.
var _ newsdoc.Decoder = (*Decoder)(nil)

// Decoder decodes page bytes by trying a ranked list of candidate charsets:
// the declared charset (or UTF-8), then the fallbacks, then optionally the
// charset guessed by statistical detection. The first candidate whose output
// contains Hangul wins.
type Decoder struct {
	fallbacks []string
	detect    bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithFallbacks replaces the fallback charsets tried after the declared one.
// Defaults to DefaultFallback.
func WithFallbacks(labels ...string) Option {
	return func(d *Decoder) {
		d.fallbacks = labels
	}
}

// WithDetection appends the best guess of a statistical charset detector
// to the candidates.
func WithDetection() Option {
	return func(d *Decoder) {
		d.detect = true
	}
}

// NewDecoder creates a new Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		fallbacks: []string{DefaultFallback},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes body with the first candidate charset whose output
// contains Hangul. If none does, the output of the first fallback that
// decodes is used; if no fallback decodes either, the declared charset's
// output is returned, or the bytes as is when even that failed.
func (d *Decoder) Decode(body []byte, declared string) (string, string) {
	first := strings.ToUpper(strings.TrimSpace(declared))
	if first == "" {
		first = newsdoc.DefaultCharset
	}

	type decoding struct {
		text  string
		label string
	}
	var decoded []decoding
	for _, label := range d.candidates(body, first) {
		text, err := decode(body, label)
		if err != nil {
			continue
		}
		if HasHangul(text) {
			return text, label
		}
		decoded = append(decoded, decoding{text: text, label: label})
	}

	for _, dec := range decoded {
		if dec.label != first {
			return dec.text, dec.label
		}
	}
	if len(decoded) > 0 {
		return decoded[0].text, decoded[0].label
	}
	return string(body), first
}

// candidates returns the distinct charsets to try, in order.
func (d *Decoder) candidates(body []byte, first string) []string {
	labels := make([]string, 0, len(d.fallbacks)+2)
	seen := make(map[string]bool, len(d.fallbacks)+2)
	add := func(label string) {
		label = strings.ToUpper(label)
		if label == "" || seen[label] {
			return
		}
		seen[label] = true
		labels = append(labels, label)
	}

	add(first)
	for _, label := range d.fallbacks {
		add(label)
	}
	if d.detect {
		add(Detect(body))
	}
	return labels
}

// decode decodes body using the encoding registered for label in the
// WHATWG encoding index.
func decode(body []byte, label string) (string, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", err
	}
	b, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Detect returns the charset a statistical detector considers most likely
// for body, upper-cased, or an empty string if detection fails.
func Detect(body []byte) string {
	result, err := chardet.NewHtmlDetector().DetectBest(body)
	if err != nil || result == nil {
		return ""
	}
	return strings.ToUpper(result.Charset)
}

// HasHangul reports whether s contains at least one Hangul code point
// (syllables or jamo).
func HasHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
