package newsdoc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minSectionLength is the trimmed length, in characters, a section must
// exceed to survive NormalizeText. Shorter sections are bylines, captions
// and other fragments.
const minSectionLength = 20

// sentenceEnd is the declarative sentence ending of Korean prose.
const sentenceEnd = "다."

var (
	blankLineRe   = regexp.MustCompile(`\n[\s\v\p{Zs}\x{feff}]*\n`)
	manyNewlineRe = regexp.MustCompile(`\n{3,}`)
	sentenceEndRe = regexp.MustCompile(`다\.[\s\v\p{Zs}\x{feff}]*`)
)

// NormalizeText reflows extracted article text into paragraphs.
//
// Sections separated by blank lines are kept only if they are longer than
// 20 characters, rejoined with a single blank line, and every "다." that is
// followed by more text starts a new paragraph. The rules are tuned for
// Korean news prose and are not meaningful for other languages.
func NormalizeText(text string) string {
	sections := blankLineRe.Split(text, -1)
	kept := sections[:0]
	for _, s := range sections {
		if utf8.RuneCountInString(strings.TrimSpace(s)) > minSectionLength {
			kept = append(kept, s)
		}
	}

	joined := manyNewlineRe.ReplaceAllString(strings.Join(kept, "\n\n"), "\n\n")
	return strings.TrimSpace(breakSentences(joined))
}

// breakSentences replaces every sentence ending and the whitespace after it
// with a paragraph break, unless the ending closes the text.
func breakSentences(s string) string {
	matches := sentenceEndRe.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*len(matches))
	last := 0
	for _, m := range matches {
		if m[1] == len(s) {
			break
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(sentenceEnd + "\n\n")
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
