package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackTitle labels receipts where no line looks like a merchant name.
const FallbackTitle = "Scanned Receipt"

const (
	minTitleLen = 4
	maxTitleLen = 49
)

var (
	bareDecimalRe = regexp.MustCompile(`^\d+\.\d+$`)
	datePrefixRe  = regexp.MustCompile(`^\d{1,2}/\d{1,2}`)
)

// Title picks a short merchant label from the first lines of text.
func (e *Extractor) Title(text string) (string, bool) {
	scanned := 0
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if scanned == e.opts.TitleScanLines {
			break
		}
		scanned++
		if isTitleCandidate(line) {
			return truncateRunes(line, e.opts.TitleMaxLen), true
		}
	}
	return FallbackTitle, false
}

func isTitleCandidate(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < minTitleLen || n > maxTitleLen {
		return false
	}
	if !strings.ContainsFunc(line, unicode.IsLetter) {
		return false
	}
	if containsAny(strings.ToLower(line), AmountKeywords) {
		return false
	}
	if bareDecimalRe.MatchString(line) || datePrefixRe.MatchString(line) {
		return false
	}
	return true
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
