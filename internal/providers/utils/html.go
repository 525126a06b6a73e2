package utils

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var lineBreakRegex = regexp.MustCompile(`(?i)<br\s*/?>`)

// StripHTML turns <br> tags into spaces, drops every other tag and collapses
// the whitespace left behind
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = lineBreakRegex.ReplaceAllString(s, " ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}
	return CleanText(doc.Text())
}

// CardSynopsis is the short synopsis shown on feed cards
func CardSynopsis(description string, n int) string {
	return CutRunes(StripHTML(description), n)
}
