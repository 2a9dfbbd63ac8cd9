package parse

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	spacesRe        = regexp.MustCompile(`\p{Z}+`)
	formatControlRe = regexp.MustCompile(`\p{Cf}+`)
)

func TrimText(text string) string {
	text = spacesRe.ReplaceAllString(text, " ")
	text = formatControlRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// StripTags replaces all HTML tags with spaces, decodes entities and collapses whitespace.
func StripTags(text string) string {
	var (
		builder   strings.Builder
		tokenizer = html.NewTokenizer(strings.NewReader(text))
		rawText   bool
	)

loop:
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				// The input is a string, so it can't really happen
				return TrimText(text)
			}
			break loop

		case html.TextToken:
			if !rawText {
				builder.Write(tokenizer.Text())
			}

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch atom.Lookup(name) {
			case atom.Script, atom.Style:
				rawText = true
			}
			builder.WriteByte(' ')

		case html.EndTagToken:
			rawText = false
			builder.WriteByte(' ')

		case html.SelfClosingTagToken:
			builder.WriteByte(' ')
		}
	}

	return TrimText(strings.Join(strings.Fields(builder.String()), " "))
}

// Truncate returns at most limit first characters of the text.
func Truncate(text string, limit int) string {
	var count int
	for index := range text {
		if count == limit {
			return text[:index]
		}
		count++
	}
	return text
}
