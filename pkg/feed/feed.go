package feed

import (
	"github.com/KonishchevDmitry/rssreader/pkg/parse"
)

const SnippetLength = 90

// Item is a single feed entry. All fields are always set: missing ones are empty strings.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Image       string `xml:"image"`
}

func NewItem(title string, link string, description string, image string) Item {
	return Item{
		Title:       title,
		Link:        link,
		Description: description,
		Image:       image,
	}
}

// Snippet returns the beginning of the description with all markup stripped.
func (i Item) Snippet() string {
	return parse.Truncate(parse.StripTags(i.Description), SnippetLength)
}
