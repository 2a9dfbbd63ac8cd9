package rss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	xpp "github.com/mmcdole/goxpp"
	"github.com/samber/mo"
	"golang.org/x/net/html/charset"

	"github.com/KonishchevDmitry/rssreader/pkg/feed"
)

const itemElement = "item"

// Namespaces in which elements are matched by their local name
var rssNamespaces = map[string]struct{}{
	"":                                       {}, // RSS 0.9x, 2.0
	"http://purl.org/rss/1.0/":               {},
	"http://my.netscape.com/rdf/simple/0.9/": {},
}

// Parse reads the feed document and calls onItem for each <item> element as soon as the element is closed.
//
// Item fields are taken from the text which immediately follows the field's start tag: markup nested into the field
// is not reconstructed. The context is checked on every parsing step and no items are delivered after cancellation.
func Parse(ctx context.Context, reader io.Reader, onItem func(item feed.Item), opts ...Option) error {
	var options options
	for _, opt := range opts {
		opt(&options)
	}

	parser := parser{
		options: options,
		onItem:  onItem,
		xpp:     xpp.NewXMLPullParser(sourceReader{reader: reader}, true, charsetReader),
	}

	return parser.parse(ctx)
}

type parser struct {
	options options
	onItem  func(item feed.Item)
	xpp     *xpp.XMLPullParser

	depth     int
	itemDepth mo.Option[int]
	item      itemFields
}

func (p *parser) parse(ctx context.Context) error {
	event, err := p.xpp.Next()

	for {
		if err != nil {
			return classifyError(err)
		} else if err := ctx.Err(); err != nil {
			return err
		}

		switch event {
		case xpp.EndDocument:
			return nil

		case xpp.StartTag:
			p.depth++
			if !p.isRSSElement() {
				break
			}

			if p.xpp.Name == itemElement {
				p.item = itemFields{}
				p.itemDepth = mo.Some(p.depth)
			} else if field, ok := p.field(p.xpp.Name); ok {
				// The event which terminates the text is processed by the loop as usual
				*field, event, err = p.readText()
				continue
			}

		case xpp.EndTag:
			if p.isRSSElement() && p.xpp.Name == itemElement {
				if err := ctx.Err(); err != nil {
					return err
				}
				p.onItem(p.item.build())
				p.itemDepth = mo.None[int]()
			}
			p.depth--
		}

		event, err = p.xpp.Next()
	}
}

func (p *parser) isRSSElement() bool {
	_, ok := rssNamespaces[p.xpp.Space]
	return ok
}

func (p *parser) field(name string) (*string, bool) {
	if p.options.scopeToItem {
		if itemDepth, ok := p.itemDepth.Get(); !ok || p.depth != itemDepth+1 {
			return nil, false
		}
	}
	return p.item.field(name)
}

// Reads all character data (including CDATA sections) up to the next non-text event.
func (p *parser) readText() (string, xpp.XMLEventType, error) {
	var text strings.Builder

	for {
		event, err := p.xpp.Next()
		if err != nil || event != xpp.Text {
			return text.String(), event, err
		}
		text.WriteString(p.xpp.Text)
	}
}

type itemFields struct {
	title       string
	link        string
	description string
	image       string
}

func (f *itemFields) field(name string) (*string, bool) {
	switch name {
	case "title":
		return &f.title, true
	case "link":
		return &f.link, true
	case "description":
		return &f.description, true
	case "image":
		return &f.image, true
	default:
		return nil, false
	}
}

func (f *itemFields) build() feed.Item {
	return feed.NewItem(f.title, f.link, f.description, f.image)
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	reader, err := charset.NewReaderLabel(label, input)
	if err != nil {
		return nil, fmt.Errorf("the document has an unknown charset encoding: %q", label)
	}
	return reader, nil
}

// Marks errors of the underlying reader to distinguish them from parsing errors
type sourceReader struct {
	reader io.Reader
}

var _ io.Reader = sourceReader{}

func (r sourceReader) Read(buf []byte) (int, error) {
	n, err := r.reader.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		err = readError{error: err}
	}
	return n, err
}
