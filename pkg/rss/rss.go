package rss

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/KonishchevDmitry/rssreader/pkg/feed"
)

const ContentType = "application/rss+xml"

// Channel is a minimal RSS 2.0 channel which holds parsed items.
type Channel struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	Description string      `xml:"description"`
	Items       []feed.Item `xml:"item"`
}

func NewChannel(title string, link string, items []feed.Item) *Channel {
	return &Channel{
		Title: title,
		Link:  link,
		Items: items,
	}
}

type rssRoot[T any] struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel *T       `xml:"channel"`
}

// Read decodes the whole document at once. Unlike Parse it's intended for documents generated by Write.
func Read[T any](reader io.Reader) (*T, error) {
	rss := rssRoot[T]{}

	decoder := xml.NewDecoder(reader)
	decoder.CharsetReader = charsetReader

	if err := decoder.Decode(&rss); err != nil {
		return nil, err
	}

	switch rss.Version {
	case "2.0", "0.92", "0.91":
	default:
		return nil, fmt.Errorf("unsupported RSS version: %s", rss.Version)
	}

	if rss.Channel == nil {
		return nil, errors.New("the document doesn't conform to RSS specification")
	}

	return rss.Channel, nil
}

func Write[T any](channel *T, writer io.Writer) error {
	if _, err := writer.Write([]byte(xml.Header)); err != nil {
		return err
	}

	rss := rssRoot[T]{Version: "2.0", Channel: channel}
	encoder := xml.NewEncoder(writer)
	encoder.Indent("", "    ")
	return encoder.Encode(&rss)
}

func Generate[T any](channel *T) ([]byte, error) {
	var buffer bytes.Buffer
	if err := Write(channel, &buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
