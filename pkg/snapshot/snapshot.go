// Package snapshot persists the reader state (the URL, the fetched items and the selected item) as an RSS document.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/mo"

	"github.com/KonishchevDmitry/rssreader/pkg/feed"
	"github.com/KonishchevDmitry/rssreader/pkg/rss"
)

const Namespace = "https://github.com/KonishchevDmitry/rssreader"

type Snapshot struct {
	URL       string
	Items     []feed.Item
	Selection mo.Option[int]
}

type channel struct {
	Title     string      `xml:"title"`
	Link      string      `xml:"link"`
	Selection *int        `xml:"https://github.com/KonishchevDmitry/rssreader selection,omitempty"`
	Items     []feed.Item `xml:"item"`
}

func Write(writer io.Writer, snapshot *Snapshot) error {
	document := channel{
		Title: "RSS reader snapshot",
		Link:  snapshot.URL,
		Items: snapshot.Items,
	}
	if selection, ok := snapshot.Selection.Get(); ok {
		document.Selection = &selection
	}
	return rss.Write(&document, writer)
}

func Read(reader io.Reader) (*Snapshot, error) {
	document, err := rss.Read[channel](reader)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		URL:   document.Link,
		Items: document.Items,
	}

	if document.Selection != nil {
		selection := *document.Selection
		if selection < 0 || selection >= len(snapshot.Items) {
			return nil, fmt.Errorf("invalid selected item index: %d", selection)
		}
		snapshot.Selection = mo.Some(selection)
	}

	return snapshot, nil
}

// Save atomically replaces the file with the snapshot.
func Save(path string, snapshot *Snapshot) (retErr error) {
	defer func() {
		if retErr != nil {
			retErr = fmt.Errorf("failed to save the snapshot to %q: %w", path, retErr)
		}
	}()

	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tempPath := file.Name()

	defer func() {
		if retErr != nil {
			_ = os.Remove(tempPath)
		}
	}()

	if err := Write(file, snapshot); err != nil {
		_ = file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}

// Load reads the snapshot from the file. A missing file isn't an error.
func Load(path string) (_ mo.Option[*Snapshot], retErr error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mo.None[*Snapshot](), nil
		}
		return mo.None[*Snapshot](), err
	}
	defer func() {
		if err := file.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()

	snapshot, err := Read(file)
	if err != nil {
		return mo.None[*Snapshot](), fmt.Errorf("failed to load the snapshot from %q: %w", path, err)
	}

	return mo.Some(snapshot), nil
}
