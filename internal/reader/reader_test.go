package reader

import (
	"context"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/samber/mo"
	"github.com/stretchr/testify/require"

	"github.com/KonishchevDmitry/rssreader/pkg/feed"
	"github.com/KonishchevDmitry/rssreader/pkg/fetch"
	"github.com/KonishchevDmitry/rssreader/pkg/loop"
	"github.com/KonishchevDmitry/rssreader/pkg/snapshot"
	"github.com/KonishchevDmitry/rssreader/pkg/test/testutil"
)

type event struct {
	kind  string
	url   string
	index int
	title string
	items int
}

type recorder struct {
	NopListener
	events chan event
}

func (r *recorder) Reset(url string) {
	r.events <- event{kind: "reset", url: url}
}

func (r *recorder) Add(index int, item feed.Item) {
	r.events <- event{kind: "add", index: index, title: item.Title}
}

func (r *recorder) Failed(url string, err error) {
	r.events <- event{kind: "failed", url: url}
}

func (r *recorder) Done(url string, items int) {
	r.events <- event{kind: "done", url: url, items: items}
}

func (r *recorder) next(t *testing.T) event {
	select {
	case event := <-r.events:
		return event
	case <-time.After(10 * time.Second):
		require.FailNow(t, "Timed out waiting for a listener call")
		return event{}
	}
}

func startLoop(t *testing.T) *loop.Loop {
	eventLoop := loop.New()
	result := make(chan error, 1)
	go func() {
		result <- eventLoop.Run(context.Background())
	}()
	t.Cleanup(func() {
		eventLoop.Stop()
		require.NoError(t, <-result)
	})
	return eventLoop
}

func newReader(t *testing.T) (*Reader, *recorder) {
	return newLoopReader(t, startLoop(t))
}

func newLoopReader(t *testing.T, eventLoop *loop.Loop) (*Reader, *recorder) {
	listener := &recorder{events: make(chan event, 100)}
	reader := New(fetch.New(), eventLoop, listener)
	t.Cleanup(func() {
		reader.Cancel()
		require.NoError(t, reader.Wait(context.Background()))
	})

	return reader, listener
}

const document = `
	<rss version="2.0"><channel>
		<title>Feed</title>
		<item><title>A</title><link>https://example.com/a</link></item>
		<item><title>B</title><description>b</description></item>
	</channel></rss>
`

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := testutil.Context(t)
	server := testutil.FeedServer(t, heredoc.Doc(document))
	reader, listener := newReader(t)

	require.NoError(t, reader.Open(ctx, server.URL))
	require.Equal(t, event{kind: "reset", url: server.URL}, listener.next(t))
	require.Equal(t, event{kind: "add", index: 0, title: "A"}, listener.next(t))
	require.Equal(t, event{kind: "add", index: 1, title: "B"}, listener.next(t))
	require.Equal(t, event{kind: "done", url: server.URL, items: 2}, listener.next(t))

	url, err := reader.URL(ctx)
	require.NoError(t, err)
	require.Equal(t, server.URL, url)

	items, err := reader.Items(ctx)
	require.NoError(t, err)
	require.Equal(t, []feed.Item{
		feed.NewItem("A", "https://example.com/a", "", ""),
		feed.NewItem("B", "", "b", ""),
	}, items)

	item, err := reader.Item(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, mo.Some(items[1]), item)

	item, err = reader.Item(ctx, 2)
	require.NoError(t, err)
	require.False(t, item.IsPresent())
}

func TestReopen(t *testing.T) {
	t.Parallel()

	ctx := testutil.Context(t)
	first := testutil.FeedServer(t, heredoc.Doc(document))
	second := testutil.FeedServer(t, `<rss><channel><item><title>C</title></item></channel></rss>`)
	reader, listener := newReader(t)

	require.NoError(t, reader.Open(ctx, first.URL))
	require.Equal(t, event{kind: "reset", url: first.URL}, listener.next(t))
	for {
		if event := listener.next(t); event.kind == "done" {
			break
		}
	}

	require.NoError(t, reader.Select(ctx, 1))

	require.NoError(t, reader.Open(ctx, second.URL))
	require.Equal(t, event{kind: "reset", url: second.URL}, listener.next(t))
	require.Equal(t, event{kind: "add", index: 0, title: "C"}, listener.next(t))
	require.Equal(t, event{kind: "done", url: second.URL, items: 1}, listener.next(t))

	items, err := reader.Items(ctx)
	require.NoError(t, err)
	require.Equal(t, []feed.Item{feed.NewItem("C", "", "", "")}, items)

	selection, err := reader.Selection(ctx)
	require.NoError(t, err)
	require.False(t, selection.IsPresent())
}

func TestOpenFailure(t *testing.T) {
	t.Parallel()

	ctx := testutil.Context(t)
	url := testutil.ClosedAddress(t)
	reader, listener := newReader(t)

	require.NoError(t, reader.Open(ctx, url))
	require.Equal(t, event{kind: "reset", url: url}, listener.next(t))
	require.Equal(t, event{kind: "failed", url: url}, listener.next(t))

	items, err := reader.Items(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestOpenOutlivesContext(t *testing.T) {
	t.Parallel()

	server := testutil.FeedServer(t, heredoc.Doc(document))
	reader, listener := newReader(t)

	ctx, cancel := context.WithCancel(testutil.Context(t))
	require.NoError(t, reader.Open(ctx, server.URL))
	cancel()

	require.Equal(t, event{kind: "reset", url: server.URL}, listener.next(t))
	for {
		event := listener.next(t)
		require.NotEqual(t, "failed", event.kind)
		if event.kind == "done" {
			require.Equal(t, 2, event.items)
			break
		}
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	ctx := testutil.Context(t)
	reader, _ := newReader(t)

	require.Error(t, reader.Select(ctx, 0))

	require.NoError(t, reader.Restore(ctx, &snapshot.Snapshot{
		URL:   "https://example.com/",
		Items: []feed.Item{feed.NewItem("A", "", "", "")},
	}))

	require.Error(t, reader.Select(ctx, -1))
	require.Error(t, reader.Select(ctx, 1))
	require.NoError(t, reader.Select(ctx, 0))

	selection, err := reader.Selection(ctx)
	require.NoError(t, err)
	require.Equal(t, mo.Some(0), selection)
}

func TestSnapshotRestore(t *testing.T) {
	t.Parallel()

	ctx := testutil.Context(t)
	server := testutil.FeedServer(t, heredoc.Doc(document))

	reader, listener := newReader(t)
	require.NoError(t, reader.Open(ctx, server.URL))
	for {
		if event := listener.next(t); event.kind == "done" {
			break
		}
	}
	require.NoError(t, reader.Select(ctx, 1))

	state, err := reader.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, server.URL, state.URL)
	require.Len(t, state.Items, 2)
	require.Equal(t, mo.Some(1), state.Selection)

	restored, restoredListener := newReader(t)
	require.NoError(t, restored.Restore(ctx, state))
	require.Equal(t, event{kind: "reset", url: server.URL}, restoredListener.next(t))
	require.Equal(t, event{kind: "add", index: 0, title: "A"}, restoredListener.next(t))
	require.Equal(t, event{kind: "add", index: 1, title: "B"}, restoredListener.next(t))

	restoredState, err := restored.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, state, restoredState)
}

func TestOpenTimedOut(t *testing.T) {
	t.Parallel()

	server := testutil.FeedServer(t, heredoc.Doc(document))
	eventLoop := startLoop(t)
	reader, listener := newLoopReader(t, eventLoop)

	unblock := make(chan struct{})
	eventLoop.Post(func() {
		<-unblock
	})

	ctx, cancel := context.WithTimeout(testutil.Context(t), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, reader.Open(ctx, server.URL), context.DeadlineExceeded)
	close(unblock)

	// The request has failed, so the fetch must not have been started
	url, err := reader.URL(testutil.Context(t))
	require.NoError(t, err)
	require.Empty(t, url)
	require.False(t, reader.Controller().Current().IsPresent())

	require.NoError(t, reader.Wait(testutil.Context(t)))
	require.Empty(t, listener.events)
}
