package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"
	"github.com/stretchr/testify/require"

	"github.com/KonishchevDmitry/rssreader/internal/config"
	"github.com/KonishchevDmitry/rssreader/pkg/feed"
	"github.com/KonishchevDmitry/rssreader/pkg/snapshot"
	"github.com/KonishchevDmitry/rssreader/pkg/test/testutil"
)

func TestRead(t *testing.T) {
	t.Parallel()

	ctx := testutil.Context(t)

	first := testutil.FeedServer(t, heredoc.Doc(`
		<rss><channel>
			<item><title>A</title></item>
			<item><title>B</title></item>
		</channel></rss>
	`))
	second := testutil.FeedServer(t, heredoc.Doc(`
		<rss><channel>
			<item><title>C</title><description><![CDATA[<p>Some <b>bold</b> text</p>]]></description></item>
			<item><link>https://example.com/</link></item>
		</channel></rss>
	`))

	appConfig, err := config.Load("")
	require.NoError(t, err)
	appConfig.Snapshot.Path = filepath.Join(t.TempDir(), "snapshot.xml")
	app := &application{config: appConfig}

	// Each stdin line supersedes the previous fetch
	var output bytes.Buffer
	command := readCommand{URLs: []string{first.URL}}
	require.NoError(t, command.run(ctx, app, strings.NewReader("\n"+second.URL+"\n"), &output))

	require.True(t, strings.HasPrefix(output.String(), "==> "+first.URL+"\n"), output.String())
	require.True(t, strings.HasSuffix(output.String(), heredoc.Docf(`
		==> %s
		1. C
		   Some bold text
		2. (untitled)
		<== %s: 2 items
	`, second.URL, second.URL)), output.String())

	state, err := snapshot.Load(appConfig.Snapshot.Path)
	require.NoError(t, err)
	require.True(t, state.IsPresent())
	require.Equal(t, second.URL, state.MustGet().URL)
	require.Equal(t, []feed.Item{
		feed.NewItem("C", "", "<p>Some <b>bold</b> text</p>", ""),
		feed.NewItem("", "https://example.com/", "", ""),
	}, state.MustGet().Items)

	// The next run starts from the snapshot
	output.Reset()
	command = readCommand{}
	require.NoError(t, command.run(ctx, app, strings.NewReader(""), &output))
	require.Equal(t, heredoc.Docf(`
		==> %s
		1. C
		   Some bold text
		2. (untitled)
	`, second.URL), output.String())
}

func TestReadFailure(t *testing.T) {
	t.Parallel()

	ctx := testutil.Context(t)
	url := testutil.ClosedAddress(t)

	appConfig, err := config.Load("")
	require.NoError(t, err)
	app := &application{config: appConfig}

	var output bytes.Buffer
	command := readCommand{URLs: []string{url}}
	require.NoError(t, command.run(ctx, app, strings.NewReader(""), &output))

	lines := strings.Split(strings.TrimSuffix(output.String(), "\n"), "\n")
	require.Len(t, lines, 2, output.String())
	require.Equal(t, "==> "+url, lines[0])
	require.True(t, strings.HasPrefix(lines[1], "Failed to fetch "+url+": "), lines[1])
}
