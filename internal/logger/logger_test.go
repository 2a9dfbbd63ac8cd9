package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	for _, testCase := range []struct {
		name   string
		config Config
		debug  bool
		info   bool
	}{
		{"default", Config{}, false, true},
		{"warning", Config{Level: "warn"}, false, false},
		{"debug", Config{Level: "debug"}, true, true},
		{"debug flag", Config{Level: "error", Debug: true}, true, true},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var console bytes.Buffer
			testCase.config.Console = &console

			logger, err := New(testCase.config)
			require.NoError(t, err)

			logger.Debugf("Debug message.")
			logger.Infof("Info message.")
			logger.Errorf("Error message.")
			require.NoError(t, logger.Close())

			output := console.String()
			require.Equal(t, testCase.debug, bytes.Contains(console.Bytes(), []byte("Debug message.")), output)
			require.Equal(t, testCase.info, bytes.Contains(console.Bytes(), []byte("Info message.")), output)
			require.Contains(t, output, "Error message.")
		})
	}
}

func TestInvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Level: "verbose"})
	require.ErrorContains(t, err, "verbose")
}

func TestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "rssreader.log")

	var console bytes.Buffer
	logger, err := New(Config{File: path, Console: &console})
	require.NoError(t, err)

	logger.Infof("Fetching %s...", "https://example.com/")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "INFO")
	require.Contains(t, string(data), "Fetching https://example.com/...")
	require.Contains(t, console.String(), "Fetching https://example.com/...")
}
