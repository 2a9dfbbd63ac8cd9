package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type testError struct {
	temporary bool
}

func (e testError) Error() string {
	return "test error"
}

func (e testError) Temporary() bool {
	return e.temporary
}

func TestIsTemporaryError(t *testing.T) {
	t.Parallel()

	require.False(t, IsTemporaryError(nil))
	require.False(t, IsTemporaryError(errors.New("some error")))
	require.True(t, IsTemporaryError(testError{temporary: true}))
	require.False(t, IsTemporaryError(testError{temporary: false}))
	require.True(t, IsTemporaryError(fmt.Errorf("wrapped: %w", testError{temporary: true})))
	require.False(t, IsTemporaryError(fmt.Errorf("wrapped: %w", fmt.Errorf("twice: %w", testError{}))))
}
