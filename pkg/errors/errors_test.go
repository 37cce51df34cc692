package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(CodeStorage, "failed to load records", base)

	require.True(t, IsCode(err, CodeStorage))
	require.False(t, IsCode(err, CodeNotFound))
	require.ErrorIs(t, err, base)
	require.Equal(t, "failed to load records: connection refused", err.Error())
}

func TestCodeOfWrappedTwice(t *testing.T) {
	err := fmt.Errorf("reconcile: %w", Wrap(CodeMissingConfiguration, "no active location", nil))
	require.Equal(t, CodeMissingConfiguration, CodeOf(err))
	require.Equal(t, "", CodeOf(errors.New("plain")))
}
