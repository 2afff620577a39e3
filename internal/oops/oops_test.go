package oops

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSomething() error {
	return New(io.ErrUnexpectedEOF, "decoding %s", "frame 3")
}

func TestNew(t *testing.T) {
	err := decodeSomething()
	assert.EqualError(t, err, "decoding frame 3: unexpected EOF")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var oopsErr *Error
	require.True(t, errors.As(err, &oopsErr))
	require.NotEmpty(t, oopsErr.Stack)
	assert.True(t, strings.HasSuffix(oopsErr.Stack[0].Function, "decodeSomething"), oopsErr.Stack[0].Function)
	assert.True(t, strings.HasSuffix(oopsErr.Stack[0].File, "oops_test.go"), oopsErr.Stack[0].File)

	assert.EqualError(t, New(nil, "plain"), "plain")
}

func TestTrace(t *testing.T) {
	s := Trace()
	require.NotEmpty(t, s)
	assert.True(t, strings.HasSuffix(s[0].Function, "TestTrace"), s[0].Function)
}

func TestZerologStackMarshaler(t *testing.T) {
	assert.Nil(t, ZerologStackMarshaler(errors.New("plain")))

	prev := zerolog.ErrorStackMarshaler
	zerolog.ErrorStackMarshaler = ZerologStackMarshaler
	defer func() { zerolog.ErrorStackMarshaler = prev }()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Error().Stack().Err(decodeSomething()).Msg("failed")

	out := buf.String()
	assert.Contains(t, out, `"stack":[{"function":`)
	assert.Contains(t, out, "decodeSomething")
}

func TestStackOfWrappedChain(t *testing.T) {
	err := fmt.Errorf("view: %w", decodeSomething())
	s := StackOf(err)
	require.NotEmpty(t, s)
	assert.True(t, strings.HasSuffix(s[0].Function, "decodeSomething"), s[0].Function)
	assert.Equal(t, s, ZerologStackMarshaler(err))

	assert.Nil(t, StackOf(io.EOF))
}

func TestFormat(t *testing.T) {
	err := decodeSomething()
	assert.Equal(t, "decoding frame 3: unexpected EOF", fmt.Sprintf("%v", err))

	verbose := fmt.Sprintf("%+v", err)
	lines := strings.Split(verbose, "\n")
	assert.Equal(t, "decoding frame 3: unexpected EOF", lines[0])
	assert.Contains(t, lines[1], "decodeSomething (oops/oops_test.go:")
}
