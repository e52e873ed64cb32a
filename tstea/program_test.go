package tstea

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymous(t *testing.T) {
	name, err := Anonymous(context.Background(), "100.64.0.1:2222", "ghthor")
	require.NoError(t, err)
	assert.Equal(t, "ghthor", name)
}

func TestJoinContext(t *testing.T) {
	errBye := errors.New("bye")

	t.Run("second parent cancels", func(t *testing.T) {
		ctx2, cancel2 := context.WithCancelCause(context.Background())
		ctx, cancel := joinContext(context.Background(), ctx2)
		defer cancel(nil)

		cancel2(errBye)
		<-ctx.Done()
		assert.ErrorIs(t, context.Cause(ctx), errBye)
	})

	t.Run("first parent cancels", func(t *testing.T) {
		ctx1, cancel1 := context.WithCancel(context.Background())
		ctx, cancel := joinContext(ctx1, context.Background())
		defer cancel(nil)

		cancel1()
		<-ctx.Done()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("cancel detaches", func(t *testing.T) {
		ctx, cancel := joinContext(context.Background(), context.Background())
		cancel(errBye)
		assert.ErrorIs(t, context.Cause(ctx), errBye)
	})
}
