package types

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := NotFoundf("user %s not found", "abc")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyExists))

	wrapped := fmt.Errorf("error fetching user: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "user abc not found", MessageOf(wrapped))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewError(KindUnavailable, "query timed out", cause)

	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "query timed out")
}

func TestKindOf_ForeignErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, ErrInternal.Message, MessageOf(errors.New("boom")))
}

func TestActorFromContext(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		actor := Actor{ID: uuid.New(), Email: "admin@example.com"}
		got, ok := ActorFromContext(ContextWithActor(context.Background(), actor))
		require.True(t, ok)
		assert.Equal(t, actor, got)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := ActorFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("nil id is not an actor", func(t *testing.T) {
		_, ok := ActorFromContext(ContextWithActor(context.Background(), Actor{Email: "x@y.z"}))
		assert.False(t, ok)
	})
}
