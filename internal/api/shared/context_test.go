package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, TraceIDLength*2)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other)

	assert.Equal(t, "abc", GetTraceID(WithTraceID(context.Background(), "abc")))
}

func TestGenerateFallbackTraceID(t *testing.T) {
	t.Parallel()

	id := generateFallbackTraceID()
	assert.Len(t, id, TraceIDLength*2)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
}

func TestSessionID(t *testing.T) {
	t.Parallel()

	_, ok := GetSessionID(context.Background())
	assert.False(t, ok)

	_, ok = GetSessionID(WithSessionID(context.Background(), uuid.Nil))
	assert.False(t, ok, "nil session IDs are treated as absent")

	id := uuid.New()
	got, ok := GetSessionID(WithSessionID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
