package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/maestro/pkg/adapters/memory"
	"github.com/uxforge/maestro/pkg/persistence/middleware"
)

func TestPII_MasksMatchingAnswers(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := middleware.Wrap(inner, middleware.NewPIIMiddleware([]string{"^q_content_"}))

	sess := sampleSession()
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.Interview.Answers["q_content_input"].FreeText)

	// Non-matching answers are untouched.
	assert.Equal(t, []string{"opt_minimal"}, loaded.Interview.Answers["q_theme"].SelectedOptions)

	// Masking never leaks back into the caller's session.
	assert.Equal(t, "Acme: ship faster.", sess.Interview.Answers["q_content_input"].FreeText)
}

func TestPII_StacksWithEncryption(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := middleware.Wrap(inner,
		middleware.NewPIIMiddleware([]string{"^q_content_"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: testKey(1)}),
	)

	require.NoError(t, store.Save(ctx, sampleSession()))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.Interview.Answers["q_content_input"].FreeText)

	raw, err := inner.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Contains(t, raw.Interview.Answers["q_content_input"].FreeText, "enc:v1:")
}
