package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryProfileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProfileRepository()

	blob, err := repo.Get(ctx, "user_profile")
	require.NoError(t, err)
	assert.Nil(t, blob)

	in := []byte(`{"id":"abc"}`)
	require.NoError(t, repo.Put(ctx, "user_profile", in))
	in[2] = 'X'

	blob, err = repo.Get(ctx, "user_profile")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"abc"}`, string(blob))

	require.NoError(t, repo.Delete(ctx, "user_profile"))
	blob, err = repo.Get(ctx, "user_profile")
	require.NoError(t, err)
	assert.Nil(t, blob)
}
