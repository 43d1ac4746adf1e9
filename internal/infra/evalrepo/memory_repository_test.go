package evalrepo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/solarcook/internal/domain/efficiency"
)

func TestMemoryRepositoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepository(3)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Save(ctx, efficiency.Record{ID: id}))
	}

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "d", got[0].ID)
	require.Equal(t, "b", got[2].ID)

	got, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "d", got[0].ID)
}

func TestNullable(t *testing.T) {
	require.Nil(t, nullable(sql.NullFloat64{}))
	v := nullable(sql.NullFloat64{Float64: 0.42, Valid: true})
	require.NotNil(t, v)
	require.Equal(t, 0.42, *v)
}
