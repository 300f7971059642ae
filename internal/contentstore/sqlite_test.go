package contentstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectus/internal/domain"
)

func openTemp(t *testing.T) *SQLiteSource {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_SaveAndLoadPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.SaveChunks(ctx, []domain.Chunk{
		{ID: "b", Text: "second by id, first by position", Page: 2, Tag: domain.TagFees, Status: domain.StatusApproved},
		{ID: "a", Text: "no metadata"},
	}))

	got, err := s.LoadChunks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, domain.TagFees, got[0].Tag)
	assert.Equal(t, 2, got[0].Page)
	assert.Equal(t, domain.Status(""), got[1].Status)
	assert.False(t, got[1].Timestamp.IsZero())
}

func TestSQLite_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.SaveChunks(ctx, []domain.Chunk{{ID: "old", Text: "old"}}))
	require.NoError(t, s.SaveChunks(ctx, []domain.Chunk{{ID: "new", Text: "new"}}))

	got, err := s.LoadChunks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestSQLite_EmptyStore(t *testing.T) {
	got, err := openTemp(t).LoadChunks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
