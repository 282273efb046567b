package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRepository(t *testing.T) {
	repo := NewUploadRepository()

	buf := []byte("pdf bytes")
	repo.Put("b.pdf", buf)
	repo.Put("a.docx", []byte("docx bytes"))
	buf[0] = 'X'

	snap := repo.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a.docx", snap[0].FileName)
	assert.Equal(t, "b.pdf", snap[1].FileName)
	assert.Equal(t, []byte("pdf bytes"), snap[1].Content)

	repo.Put("c.pdf", []byte("late"))
	repo.Remove([]string{"a.docx", "b.pdf", "gone.pdf"})
	assert.Equal(t, []string{"c.pdf"}, repo.Names())

	assert.ErrorIs(t, repo.Delete("a.docx"), ErrUploadNotFound)
	require.NoError(t, repo.Delete("c.pdf"))
	assert.Equal(t, 0, repo.Len())

	repo.Put("d.pdf", nil)
	assert.Equal(t, 1, repo.Clear())
	assert.Empty(t, repo.Snapshot())
}
