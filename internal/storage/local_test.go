// filepath: internal/storage/local_test.go
package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveOpenDelete(t *testing.T) {
	ds, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	n, err := ds.Save("obj1", strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	r, err := ds.Open("obj1")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	r.Close()
	assert.Equal(t, "hello world", string(data))

	require.NoError(t, ds.Delete("obj1"))
	_, err = ds.Open("obj1")
	assert.Error(t, err)
	assert.Error(t, ds.Delete("obj1"))
}

func TestLocal_FullSize(t *testing.T) {
	ds, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	size, err := ds.FullSize()
	require.NoError(t, err)
	assert.Zero(t, size)

	_, err = ds.Save("a", strings.NewReader("12345"))
	require.NoError(t, err)
	_, err = ds.Save("b", strings.NewReader("1234567890"))
	require.NoError(t, err)

	size, err = ds.FullSize()
	require.NoError(t, err)
	assert.Equal(t, int64(15), size)
}

func TestLocal_RejectsTraversal(t *testing.T) {
	ds, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = ds.Save("../escape", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = ds.Open("../../etc/passwd")
	assert.Error(t, err)
}
