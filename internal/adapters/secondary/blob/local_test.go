package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-asset-service/internal/core/domain"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestLocalStorage_PutOpenSizeDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	st := NewLocalStorageFs(fs, "/media/")
	ctx := context.Background()

	n, err := st.Put(ctx, "models/3d/rock.glb", strings.NewReader("glTF-binary"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	size, err := st.Size(ctx, "models/3d/rock.glb")
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)

	rc, err := st.Open(ctx, "models/3d/rock.glb")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "glTF-binary", string(data))

	require.NoError(t, st.Delete(ctx, "models/3d/rock.glb"))
	_, err = st.Open(ctx, "models/3d/rock.glb")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	_, err = st.Size(ctx, "models/3d/rock.glb")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)

	assert.NoError(t, st.Delete(ctx, "models/3d/rock.glb"), "deleting a missing blob is a no-op")
}

func TestLocalStorage_PutFailureLeavesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	st := NewLocalStorageFs(fs, "")

	_, err := st.Put(context.Background(), "models/3d/broken.glb", failingReader{})
	require.Error(t, err)

	entries, err := afero.ReadDir(fs, "/models/3d")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	st := NewLocalStorageFs(afero.NewMemMapFs(), "")
	ctx := context.Background()

	_, err := st.Put(ctx, "../outside.glb", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = st.Open(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	_, err = st.Open(ctx, "models")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestLocalStorage_URL(t *testing.T) {
	assert.Equal(t, "/media/models/3d/a.glb", NewLocalStorageFs(afero.NewMemMapFs(), "/media/").URL("models/3d/a.glb"))
	assert.Equal(t, "https://cdn.example.com/models/3d/a.glb", NewLocalStorageFs(afero.NewMemMapFs(), "https://cdn.example.com").URL("models/3d/a.glb"))
}
