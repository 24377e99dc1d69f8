package imagestore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shadowbane/home-flood-report/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageName(t *testing.T) {
	tests := []struct {
		address string
		cause   models.CauseType
		want    string
	}{
		{"123 Main St", models.CausePipeBurst, "123_Main_St_Pipe Burst.jpg"},
		{"5 Elm", models.CauseOverflow, "5_Elm_Well_Reservoir Overflow.jpg"},
		{"../../etc/passwd", models.CauseDebris, ".._.._etc_passwd_Debris.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageName(tt.address, tt.cause))
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("flood.jpg"))
	assert.True(t, IsSupported("flood.JPEG"))
	assert.True(t, IsSupported("street.png"))
	assert.False(t, IsSupported("flood.gif"))
	assert.False(t, IsSupported("flood"))
}

func TestStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "flood_images")
	s := New(dir)

	path, err := s.Store(context.Background(), bytes.NewReader([]byte("jpeg-bytes")), "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	// second call with an existing directory is fine
	_, err = s.Store(context.Background(), bytes.NewReader([]byte("x")), "b.jpg")
	require.NoError(t, err)
}

func TestStore_SameNameOverwritesSilently(t *testing.T) {
	s := New(t.TempDir())
	name := ImageName("123 Main St", models.CausePipeBurst)

	first, err := s.Store(context.Background(), bytes.NewReader([]byte("first photo, longer")), name)
	require.NoError(t, err)
	second, err := s.Store(context.Background(), bytes.NewReader([]byte("second")), name)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(t.TempDir()).Store(ctx, bytes.NewReader(nil), "a.jpg")
	assert.ErrorIs(t, err, context.Canceled)
}
