package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	t.Run("code and message", func(t *testing.T) {
		err := New(ErrMissingRootVersion, "no version record at tree root")
		assert.Equal(t, "[MISSING_ROOT_VERSION] no version record at tree root", err.Error())
	})

	t.Run("path appended", func(t *testing.T) {
		err := New(ErrNestedVersionRecord, "version record below root").WithPath("sub/VERSION")
		assert.Contains(t, err.Error(), "sub/VERSION")
	})

	t.Run("wrapped cause included", func(t *testing.T) {
		cause := fmt.Errorf("permission denied")
		err := Wrap(cause, ErrUnreadableManifest, "reading manifest").WithPath("a/Cargo.toml")
		assert.Contains(t, err.Error(), "permission denied")
		assert.Contains(t, err.Error(), "UNREADABLE_MANIFEST")
	})
}

func TestWrapNil(t *testing.T) {
	require.Nil(t, Wrap(nil, ErrMalformedManifest, "ignored"))
	require.Nil(t, Wrapf(nil, ErrMalformedManifest, "ignored %d", 1))
}

func TestIsMatchesByCode(t *testing.T) {
	err := Newf(ErrVersionMismatch, "package.json has 1.0.1 but record has %s", "1.0.0")
	assert.True(t, errors.Is(err, New(ErrVersionMismatch, "")))
	assert.False(t, errors.Is(err, New(ErrMissingRootVersion, "")))
}

func TestUnwrapChain(t *testing.T) {
	err := Wrap(os.ErrPermission, ErrUnreadableManifest, "reading manifest")
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestCodeOf(t *testing.T) {
	t.Run("coded error", func(t *testing.T) {
		err := New(ErrSymlinkManifestRejected, "symlinked manifest")
		assert.Equal(t, ErrSymlinkManifestRejected, CodeOf(err))
	})

	t.Run("coded error below plain wrapping", func(t *testing.T) {
		inner := New(ErrConcurrentModificationDetected, "file changed since staging")
		err := fmt.Errorf("commit: %w", inner)
		assert.Equal(t, ErrConcurrentModificationDetected, CodeOf(err))
		assert.True(t, IsCode(err, ErrConcurrentModificationDetected))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Equal(t, ErrUnknown, CodeOf(errors.New("boom")))
	})
}

func TestPathOf(t *testing.T) {
	err := New(ErrMalformedManifest, "no version field").WithPath("pkg/package.json")
	assert.Equal(t, "pkg/package.json", PathOf(err))
	assert.Equal(t, "", PathOf(errors.New("boom")))
}

func TestWithPaths(t *testing.T) {
	err := New(ErrPartialWriteUnrecoverable, "files left modified").
		WithPaths([]string{"VERSION", "api/Cargo.toml"})
	require.Len(t, err.Paths, 2)
	assert.Equal(t, "VERSION", err.Paths[0])
}
