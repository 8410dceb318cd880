package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveEndpointNamespaced(t *testing.T) {
	ep, err := resolveEndpoint(DefaultLogicalName, true, "/definitely/missing")
	require.NoError(t, err)
	require.True(t, ep.Namespaced)
	require.Equal(t, "unix", ep.Network)
	require.Equal(t, "@rust4diva.sock", ep.Address)
}

func TestResolveEndpointFallsBackToTempDirPath(t *testing.T) {
	dir := t.TempDir()

	ep, err := resolveEndpoint(DefaultLogicalName, false, dir)
	require.NoError(t, err)
	require.False(t, ep.Namespaced)
	require.Equal(t, filepath.Join(dir, "rust4diva.sock"), ep.Address)

	_, statErr := os.Stat(ep.Address)
	require.ErrorIs(t, statErr, os.ErrNotExist, "resolution must not touch the filesystem")
}

func TestResolveEndpointIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first, err := ResolvePathEndpoint(DefaultLogicalName, dir)
	require.NoError(t, err)
	second, err := ResolvePathEndpoint(DefaultLogicalName, dir)
	require.NoError(t, err)
	require.Equal(t, first, second)

	nsFirst, err := ResolveEndpoint(DefaultLogicalName)
	require.NoError(t, err)
	nsSecond, err := ResolveEndpoint(DefaultLogicalName)
	require.NoError(t, err)
	require.Equal(t, nsFirst, nsSecond)
}

func TestResolveEndpointMissingFallbackDirIsFatal(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := resolveEndpoint(DefaultLogicalName, false, missing)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrEndpointDirMissing))

	_, statErr := os.Stat(missing)
	require.ErrorIs(t, statErr, os.ErrNotExist, "resolver must not create directories")
}

func TestResolveEndpointRejectsFileAsDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := resolveEndpoint(DefaultLogicalName, false, file)
	require.ErrorIs(t, err, ErrEndpointDirMissing)
}

func TestResolveEndpointRejectsBadLogicalNames(t *testing.T) {
	for _, name := range []string{"", "   ", "a/b", `a\b`} {
		_, err := resolveEndpoint(name, false, t.TempDir())
		require.Error(t, err, name)
	}
}

func TestResolveConfiguredPathMode(t *testing.T) {
	dir := t.TempDir()

	ep, err := ResolveConfigured("custom.sock", false, dir)
	require.NoError(t, err)
	require.False(t, ep.Namespaced)
	require.Equal(t, filepath.Join(dir, "custom.sock"), ep.Address)
}

func TestResolveConfiguredEmptyDirUsesTempDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	ep, err := ResolveConfigured(DefaultLogicalName, false, " ")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, DefaultLogicalName), ep.Address)
}

func TestResolveConfiguredNamespacedFollowsPlatform(t *testing.T) {
	ep, err := ResolveConfigured(DefaultLogicalName, true, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, namespacedSupported, ep.Namespaced)
}
