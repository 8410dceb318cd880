package ipc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEndpointDirMissing reports that the filesystem fallback has no parent directory.
var ErrEndpointDirMissing = errors.New("endpoint directory does not exist")

// Endpoint is a resolved local address that server and client agree on.
type Endpoint struct {
	Network    string
	Address    string
	Namespaced bool
}

func (e Endpoint) String() string {
	return e.Network + ":" + e.Address
}

// ResolveEndpoint picks a namespaced endpoint when the platform supports one,
// otherwise a socket file under the system temp directory.
func ResolveEndpoint(logicalName string) (Endpoint, error) {
	return resolveEndpoint(logicalName, namespacedSupported, os.TempDir())
}

// ResolvePathEndpoint forces the filesystem fallback rooted at dir.
func ResolvePathEndpoint(logicalName, dir string) (Endpoint, error) {
	return resolveEndpoint(logicalName, false, dir)
}

// ResolveConfigured honors a namespaced preference only where the platform
// supports it. An empty dir means the system temp directory.
func ResolveConfigured(logicalName string, namespaced bool, dir string) (Endpoint, error) {
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	return resolveEndpoint(logicalName, namespaced && namespacedSupported, dir)
}

func resolveEndpoint(logicalName string, namespaced bool, dir string) (Endpoint, error) {
	name := strings.TrimSpace(logicalName)
	if name == "" {
		return Endpoint{}, errors.New("endpoint logical name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return Endpoint{}, fmt.Errorf("endpoint logical name %q must not contain path separators", name)
	}

	if namespaced {
		return Endpoint{Network: "unix", Address: "@" + name, Namespaced: true}, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Endpoint{}, fmt.Errorf("%w: %s", ErrEndpointDirMissing, dir)
		}
		return Endpoint{}, fmt.Errorf("stat endpoint dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return Endpoint{}, fmt.Errorf("%w: %s is not a directory", ErrEndpointDirMissing, dir)
	}

	return Endpoint{Network: "unix", Address: filepath.Join(dir, name)}, nil
}
