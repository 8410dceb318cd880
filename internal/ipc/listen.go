package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// ErrAddressInUse means another instance already owns the endpoint.
var ErrAddressInUse = errors.New("one-click endpoint already bound by a running instance")

// BindError is a fatal bind failure that is not an ownership conflict.
type BindError struct {
	Endpoint Endpoint
	Err      error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Endpoint, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Listen binds ep exclusively.
//
// A live owner yields ErrAddressInUse. For socket-file endpoints a file left
// behind by a crashed owner is detected by probing, removed, and bound again.
func Listen(ctx context.Context, ep Endpoint, probeTimeout time.Duration) (net.Listener, error) {
	listener, err := net.Listen(ep.Network, ep.Address)
	if err == nil {
		restrictSocketFile(ep)
		return listener, nil
	}
	if !isAddrInUse(err) {
		return nil, &BindError{Endpoint: ep, Err: err}
	}
	if ep.Namespaced {
		return nil, ErrAddressInUse
	}

	alive, probeErr := Probe(ctx, ep, probeTimeout)
	if alive {
		return nil, ErrAddressInUse
	}
	if probeErr != nil {
		return nil, &BindError{Endpoint: ep, Err: fmt.Errorf("probe existing socket: %w", probeErr)}
	}

	if removeErr := os.Remove(ep.Address); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return nil, &BindError{Endpoint: ep, Err: fmt.Errorf("remove stale socket: %w", removeErr)}
	}

	listener, err = net.Listen(ep.Network, ep.Address)
	if err != nil {
		if isAddrInUse(err) {
			return nil, ErrAddressInUse
		}
		return nil, &BindError{Endpoint: ep, Err: err}
	}
	restrictSocketFile(ep)
	return listener, nil
}

func restrictSocketFile(ep Endpoint) {
	if ep.Namespaced {
		return
	}
	_ = os.Chmod(ep.Address, 0o600)
}

func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	return isErrnoAddrInUse(err) || strings.Contains(err.Error(), "address already in use")
}
