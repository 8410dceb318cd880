package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidPayload rejects payloads that would break line framing.
var ErrInvalidPayload = errors.New("invalid one-click payload")

// Notify hands payload to the instance listening on ep and waits for its
// acknowledgement line. Any line counts as an acknowledgement; the trimmed
// line is returned. Notify never retries.
func Notify(ctx context.Context, ep Endpoint, payload string, timeout time.Duration) (string, error) {
	if err := validatePayload(payload); err != nil {
		return "", err
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, ep.Network, ep.Address)
	if err != nil {
		return "", fmt.Errorf("connect %s: %w", ep, err)
	}

	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			_ = conn.Close()
			return "", fmt.Errorf("set deadline: %w", err)
		}
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	var ack string
	var g errgroup.Group
	g.Go(func() error {
		if _, err := io.WriteString(conn, payload); err != nil {
			return fmt.Errorf("write payload: %w", err)
		}
		if cw, ok := conn.(interface{ CloseWrite() error }); ok {
			if err := cw.CloseWrite(); err != nil {
				return fmt.Errorf("close write side: %w", err)
			}
		}
		return nil
	})
	g.Go(func() error {
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return fmt.Errorf("read acknowledgement: %w", err)
		}
		ack = strings.TrimSpace(line)
		return nil
	})

	if err := g.Wait(); err != nil {
		_ = conn.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", err
	}
	if err := conn.Close(); err != nil {
		return ack, fmt.Errorf("close connection: %w", err)
	}
	return ack, nil
}

// Probe reports whether something is accepting connections on ep.
func Probe(ctx context.Context, ep Endpoint, timeout time.Duration) (bool, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, ep.Network, ep.Address)
	if err == nil {
		_ = conn.Close()
		return true, nil
	}
	if isSocketMissing(err) || isConnectionRefused(err) {
		return false, nil
	}
	return false, fmt.Errorf("probe %s: %w", ep, err)
}

func validatePayload(payload string) error {
	body := strings.TrimRight(payload, "\r\n")
	if body == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPayload)
	}
	if strings.ContainsAny(body, "\r\n") {
		return fmt.Errorf("%w: embedded line break", ErrInvalidPayload)
	}
	return nil
}

// isSocketMissing reports absent-socket failures.
func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist)
}

// isConnectionRefused reports no-listener failures.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return isErrnoConnRefused(err)
}

// IsUnreachable reports dial failures meaning no instance is listening.
func IsUnreachable(err error) bool {
	return isSocketMissing(err) || isConnectionRefused(err)
}
