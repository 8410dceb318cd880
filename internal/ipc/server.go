package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"
)

// ServerOptions tunes per-connection behavior.
type ServerOptions struct {
	Logger *slog.Logger
	// ReadTimeout bounds how long a client may stay silent. Zero disables it.
	ReadTimeout time.Duration
}

// Server runs the accept loop and forwards each received line.
type Server struct {
	listener    net.Listener
	forward     chan<- string
	logger      *slog.Logger
	readTimeout time.Duration
	closing     atomic.Bool
}

// NewServer wraps a bound listener. forward receives one trimmed message per
// successful connection, in completion order.
func NewServer(listener net.Listener, forward chan<- string, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		listener:    listener,
		forward:     forward,
		logger:      logger,
		readTimeout: opts.ReadTimeout,
	}
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops the accept loop. Serve then returns nil.
func (s *Server) Close() error {
	s.closing.Store(true)
	return s.listener.Close()
}

// Serve accepts connections until ctx is cancelled or Close is called.
// A listener failure ends the loop and is returned; connection failures
// are logged and never stop it.
func (s *Server) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() {
		s.closing.Store(true)
		_ = s.listener.Close()
	})
	defer stop()

	var backoff time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() || ctx.Err() != nil {
				return nil
			}
			if isTransientAccept(err) {
				backoff = nextBackoff(backoff)
				s.logger.Warn("one-click accept failed; retrying", "error", err.Error(), "backoff_ms", backoff.Milliseconds())
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(backoff):
				}
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("one-click listener closed unexpectedly: %w", err)
			}
			return fmt.Errorf("accept one-click connection: %w", err)
		}
		backoff = 0

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			s.handle(ctx, c)
		}(conn)
	}
}

// handle runs one exchange: read a line while writing the ack, then forward.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	if s.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			s.logger.Warn("one-click connection deadline failed", "error", err.Error())
			return
		}
	}

	var (
		line     string
		readErr  error
		writeErr error
		g        errgroup.Group
	)
	g.Go(func() error {
		line, readErr = readLine(conn)
		return readErr
	})
	g.Go(func() error {
		_, writeErr = io.WriteString(conn, AckLine)
		return writeErr
	})
	_ = g.Wait()

	if readErr != nil {
		if errors.Is(readErr, io.EOF) {
			s.logger.Debug("one-click connection closed without payload")
			return
		}
		s.logger.Warn("one-click read failed", "error", readErr.Error())
		return
	}
	if writeErr != nil {
		s.logger.Warn("one-click acknowledgement failed", "error", writeErr.Error())
		return
	}

	msg := strings.TrimRightFunc(line, unicode.IsSpace)
	if msg == "" {
		s.logger.Warn("one-click payload empty")
		return
	}

	select {
	case s.forward <- msg:
		s.logger.Debug("one-click payload forwarded", "bytes", len(msg))
	case <-ctx.Done():
		s.logger.Warn("one-click payload dropped on shutdown", "bytes", len(msg))
	}
}

// readLine reads up to and including the first newline. Trailing data ended
// by EOF instead of a newline is returned as the line.
func readLine(r io.Reader) (string, error) {
	reader := bufio.NewReaderSize(r, initialLineBuffer)
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return 5 * time.Millisecond
	}
	current *= 2
	if current > time.Second {
		current = time.Second
	}
	return current
}
