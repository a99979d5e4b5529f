package server

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/Eun/go-timebox"
	"github.com/pkg/errors"

	"github.com/Eun/go-echo/logger"
)

// DefaultBufferSize is the size of the per-connection echo buffer.
const DefaultBufferSize = 512

// DefaultShutdownTimeout bounds how long Shutdown waits for an
// in-flight session to drain.
const DefaultShutdownTimeout = time.Duration(time.Second * 5)

type ShutdownTimeoutError struct{}

func (ShutdownTimeoutError) Error() string {
	return "shutdown timeout hit"
}

// Server echoes every byte it receives back to the sender.
//
// It serves exactly one connection at a time: while a session is in
// progress further clients queue in the OS accept backlog. A
// connection-level I/O error ends only that session; the server keeps
// accepting afterwards.
type Server struct {
	// BufferSize is the size of the receive buffer. Defaults to
	// DefaultBufferSize.
	BufferSize int

	mu       sync.Mutex
	listener net.Listener
	active   net.Conn
	closing  bool
	sessions sync.WaitGroup
}

// Serve accepts connections on ln sequentially and echoes until ln is
// closed. It returns nil after Shutdown or Close, and a non-nil error
// only when accepting fails while the server is still supposed to run.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosing() {
				return nil
			}
			return errors.Wrap(err, "accept failed")
		}

		logger.Infof("connected to client: %s", conn.RemoteAddr())

		s.setActive(conn)
		start := time.Now()
		echoed, err := s.echo(conn)
		s.setActive(nil)
		_ = conn.Close()

		if err != nil {
			logger.Errorf("session with %s failed after %d bytes: %v", conn.RemoteAddr(), echoed, err)
			continue
		}
		logger.Infof("connection to client closed (%d bytes in %v), waiting for next connection", echoed, time.Since(start))
	}
}

// echo copies every read back to the connection until the peer closes.
func (s *Server) echo(conn net.Conn) (int64, error) {
	size := s.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	buffer := make([]byte, size)

	var total int64
	for {
		n, err := conn.Read(buffer)
		if n > 0 {
			if _, werr := conn.Write(buffer[:n]); werr != nil {
				return total, errors.Wrap(werr, "failed to send bytes back to client")
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, errors.Wrap(err, "failed to receive bytes from client")
		}
	}
}

// Close closes the listener and the active connection immediately.
// Any blocked Serve call returns nil.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closing = true
	ln := s.listener
	conn := s.active
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	if ln == nil {
		return nil
	}
	return ln.Close()
}

// Shutdown stops accepting and waits up to timeout for the in-flight
// session to finish. On timeout the active connection is force-closed
// and a ShutdownTimeoutError is returned.
func (s *Server) Shutdown(timeout time.Duration) error {
	if timeout == 0 {
		timeout = DefaultShutdownTimeout
	}

	s.mu.Lock()
	s.closing = true
	ln := s.listener
	s.mu.Unlock()

	if ln != nil {
		if err := ln.Close(); err != nil {
			return errors.Wrap(err, "failed to close listener")
		}
	}

	returns, err := timebox.Timebox(timeout, func() error {
		s.sessions.Wait()
		return nil
	})
	if err != nil {
		// forcefully close the active connection
		s.mu.Lock()
		conn := s.active
		s.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		if timebox.IsTimeoutError(err) {
			return ShutdownTimeoutError{}
		}
		return err
	}
	if returns[0] != nil {
		return returns[0].(error)
	}
	return nil
}

// Addr returns the listener's network address.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) setActive(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn != nil {
		s.sessions.Add(1)
		s.active = conn
		return
	}
	if s.active != nil {
		s.active = nil
		s.sessions.Done()
	}
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func IsShutdownTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(ShutdownTimeoutError)
	return ok
}
