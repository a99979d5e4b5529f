// Package option holds the startup options of the server and client
// binaries.
package option

import (
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultHostname is reported to the user when none is given. The
	// server binds the wildcard address regardless of it.
	DefaultHostname = "localhost"

	// DefaultMessage is what the client sends when no message is given.
	DefaultMessage = "hello world"
)

// ServerOptions are the startup options of the server binary.
type ServerOptions struct {
	Hostname        string
	Port            int
	ShutdownTimeout time.Duration
	Debug           bool
}

// NewServerOptions creates ServerOptions with defaults.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Hostname: DefaultHostname,
	}
}

// ListenAddress is the address the listener binds. The hostname is
// deliberately not part of it: the listener always binds the wildcard
// address.
func (o *ServerOptions) ListenAddress() string {
	return net.JoinHostPort("", strconv.Itoa(o.Port))
}

// ClientOptions are the startup options of the client binary.
type ClientOptions struct {
	Hostname string
	Port     int
	Message  string
	Debug    bool
}

// NewClientOptions creates ClientOptions with defaults.
func NewClientOptions() *ClientOptions {
	return &ClientOptions{
		Hostname: DefaultHostname,
		Message:  DefaultMessage,
	}
}

// ServerAddress is the address the client connects to.
func (o *ClientOptions) ServerAddress() string {
	return net.JoinHostPort(o.Hostname, strconv.Itoa(o.Port))
}

// ParsePort parses the positional port argument. The port must be a
// positive integer that fits a TCP port.
func ParsePort(arg string) (int, error) {
	port, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Errorf("invalid port number: %s", arg)
	}
	if port <= 0 || port > 65535 {
		return 0, errors.Errorf("invalid port number: %d", port)
	}
	return port, nil
}
