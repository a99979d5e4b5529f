package client

import (
	"context"
	"net"

	"github.com/pkg/errors"

	"github.com/Eun/go-echo/logger"
)

// Client sends one message to an echo server and reads back exactly
// that many bytes. There is no framing: the response is assumed to be
// as long as the request.
type Client struct {
	Dialer net.Dialer
}

func (c *Client) Dial(network, address string) (net.Conn, error) {
	return c.DialContext(context.Background(), network, address)
}

func (c *Client) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return c.Dialer.DialContext(ctx, network, address)
}

// Exchange connects to address, sends message and reads the echo back.
// The returned slice has exactly len(message) bytes. A short write and
// any read error (including a peer close before the full echo arrived)
// are fatal; there are no retries.
func (c *Client) Exchange(ctx context.Context, address string, message []byte) ([]byte, error) {
	conn, err := c.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", address)
	}
	defer conn.Close()
	return c.ExchangeConn(conn, message)
}

// ExchangeConn performs the send/receive round trip on an established
// connection.
func (c *Client) ExchangeConn(conn net.Conn, message []byte) ([]byte, error) {
	n, err := conn.Write(message)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send message")
	}
	if n != len(message) {
		return nil, errors.Errorf("expected to send %d bytes but actually sent %d", len(message), n)
	}

	// the response buffer is sized exactly to the message; reads make
	// progress in whatever chunks the stream delivers them
	response := make([]byte, len(message))
	total := 0
	for total < len(message) {
		n, err := conn.Read(response[total:])
		if n > 0 {
			total += n
			logger.Debugf("received %d bytes (%d/%d)", n, total, len(message))
		}
		if err != nil && total < len(message) {
			return nil, errors.Wrapf(err, "failed to receive response after %d of %d bytes", total, len(message))
		}
	}
	return response, nil
}
