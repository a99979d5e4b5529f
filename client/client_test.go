package client

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/phayes/freeport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoListener echoes every connection until the test ends.
func echoListener(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		listener.Close()
	})

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				io.Copy(conn, conn)
			}()
		}
	}()
	return listener.Addr().String()
}

func TestExchange(t *testing.T) {
	addr := echoListener(t)

	var c Client
	want := []byte("hello world")
	got, err := c.Exchange(context.Background(), addr, want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExchangeChunkedResponse(t *testing.T) {
	// the response arrives in many small writes, the client has to
	// accumulate partial reads until the full message length is reached
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	message := bytes.Repeat([]byte("abcde"), 200) // 1000 bytes

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		request := make([]byte, len(message))
		if _, err := io.ReadFull(conn, request); err != nil {
			return
		}
		for off := 0; off < len(request); off += 100 {
			conn.Write(request[off : off+100])
			time.Sleep(time.Millisecond)
		}
	}()

	var c Client
	got, err := c.Exchange(context.Background(), listener.Addr().String(), message)
	require.NoError(t, err)
	assert.Equal(t, message, got)
}

func TestExchangePeerClosedEarly(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		// echo only half of the message, then close
		buffer := make([]byte, 8)
		if _, err := io.ReadFull(conn, buffer); err == nil {
			conn.Write(buffer[:4])
		}
		conn.Close()
	}()

	var c Client
	_, err = c.Exchange(context.Background(), listener.Addr().String(), []byte("12345678"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to receive response")
}

func TestExchangeConnectFailure(t *testing.T) {
	port, err := freeport.GetFreePort()
	require.NoError(t, err)

	var c Client
	_, err = c.Exchange(context.Background(), net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), []byte("hello"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestExchangeConnShortWrite(t *testing.T) {
	var c Client
	_, err := c.ExchangeConn(shortWriteConn{}, []byte("hello world"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected to send 11 bytes but actually sent 5")
}

// shortWriteConn pretends the OS accepted only part of the message.
type shortWriteConn struct{}

func (shortWriteConn) Write(b []byte) (int, error)      { return len(b) / 2, nil }
func (shortWriteConn) Read(b []byte) (int, error)       { return 0, io.EOF }
func (shortWriteConn) Close() error                     { return nil }
func (shortWriteConn) LocalAddr() net.Addr              { return nil }
func (shortWriteConn) RemoteAddr() net.Addr             { return nil }
func (shortWriteConn) SetDeadline(time.Time) error      { return nil }
func (shortWriteConn) SetReadDeadline(time.Time) error  { return nil }
func (shortWriteConn) SetWriteDeadline(time.Time) error { return nil }
