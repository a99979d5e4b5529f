package echo

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/phayes/freeport"

	"github.com/Eun/go-echo/client"
	"github.com/Eun/go-echo/server"
)

func TestIO(t *testing.T) {
	port, err := freeport.GetFreePort()
	if err != nil {
		t.Fatal(err)
	}

	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		t.Fatal(err)
	}

	s := server.Server{}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(listener)
	}()

	address := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	var c client.Client

	want := []byte("hello world")
	got, err := c.Exchange(context.Background(), address, want)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Expected %q, got %q", want, got)
	}

	// a message larger than the server's echo buffer comes back in
	// multiple chunks, their concatenation must equal the message
	want = bytes.Repeat([]byte("0123456789"), 100)
	got, err = c.Exchange(context.Background(), address, want)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("large message echo mismatch (%d bytes back)", len(got))
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := <-serveErr; err != nil {
		t.Fatal(err)
	}
}
