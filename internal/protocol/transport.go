package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
)

// Transport reads newline-delimited requests and writes one-line JSON
// responses over a byte stream.
type Transport struct {
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex
}

// NewTransport creates a transport reading from r and writing to w.
func NewTransport(r io.Reader, w io.Writer) *Transport {
	return &Transport{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// ReadLine returns the next request line with surrounding whitespace
// trimmed. A final line without a trailing newline is still returned;
// io.EOF signals a clean end of input.
func (t *Transport) ReadLine() ([]byte, error) {
	line, err := t.reader.ReadBytes('\n')
	line = bytes.TrimSpace(line)
	if err != nil && len(line) == 0 {
		return nil, err
	}
	return line, nil
}

// WriteResponse marshals a response and writes it as a single line.
// Safe for concurrent use.
func (t *Transport) WriteResponse(v any) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if _, err := t.writer.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// TCPListener serves the protocol over TCP connections.
type TCPListener struct {
	listener net.Listener
	server   *Server
}

// NewTCPListener creates a TCP listener on the given address.
func NewTCPListener(addr string, server *Server) (*TCPListener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	return &TCPListener{listener: listener, server: server}, nil
}

// Addr returns the address the listener is bound to.
func (tl *TCPListener) Addr() net.Addr {
	return tl.listener.Addr()
}

// Serve accepts connections until the listener is closed. Each
// connection is served on its own goroutine.
func (tl *TCPListener) Serve() error {
	for {
		conn, err := tl.listener.Accept()
		if err != nil {
			return err
		}
		go func() {
			defer conn.Close() //nolint:errcheck
			tl.server.ServeTransport(NewTransport(conn, conn))
		}()
	}
}

// Close stops the listener.
func (tl *TCPListener) Close() error {
	return tl.listener.Close()
}
