// Package server implements the RESP connection loop: for each
// accepted TCP connection, frames are decoded from a read-ahead
// buffer, dispatched to the command layer against a shared Store, and
// the response is encoded back onto the socket.
package server

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/harfangapps/respd/addr"
	"github.com/harfangapps/respd/command"
	"github.com/harfangapps/respd/common"
	"github.com/harfangapps/respd/metrics"
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"

	"github.com/pkg/errors"
)

// various states of the Server
const (
	none = iota
	started
	closed
)

// readBufferSize is the chunk size used to refill the decode buffer
// from the socket whenever Decode reports ErrIncomplete.
const readBufferSize = 4096

// Server listens for incoming RESP connections and dispatches
// commands against a shared Store.
type Server struct {
	// The address the server listens on.
	Addr net.Addr

	// Store backing every connection's commands. If nil, ListenAndServe
	// creates one.
	Store *store.Store

	// Duration before the server stops if there is no active connection.
	IdleTimeout time.Duration

	// Write timeout before returning a network error on a write attempt.
	WriteTimeout time.Duration

	// The channel to send errors to. If nil, errors are logged through
	// common.Logger.
	ErrChan chan<- error

	server common.RetryServer

	mu    sync.Mutex
	state int
	port  int
}

// ListenAndServe starts the server on the specified Addr.
//
// This call is blocking, it returns only when an error is
// encountered. As such, it always returns a non-nil error.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, port, err := addr.ListenFunc(s.Addr)
	if err != nil {
		return errors.Wrap(err, "listen error")
	}
	s.mu.Lock()
	s.port = port
	s.mu.Unlock()
	return s.serve(ctx, l)
}

// Port returns the TCP port ListenAndServe actually bound to. It is
// only meaningful after ListenAndServe has been called, and is most
// useful when Addr asks for port 0 (let the OS pick a free port).
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

func (s *Server) serve(ctx context.Context, l net.Listener) error {
	s.mu.Lock()
	switch s.state {
	case none:
		// all good, keep going
	case started:
		s.mu.Unlock()
		return errors.New("server already started")
	case closed:
		s.mu.Unlock()
		return errors.New("server closed")
	}

	if s.Store == nil {
		s.Store = store.New()
	}
	s.server.Dispatch = s.serveConn
	s.server.ErrChan = s.ErrChan
	s.server.Listener = l
	s.server.IdleTracker.IdleTimeout = s.IdleTimeout
	s.state = started
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = closed
		s.mu.Unlock()
	}()

	return s.server.Serve(ctx)
}

func (s *Server) serveConn(ctx context.Context, d common.Doner, conn net.Conn) {
	metrics.ConnectionsTotal.Inc()
	defer func() {
		conn.Close() // close the serviced connection
		d.Done()     // signal the server that this connection is done
	}()

	// close the connection when the server stops, so a pending Read
	// returns and this goroutine can exit
	if ctx != nil {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-stop:
			}
		}()
	}

	s.readWriteLoop(conn)
}

func (s *Server) readWriteLoop(conn net.Conn) {
	buf := resp.NewBuffer()
	scratch := make([]byte, readBufferSize)

	for {
		req, err := s.nextFrame(conn, buf, scratch)
		if err != nil {
			if err == io.EOF {
				return
			}
			if _, ok := err.(*resp.FrameError); ok {
				common.HandleError(errors.Wrap(err, "malformed request"), s.ErrChan)
				return
			}
			common.HandleError(errors.Wrap(err, "decode request error"), s.ErrChan)
			return
		}

		res := s.execute(req.Array)

		if s.WriteTimeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout)); err != nil {
				common.HandleError(errors.Wrap(err, "set write deadline"), s.ErrChan)
				return
			}
		}
		if _, err := conn.Write(resp.Encode(res)); err != nil {
			common.HandleError(errors.Wrap(err, "write response error"), s.ErrChan)
			return
		}
	}
}

// nextFrame decodes the next frame out of buf, reading more bytes
// from conn into buf whenever decoding reports ErrIncomplete.
func (s *Server) nextFrame(conn net.Conn, buf *resp.Buffer, scratch []byte) (resp.Frame, error) {
	for {
		f, err := resp.Decode(buf)
		if err == nil {
			return f, nil
		}
		if err != resp.ErrIncomplete {
			return resp.Frame{}, err
		}

		n, rerr := conn.Read(scratch)
		if n > 0 {
			buf.Write(scratch[:n])
			continue
		}
		if rerr == nil {
			rerr = io.EOF
		}
		return resp.Frame{}, rerr
	}
}

// execute runs the decoded request Array through the command layer,
// recording per-command metrics around it.
func (s *Server) execute(args []resp.Frame) resp.Frame {
	label := commandLabel(args)

	metrics.CommandsInProgress.Inc()
	defer metrics.CommandsInProgress.Dec()

	res, err := command.Dispatch(args, s.Store)
	metrics.CommandsTotal.WithLabelValues(label).Inc()
	if err != nil {
		// Dispatch only returns a non-nil error for conditions outside
		// the client's control; every ordinary validation failure is
		// already an Error Frame.
		return resp.Errorf("ERR %v", err)
	}
	return res
}

func commandLabel(args []resp.Frame) string {
	if len(args) == 0 || args[0].Type != resp.TypeBulkString || args[0].IsNull() {
		return "unknown"
	}
	return strings.ToLower(string(args[0].Bulk))
}
