package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harfangapps/respd/internal/respclient"
	"github.com/harfangapps/respd/internal/testutils"
	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"

	"github.com/pkg/errors"
)

var tcpAddr = &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0}

func TestServeAlreadyStarted(t *testing.T) {
	blockChan := make(chan struct{})
	listener := &testutils.MockListener{
		AcceptFunc: func(i int) (net.Conn, error) {
			<-blockChan
			return nil, io.EOF
		},
		CloseChan: blockChan,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	srv := &Server{Addr: tcpAddr}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.serve(ctx, listener); errors.Cause(err) != io.EOF {
			t.Errorf("want %v, got %v", io.EOF, err)
		}
	}()

	<-time.After(10 * time.Millisecond)
	if err := srv.serve(ctx, listener); err == nil || !strings.Contains(err.Error(), "already started") {
		t.Errorf("want an `already started` error, got %v", err)
	}

	wg.Wait()
}

func TestServeClosedCannotRestart(t *testing.T) {
	closeChan := make(chan struct{})
	listener := &testutils.MockListener{
		AcceptFunc: func(i int) (net.Conn, error) {
			<-closeChan
			return nil, io.EOF
		},
		CloseChan: closeChan,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := &Server{Addr: tcpAddr}
	if err := srv.serve(ctx, listener); errors.Cause(err) != io.EOF {
		t.Errorf("want %v, got %v", io.EOF, err)
	}
	if err := srv.serve(ctx, listener); err == nil || !strings.Contains(err.Error(), "server closed") {
		t.Errorf("want a `server closed` error, got %v", err)
	}
}

// TestEndToEndOverRealListener exercises the full stack — TCP accept
// loop, incremental decode, command dispatch, store, encode — against
// a real redigo client, the way an actual Redis client would see it.
// Only commands whose replies a strict RESP2 client can read are used
// here; the rest of the surface is covered byte-for-byte by
// TestReadWriteLoopScenarios.
func TestEndToEndOverRealListener(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := &Server{Store: store.New()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, l) }()

	client := respclient.Dial(l.Addr().String())
	defer client.Close()

	if pong, err := client.Ping(); err != nil || pong != "PONG" {
		t.Fatalf("expected PONG, got %q, %v", pong, err)
	}

	if echoed, err := client.Echo("hello"); err != nil || echoed != "hello" {
		t.Fatalf("expected hello echoed back, got %q, %v", echoed, err)
	}

	if err := client.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, err := client.Get("k"); err != nil || v != "v" {
		t.Fatalf("expected v, got %q, %v", v, err)
	}

	if err := client.HSet("h", "f", "v"); err != nil {
		t.Fatal(err)
	}
	if v, err := client.HGet("h", "f"); err != nil || v != "v" {
		t.Fatalf("expected v, got %q, %v", v, err)
	}

	cancel()
	if err := <-done; errors.Cause(err) == nil {
		t.Error("expected serve to return an error once cancelled")
	}
}

// TestReadWriteLoopScenarios pins down the exact response bytes for a
// pipelined sequence of raw requests on one connection, covering the
// replies a RESP2 client cannot read: RESP3 nulls for misses, signed
// Integer replies, and Array replies with their trailing CRLF.
func TestReadWriteLoopScenarios(t *testing.T) {
	cases := []struct {
		name string
		reqs string
		want string
	}{
		{
			"get on an empty store misses",
			"*2\r\n$3\r\nget\r\n$5\r\nhello\r\n",
			"_\r\n",
		},
		{
			"set then get",
			"*3\r\n$3\r\nset\r\n$5\r\nhello\r\n$5\r\nworld\r\n" +
				"*2\r\n$3\r\nget\r\n$5\r\nhello\r\n",
			"+OK\r\n$5\r\nworld\r\n",
		},
		{
			"hset then hgetall",
			"*4\r\n$4\r\nhset\r\n$3\r\nmap\r\n$5\r\nhello\r\n$5\r\nworld\r\n" +
				"*2\r\n$7\r\nhgetall\r\n$3\r\nmap\r\n",
			"+OK\r\n*2\r\n$5\r\nhello\r\n$5\r\nworld\r\n\r\n",
		},
		{
			"sadd twice counts only the first add",
			"*3\r\n$4\r\nsadd\r\n$3\r\nset\r\n$1\r\na\r\n" +
				"*3\r\n$4\r\nsadd\r\n$3\r\nset\r\n$1\r\na\r\n",
			":+1\r\n:+0\r\n",
		},
		{
			"sismember hit and miss",
			"*3\r\n$4\r\nsadd\r\n$3\r\nset\r\n$1\r\na\r\n" +
				"*3\r\n$9\r\nsismember\r\n$3\r\nset\r\n$1\r\na\r\n" +
				"*3\r\n$9\r\nsismember\r\n$3\r\nset\r\n$1\r\nz\r\n",
			":+1\r\n:+1\r\n:+0\r\n",
		},
		{
			"hexists replies with a boolean",
			"*4\r\n$4\r\nhset\r\n$1\r\nh\r\n$1\r\nf\r\n$1\r\nv\r\n" +
				"*3\r\n$7\r\nhexists\r\n$1\r\nh\r\n$1\r\nf\r\n" +
				"*3\r\n$7\r\nhexists\r\n$1\r\nh\r\n$1\r\nz\r\n",
			"+OK\r\n#t\r\n#f\r\n",
		},
		{
			"del reports how many keys existed",
			"*3\r\n$3\r\nset\r\n$1\r\nk\r\n$1\r\nv\r\n" +
				"*3\r\n$3\r\ndel\r\n$1\r\nk\r\n$7\r\nmissing\r\n",
			"+OK\r\n:+1\r\n",
		},
		{
			"ping",
			"*1\r\n$4\r\nping\r\n",
			"+PONG\r\n",
		},
		{
			"echo",
			"*2\r\n$4\r\necho\r\n$5\r\nhello\r\n",
			"$5\r\nhello\r\n",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			conn := &testutils.RecordingConn{ReadFrom: strings.NewReader(c.reqs)}
			s := &Server{Store: store.New()}
			s.readWriteLoop(conn)

			if got := conn.String(); got != c.want {
				t.Errorf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestReadWriteLoopPing(t *testing.T) {
	request := []byte("*1\r\n$4\r\nping\r\n")

	conn := &testutils.RecordingConn{ReadFrom: bytes.NewReader(request)}
	s := &Server{Store: store.New()}
	s.readWriteLoop(conn)

	want := resp.Encode(resp.SimpleString("PONG"))
	if !bytes.Equal(conn.Bytes(), want) {
		t.Errorf("expected %q, got %q", want, conn.Bytes())
	}
}

func TestReadWriteLoopAcrossPartialReads(t *testing.T) {
	request := []byte("*2\r\n$3\r\nget\r\n$1\r\nk\r\n")

	conn := &testutils.RecordingConn{
		ReadFrom: io.MultiReader(bytes.NewReader(request[:5]), bytes.NewReader(request[5:])),
	}
	s := &Server{Store: store.New()}
	s.readWriteLoop(conn)

	want := resp.Encode(resp.Null())
	if !bytes.Equal(conn.Bytes(), want) {
		t.Errorf("expected %q, got %q", want, conn.Bytes())
	}
}

func TestReadWriteLoopMalformedRequestClosesWithoutResponse(t *testing.T) {
	conn := &testutils.RecordingConn{ReadFrom: bytes.NewReader([]byte("!\r\n"))}
	s := &Server{Store: store.New()}
	s.readWriteLoop(conn)

	if len(conn.Bytes()) != 0 {
		t.Errorf("expected no response written for a malformed request, got %q", conn.Bytes())
	}
}

func TestReadWriteLoopSetThenGet(t *testing.T) {
	setReq := []byte("*3\r\n$3\r\nset\r\n$1\r\nk\r\n$1\r\nv\r\n")
	getReq := []byte("*2\r\n$3\r\nget\r\n$1\r\nk\r\n")
	full := append(append([]byte{}, setReq...), getReq...)

	conn := &testutils.RecordingConn{ReadFrom: bytes.NewReader(full)}
	s := &Server{Store: store.New()}
	s.readWriteLoop(conn)

	want := append(resp.Encode(resp.SimpleString("OK")), resp.Encode(resp.BulkStringFromString("v"))...)
	if !bytes.Equal(conn.Bytes(), want) {
		t.Errorf("expected %q, got %q", want, conn.Bytes())
	}
}

func TestCommandLabel(t *testing.T) {
	cases := []struct {
		name string
		args []resp.Frame
		want string
	}{
		{"empty", nil, "unknown"},
		{"non bulk string", []resp.Frame{resp.Integer(1)}, "unknown"},
		{"lowercased", []resp.Frame{resp.BulkStringFromString("GET")}, "get"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := commandLabel(c.args); got != c.want {
				t.Errorf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestServeConnClosesConnectionOnReturn(t *testing.T) {
	closeChan := make(chan struct{})
	conn := &testutils.MockConn{
		ReadFunc:  func(i int, b []byte) (int, error) { return 0, io.EOF },
		CloseChan: closeChan,
	}

	s := &Server{Store: store.New()}
	done := make(chan struct{})
	s.serveConn(nil, doneFunc(func() { close(done) }), conn)

	select {
	case <-closeChan:
	default:
		t.Error("expected connection to be closed")
	}
	select {
	case <-done:
	default:
		t.Error("expected Doner.Done to be called")
	}
}

type doneFunc func()

func (f doneFunc) Done() { f() }

var _ net.Conn = (*testutils.MockConn)(nil)
