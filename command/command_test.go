package command

import (
	"reflect"
	"testing"

	"github.com/harfangapps/respd/resp"
	"github.com/harfangapps/respd/store"
)

func req(args ...string) []resp.Frame {
	out := make([]resp.Frame, len(args))
	for i, a := range args {
		out[i] = resp.BulkStringFromString(a)
	}
	return out
}

func TestDispatchUnrecognizedCommandIsNoOp(t *testing.T) {
	s := store.New()
	got, err := Dispatch(req("frobnicate", "x"), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, resp.SimpleString("OK")) {
		t.Errorf("expected OK, got %#v", got)
	}
}

func TestDispatchEmptyRequest(t *testing.T) {
	s := store.New()
	got, err := Dispatch(nil, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != resp.TypeSimpleError {
		t.Errorf("expected a SimpleError response, got %#v", got)
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	s := store.New()

	got, err := Dispatch(req("get", "missing"), s)
	if err != nil || !got.IsNull() {
		t.Fatalf("expected Null for missing key, got %#v, %v", got, err)
	}

	got, err = Dispatch(req("set", "k", "v"), s)
	if err != nil || !reflect.DeepEqual(got, resp.SimpleString("OK")) {
		t.Fatalf("expected OK, got %#v, %v", got, err)
	}

	got, err = Dispatch(req("get", "k"), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got.Bulk) != "v" {
		t.Errorf("expected %q, got %q", "v", got.Bulk)
	}
}

func TestGetWrongArity(t *testing.T) {
	s := store.New()
	got, err := Dispatch(req("get"), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != resp.TypeSimpleError {
		t.Errorf("expected a SimpleError response, got %#v", got)
	}
}

func TestHashCommands(t *testing.T) {
	s := store.New()

	if _, err := Dispatch(req("hset", "h", "f1", "v1"), s); err != nil {
		t.Fatal(err)
	}
	if _, err := Dispatch(req("hset", "h", "f2", "v2"), s); err != nil {
		t.Fatal(err)
	}

	got, err := Dispatch(req("hget", "h", "f1"), s)
	if err != nil || string(got.Bulk) != "v1" {
		t.Fatalf("expected v1, got %#v, %v", got, err)
	}

	got, err = Dispatch(req("hmget", "h", "f1", "missing", "f2"), s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Array) != 3 || !got.Array[1].IsNull() {
		t.Errorf("unexpected hmget result: %#v", got)
	}

	got, err = Dispatch(req("hgetall", "h"), s)
	if err != nil {
		t.Fatal(err)
	}
	want := resp.Array([]resp.Frame{
		resp.BulkStringFromString("f1"), resp.BulkStringFromString("v1"),
		resp.BulkStringFromString("f2"), resp.BulkStringFromString("v2"),
	})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}

	got, err = Dispatch(req("hexists", "h", "f1"), s)
	if err != nil || !got.Bool {
		t.Fatalf("expected true, got %#v, %v", got, err)
	}

	got, err = Dispatch(req("hdel", "h", "f1", "nope"), s)
	if err != nil || got.Int != 1 {
		t.Fatalf("expected 1 removed, got %#v, %v", got, err)
	}
}

func TestSetCommands(t *testing.T) {
	s := store.New()

	got, err := Dispatch(req("sadd", "s", "a", "b", "a"), s)
	if err != nil || got.Int != 2 {
		t.Fatalf("expected 2 added, got %#v, %v", got, err)
	}

	got, err = Dispatch(req("sismember", "s", "a"), s)
	if err != nil || got.Int != 1 {
		t.Fatalf("expected 1, got %#v, %v", got, err)
	}

	got, err = Dispatch(req("sismember", "s", "z"), s)
	if err != nil || got.Int != 0 {
		t.Fatalf("expected 0, got %#v, %v", got, err)
	}
}

func TestKeysAndDelCommands(t *testing.T) {
	s := store.New()
	Dispatch(req("set", "a", "1"), s)
	Dispatch(req("set", "b", "2"), s)

	got, err := Dispatch(req("keys"), s)
	if err != nil {
		t.Fatal(err)
	}
	want := resp.Array([]resp.Frame{resp.BulkStringFromString("a"), resp.BulkStringFromString("b")})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}

	got, err = Dispatch(req("del", "a", "missing"), s)
	if err != nil || got.Int != 1 {
		t.Fatalf("expected 1 removed, got %#v, %v", got, err)
	}
}

func TestPingAndEcho(t *testing.T) {
	s := store.New()

	got, err := Dispatch(req("ping"), s)
	if err != nil || !reflect.DeepEqual(got, resp.SimpleString("PONG")) {
		t.Fatalf("expected PONG, got %#v, %v", got, err)
	}

	got, err = Dispatch(req("echo", "hello"), s)
	if err != nil || string(got.Bulk) != "hello" {
		t.Fatalf("expected echo of hello, got %#v, %v", got, err)
	}
}

func TestCommandNamesAreCaseInsensitive(t *testing.T) {
	s := store.New()
	got, err := Dispatch(req("PING"), s)
	if err != nil || !reflect.DeepEqual(got, resp.SimpleString("PONG")) {
		t.Fatalf("expected PONG, got %#v, %v", got, err)
	}
}
