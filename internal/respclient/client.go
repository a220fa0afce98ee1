// Package respclient is a thin RESP client used by integration tests
// to exercise server.Server over a real TCP connection, the way a
// genuine Redis client would. It wraps a github.com/gomodule/redigo
// connection pool, following the pool.Get/conn.Do idiom used
// throughout the retrieved corpus's own redis-backed cache.
//
// It is deliberately scoped to the part of the command surface whose
// replies a strict RESP2 client can read. This server's codec has
// three reply forms redigo does not parse: Integer replies carry an
// explicit '+' sign for non-negative values, misses are reported as
// the RESP3 null (`_\r\n`), and HEXISTS replies with a RESP3 boolean
// (`#t`/`#f`). Commands producing any of those (SADD, SISMEMBER, DEL,
// HEXISTS, and any lookup expected to miss), along with the
// Array-returning ones (this server's Array encoding appends a
// trailing CRLF no element owns), are exercised at the raw byte level
// in the server package tests instead.
package respclient

import (
	"time"

	"github.com/gomodule/redigo/redis"
)

// Client is a pooled connection to a respd server.
type Client struct {
	pool *redis.Pool
}

// Dial returns a Client connected to addr (host:port).
func Dial(addr string) *Client {
	return &Client{
		pool: &redis.Pool{
			MaxIdle:     4,
			IdleTimeout: 30 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", addr)
			},
		},
	}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.pool.Close()
}

// Ping sends PING and returns the server's reply.
func (c *Client) Ping() (string, error) {
	conn := c.pool.Get()
	defer conn.Close()
	return redis.String(conn.Do("PING"))
}

// Echo sends ECHO message and returns the server's reply.
func (c *Client) Echo(message string) (string, error) {
	conn := c.pool.Get()
	defer conn.Close()
	return redis.String(conn.Do("ECHO", message))
}

// Get returns the string value of key. The key must be set: a miss is
// reported by this server as a RESP3 null, which the underlying RESP2
// connection treats as a protocol error.
func (c *Client) Get(key string) (string, error) {
	conn := c.pool.Get()
	defer conn.Close()
	return redis.String(conn.Do("GET", key))
}

// Set overwrites key's value.
func (c *Client) Set(key, value string) error {
	conn := c.pool.Get()
	defer conn.Close()
	_, err := conn.Do("SET", key, value)
	return err
}

// HGet returns the value of field in the hash map at key. Like Get,
// the field must be set.
func (c *Client) HGet(key, field string) (string, error) {
	conn := c.pool.Get()
	defer conn.Close()
	return redis.String(conn.Do("HGET", key, field))
}

// HSet inserts or overwrites field in the hash map at key.
func (c *Client) HSet(key, field, value string) error {
	conn := c.pool.Get()
	defer conn.Close()
	_, err := conn.Do("HSET", key, field, value)
	return err
}
