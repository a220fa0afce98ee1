// Package store implements the process-wide, concurrency-safe state
// shared by every connection: top-level string keys, per-key hash
// maps, and per-key sets.
//
// There is no global mutex: the key space is split into a fixed
// number of shards, each independently locked, so operations on
// distinct keys never block each other.
package store

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/harfangapps/respd/resp"
)

// shardCount is the number of independently locked buckets the key
// space is split into. A power of two keeps the modulo a mask in
// spirit, though readability is preferred over the bit trick here.
const shardCount = 32

type shard struct {
	mu      sync.RWMutex
	strings map[string]resp.Frame
	hashes  map[string]map[string]resp.Frame
	sets    map[string]map[string]resp.Frame // member's encoded bytes -> member
}

// Store is the shared key/value/hash/set state. The zero value is not
// usable; construct one with New.
type Store struct {
	shards [shardCount]*shard
}

// New returns an empty Store.
func New() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &shard{
			strings: make(map[string]resp.Frame),
			hashes:  make(map[string]map[string]resp.Frame),
			sets:    make(map[string]map[string]resp.Frame),
		}
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key)) // fnv.Write never returns an error
	return s.shards[h.Sum32()%shardCount]
}

// Get returns the value stored at key, if any.
func (s *Store) Get(key string) (resp.Frame, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	f, ok := sh.strings[key]
	return f, ok
}

// Set overwrites the value stored at key.
func (s *Store) Set(key string, val resp.Frame) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.strings[key] = val
}

// HGet returns the value of field in the hash map at key, if any.
func (s *Store) HGet(key, field string) (resp.Frame, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	m, ok := sh.hashes[key]
	if !ok {
		return resp.Frame{}, false
	}
	f, ok := m[field]
	return f, ok
}

// HSet inserts or overwrites field in the hash map at key.
func (s *Store) HSet(key, field string, val resp.Frame) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	m, ok := sh.hashes[key]
	if !ok {
		m = make(map[string]resp.Frame)
		sh.hashes[key] = m
	}
	m[field] = val
}

// HMGet returns one Frame per requested field, in the order given.
// A missing field or a missing key yields resp.Null() for that slot.
func (s *Store) HMGet(key string, fields []string) []resp.Frame {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	m := sh.hashes[key]

	out := make([]resp.Frame, len(fields))
	for i, f := range fields {
		if v, ok := m[f]; ok {
			out[i] = v
		} else {
			out[i] = resp.Null()
		}
	}
	return out
}

// HGetAll returns every (field, value) pair of the hash map at key,
// sorted by field name. A missing key yields an empty slice.
func (s *Store) HGetAll(key string) []resp.Pair {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	m := sh.hashes[key]

	out := make([]resp.Pair, 0, len(m))
	for k, v := range m {
		out = append(out, resp.Pair{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// HDel removes the given fields from the hash map at key and reports
// how many were actually present. The key itself is pruned once its
// hash map becomes empty.
func (s *Store) HDel(key string, fields []string) int {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	m, ok := sh.hashes[key]
	if !ok {
		return 0
	}

	n := 0
	for _, f := range fields {
		if _, ok := m[f]; ok {
			delete(m, f)
			n++
		}
	}
	if len(m) == 0 {
		delete(sh.hashes, key)
	}
	return n
}

// HExists reports whether field exists in the hash map at key.
func (s *Store) HExists(key, field string) bool {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	m, ok := sh.hashes[key]
	if !ok {
		return false
	}
	_, ok = m[field]
	return ok
}

// SAdd inserts members into the set at key and reports how many were
// not already present. Membership is decided on the member's encoded
// wire form, matching resp.Set's own dedup rule.
func (s *Store) SAdd(key string, members []resp.Frame) int {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	m, ok := sh.sets[key]
	if !ok {
		m = make(map[string]resp.Frame)
		sh.sets[key] = m
	}

	added := 0
	for _, mem := range members {
		k := string(resp.Encode(mem))
		if _, ok := m[k]; ok {
			continue
		}
		m[k] = mem
		added++
	}
	return added
}

// SIsMember reports whether member is present in the set at key.
func (s *Store) SIsMember(key string, member resp.Frame) bool {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	m, ok := sh.sets[key]
	if !ok {
		return false
	}
	_, ok = m[string(resp.Encode(member))]
	return ok
}

// Keys returns every top-level key currently holding a string, hash
// map, or set value, sorted.
func (s *Store) Keys() []string {
	var out []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		for k := range sh.strings {
			out = append(out, k)
		}
		for k := range sh.hashes {
			out = append(out, k)
		}
		for k := range sh.sets {
			out = append(out, k)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(out)
	return out
}

// Del removes the given top-level keys, whichever family (string,
// hash map, or set) each one belongs to, and reports how many of them
// actually existed.
func (s *Store) Del(keys []string) int {
	n := 0
	for _, key := range keys {
		sh := s.shardFor(key)
		sh.mu.Lock()
		existed := false
		if _, ok := sh.strings[key]; ok {
			delete(sh.strings, key)
			existed = true
		}
		if _, ok := sh.hashes[key]; ok {
			delete(sh.hashes, key)
			existed = true
		}
		if _, ok := sh.sets[key]; ok {
			delete(sh.sets, key)
			existed = true
		}
		sh.mu.Unlock()
		if existed {
			n++
		}
	}
	return n
}
