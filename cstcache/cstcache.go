// Package cstcache binary-serializes a parsed cst.Node tree to bytes and
// back, so a caller re-parsing an otherwise-unchanged file can skip the
// grammar engine entirely. It is a natural extension of the CST's
// ownership model ("the tree can be freed by
// dropping the root") and a home for github.com/dekarrin/rezi, which the
// teacher already depends on for binary-marshaling tree-shaped domain data
// (server/dao/sqlite's *game.State round-trip) — see SPEC_FULL.md, "Domain
// stack".
package cstcache

import (
	"fmt"
	"os"
	"sync"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/gofortran/cst"
)

// Entry is one cached parse result, keyed by the caller on whatever
// identifies the source (a file path, a content hash).
type Entry struct {
	// Size is the source length in bytes at the time this entry was
	// cached, used by callers as a cheap staleness check before trusting a
	// hit.
	Size int64

	// Tree is the cached CST.
	Tree *cst.Node
}

// Cache is an in-memory, concurrency-safe map from key to cached parse
// result. It carries no eviction policy; callers needing bounded memory
// should wrap it or cap the keys they insert.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get returns the cached entry for key, if one was ever put there.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put records tree as the cached parse result for key.
func (c *Cache) Put(key string, size int64, tree *cst.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Size: size, Tree: tree}
}

// Delete removes key's cached entry, if any.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Encode binary-serializes tree via rezi, the same EncBinary call the
// teacher's dao/sqlite layer uses for a *game.State.
func Encode(tree *cst.Node) []byte {
	return rezi.EncBinary(tree)
}

// Decode reverses Encode into a freshly allocated *cst.Node.
func Decode(data []byte) (*cst.Node, error) {
	tree := &cst.Node{}
	n, err := rezi.DecBinary(data, tree)
	if err != nil {
		return nil, fmt.Errorf("cstcache: decoding: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("cstcache: decoded %d of %d bytes, trailing data present", n, len(data))
	}
	return tree, nil
}

// SaveFile encodes tree and writes it to path, for a CLI front end that
// wants to persist a cache across process runs.
func SaveFile(path string, tree *cst.Node) error {
	return os.WriteFile(path, Encode(tree), 0o644)
}

// LoadFile reads and decodes a tree previously written by SaveFile.
func LoadFile(path string) (*cst.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cstcache: %w", err)
	}
	return Decode(data)
}
