// SPDX-License-Identifier: GPL-2.0-or-later

// Package cache keeps recently decoded levels around. Levels are immutable so
// all callers share the same value.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"q3level/bsp"
	"q3level/filesystem"
)

type call struct {
	done  chan struct{}
	level *bsp.Level
	err   error
}

type Levels struct {
	src filesystem.Archive
	log bsp.Logger
	lru *lru.Cache[string, *bsp.Level]

	mutex   sync.Mutex
	loading map[string]*call
}

// New returns a cache holding up to size levels read from src.
func New(src filesystem.Archive, log bsp.Logger, size int) (*Levels, error) {
	c, err := lru.New[string, *bsp.Level](size)
	if err != nil {
		return nil, err
	}
	return &Levels{
		src:     src,
		log:     log,
		lru:     c,
		loading: make(map[string]*call),
	}, nil
}

// Get returns the level called name, decoding it if it is not cached yet.
// Concurrent requests for the same level wait for a single decode. Failed
// decodes are not cached.
func (c *Levels) Get(name string) (*bsp.Level, error) {
	if l, ok := c.lru.Get(name); ok {
		return l, nil
	}
	c.mutex.Lock()
	if cl, ok := c.loading[name]; ok {
		c.mutex.Unlock()
		<-cl.done
		return cl.level, cl.err
	}
	// it might have been added while waiting for the lock
	if l, ok := c.lru.Get(name); ok {
		c.mutex.Unlock()
		return l, nil
	}
	cl := &call{done: make(chan struct{})}
	c.loading[name] = cl
	c.mutex.Unlock()

	cl.level, cl.err = bsp.Decode(name, c.src, c.log)
	if cl.err == nil {
		c.lru.Add(name, cl.level)
	}

	c.mutex.Lock()
	delete(c.loading, name)
	c.mutex.Unlock()
	close(cl.done)
	return cl.level, cl.err
}

// Contains reports whether name is cached without touching its recency.
func (c *Levels) Contains(name string) bool {
	return c.lru.Contains(name)
}

func (c *Levels) Len() int {
	return c.lru.Len()
}

func (c *Levels) Purge() {
	c.lru.Purge()
}
