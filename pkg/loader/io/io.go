// Package io implements a filesystem-backed SourceFileLoader with
// in-memory caching.
package io

import (
	"context"
	"os"
	"sync"

	"vanshavali/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IOSourceFileLoader loads files directly from the local filesystem with caching.
type IOSourceFileLoader struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIOSourceFileLoader creates a new filesystem-based file loader.
func NewIOSourceFileLoader() *IOSourceFileLoader {
	return &IOSourceFileLoader{
		cache: make(map[string][]byte),
	}
}

// GetFileText reads the file content from the filesystem. Results are cached.
func (l *IOSourceFileLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		result, err := os.ReadFile(file.FilePath)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// Evict drops a file's cached content, for one-shot sources that will
// never be re-read.
func (l *IOSourceFileLoader) Evict(file loader.SourceFile) {
	l.cacheMu.Lock()
	delete(l.cache, loader.CacheKey(file))
	l.cacheMu.Unlock()
}
