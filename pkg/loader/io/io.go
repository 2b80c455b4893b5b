package io

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/letternet/pkg/logger"

	"golang.org/x/sync/singleflight"
)

type cachedDocument struct {
	stamp string
	data  []byte
}

// IODocumentLoader loads documents from the local filesystem with caching.
// Cached bytes are reused only while the file's size and modification time
// are unchanged, so a rewritten file is read again.
type IODocumentLoader struct {
	cache   map[string]cachedDocument
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIODocumentLoader creates a new filesystem-based document loader.
func NewIODocumentLoader() *IODocumentLoader {
	return &IODocumentLoader{
		cache: make(map[string]cachedDocument),
	}
}

func (l *IODocumentLoader) cached(path, stamp string) ([]byte, bool) {
	l.cacheMu.RLock()
	defer l.cacheMu.RUnlock()
	doc, ok := l.cache[path]
	if !ok || doc.stamp != stamp {
		return nil, false
	}
	return doc.data, true
}

// GetDocument reads the file at path.
func (l *IODocumentLoader) GetDocument(ctx context.Context, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	stamp := fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano())

	if data, ok := l.cached(path, stamp); ok {
		logger.Debug("[Loader] Document cache hit", "path", path)
		return data, nil
	}

	result, err, _ := l.group.Do(path+"@"+stamp, func() (any, error) {
		if data, ok := l.cached(path, stamp); ok {
			return data, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[path] = cachedDocument{stamp: stamp, data: data}
		l.cacheMu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// ListDocuments returns the XML files directly inside dir, sorted by name.
func (l *IODocumentLoader) ListDocuments(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
