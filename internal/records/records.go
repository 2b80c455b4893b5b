// Package records resolves the configured record source and holds the
// record set the service currently answers from.
package records

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/OFFIS-RIT/letternet/internal/storage"
	"github.com/OFFIS-RIT/letternet/internal/util"
	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/loader"
	csvloader "github.com/OFFIS-RIT/letternet/pkg/loader/csv"
	"github.com/OFFIS-RIT/letternet/pkg/loader/excel"
	ioloader "github.com/OFFIS-RIT/letternet/pkg/loader/io"
	s3loader "github.com/OFFIS-RIT/letternet/pkg/loader/s3"
	"github.com/OFFIS-RIT/letternet/pkg/loader/tei"
	"github.com/OFFIS-RIT/letternet/pkg/logger"
)

var (
	ErrNoSource  = errors.New("no record source configured")
	ErrNotLoaded = errors.New("record set not loaded")
)

// location splits a RECORDS_SOURCE value into scheme and path. Plain paths
// are files.
func location(source string) (string, string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", "", ErrNoSource
	}
	scheme, rest, ok := strings.Cut(source, "://")
	if !ok {
		return "file", source, nil
	}
	switch scheme {
	case "file", "s3":
	default:
		return "", "", fmt.Errorf("unsupported record source scheme %q", scheme)
	}
	if rest == "" {
		return "", "", fmt.Errorf("record source %q has no path", source)
	}
	return scheme, rest, nil
}

// ParserFor picks the document parser by file extension.
func ParserFor(path string) loader.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvloader.Parse
	case ".xlsx":
		return excel.Parse
	default:
		return tei.Parse
	}
}

// Resolve turns a source such as "file:///data/letters.xml",
// "/data/letters/" or "s3://letters.xml" into a document source. Paths
// ending in ".csv" or ".xlsx" are parsed as catalogue exports, everything
// else as TEI.
// S3 keys are read from the AWS_BUCKET bucket.
func Resolve(ctx context.Context, source string) (loader.RecordSource, error) {
	scheme, path, err := location(source)
	if err != nil {
		return nil, err
	}

	src := loader.DocumentSource{Path: path, Scheme: scheme, Parse: ParserFor(path)}
	switch scheme {
	case "s3":
		client, err := storage.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		src.Loader = s3loader.NewS3DocumentLoaderWithClient(storage.Bucket(), client)
	default:
		src.Loader = ioloader.NewIODocumentLoader()
	}
	return src, nil
}

// Store holds the current record set. Readers never block: a reload builds
// a complete new set and swaps it in, so a request keeps the set it
// started with.
type Store struct {
	source loader.RecordSource
	retry  util.RetryOptions

	current atomic.Pointer[common.RecordSet]
	mu      sync.Mutex

	listenersMu sync.RWMutex
	listeners   []func(*common.RecordSet)
}

// NewStore creates an empty store. Call Reload to load the first set.
func NewStore(source loader.RecordSource, retry util.RetryOptions) *Store {
	return &Store{source: source, retry: retry}
}

// Source names the underlying record source.
func (s *Store) Source() string {
	return s.source.Name()
}

// Current returns the loaded record set, or ErrNotLoaded.
func (s *Store) Current() (*common.RecordSet, error) {
	set := s.current.Load()
	if set == nil {
		return nil, ErrNotLoaded
	}
	return set, nil
}

// OnReload registers fn to run after every successful reload.
func (s *Store) OnReload(fn func(*common.RecordSet)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload loads the source again and swaps in the new set. Concurrent
// reloads are serialized. On failure the previous set stays current.
func (s *Store) Reload(ctx context.Context) (*common.RecordSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := util.RetryWithContext(ctx, s.retry, func(ctx context.Context) (*common.RecordSet, error) {
		set, err := loader.Open(ctx, s.source)
		if err != nil {
			logger.Warn("[Records] Load attempt failed", "source", s.source.Name(), "err", err)
		}
		return set, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load records from %s: %w", s.source.Name(), err)
	}

	previous := s.current.Swap(set)
	if previous != nil {
		logger.Info("[Records] Record set replaced", "previous", previous.Version(), "version", set.Version(), "records", set.Len())
	}

	s.listenersMu.RLock()
	listeners := append([]func(*common.RecordSet){}, s.listeners...)
	s.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(set)
	}
	return set, nil
}
