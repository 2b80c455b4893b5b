package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/letternet/pkg/common"
	"github.com/OFFIS-RIT/letternet/pkg/logger"
)

// DocumentLoader fetches the raw bytes of a source document. Implementations
// may read from disk, object storage, or other sources.
type DocumentLoader interface {
	GetDocument(ctx context.Context, path string) ([]byte, error)
}

// Lister enumerates the documents stored below a prefix or directory.
type Lister interface {
	ListDocuments(ctx context.Context, prefix string) ([]string, error)
}

// Parser turns a source document into records.
type Parser func(data []byte) ([]common.Record, error)

// RecordSource produces the records of one corpus.
type RecordSource interface {
	// Name identifies the source in logs and record-set metadata.
	Name() string
	Load(ctx context.Context) ([]common.Record, error)
}

// DocumentSource is a RecordSource backed by documents that are fetched by
// a DocumentLoader and decoded by a Parser. A Path ending in "/" names a
// collection: every document the loader lists below it is loaded and the
// records are concatenated in listing order.
type DocumentSource struct {
	Path   string
	Loader DocumentLoader
	Parse  Parser
	// Scheme is prefixed to Path in Name, e.g. "s3" or "file".
	Scheme string
}

// Name returns the document location as scheme://path.
func (s DocumentSource) Name() string {
	if s.Scheme == "" {
		return s.Path
	}
	return s.Scheme + "://" + s.Path
}

// Load fetches and parses the document or collection.
func (s DocumentSource) Load(ctx context.Context) ([]common.Record, error) {
	if !strings.HasSuffix(s.Path, "/") {
		return s.load(ctx, s.Path)
	}

	lister, ok := s.Loader.(Lister)
	if !ok {
		return nil, fmt.Errorf("loader for %s cannot list collections", s.Name())
	}
	paths, err := lister.ListDocuments(ctx, s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.Name(), err)
	}

	var records []common.Record
	for _, p := range paths {
		part, err := s.load(ctx, p)
		if err != nil {
			return nil, err
		}
		records = append(records, part...)
	}
	return records, nil
}

func (s DocumentSource) load(ctx context.Context, path string) ([]common.Record, error) {
	data, err := s.Loader.GetDocument(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	records, err := s.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug("[Loader] Parsed document", "path", path, "records", len(records))
	return records, nil
}

// Open loads src into a new immutable record set.
func Open(ctx context.Context, src RecordSource) (*common.RecordSet, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	set, err := common.NewRecordSet(src.Name(), records)
	if err != nil {
		return nil, err
	}
	logger.Info("[Loader] Loaded records", "source", src.Name(), "records", set.Len(), "version", set.Version())
	return set, nil
}

// Static is a RecordSource over records held in memory.
type Static struct {
	Label   string
	Records []common.Record
}

func (s Static) Name() string { return s.Label }

func (s Static) Load(context.Context) ([]common.Record, error) {
	out := make([]common.Record, len(s.Records))
	copy(out, s.Records)
	return out, nil
}
