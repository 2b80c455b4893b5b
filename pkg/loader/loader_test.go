package loader

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/letternet/pkg/common"
)

type memoryLoader struct {
	docs  map[string]string
	calls int
}

func (m *memoryLoader) GetDocument(_ context.Context, path string) ([]byte, error) {
	m.calls++
	doc, ok := m.docs[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(doc), nil
}

type listingLoader struct {
	memoryLoader
}

func (l *listingLoader) ListDocuments(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for _, k := range []string{"letters/a.xml", "letters/b.xml", "other/c.xml"} {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

// lines parses one sender per line.
func lines(data []byte) ([]common.Record, error) {
	if len(data) == 0 {
		return nil, errors.New("empty document")
	}
	var out []common.Record
	for _, l := range strings.Split(string(data), "\n") {
		out = append(out, common.Record{SenderName: l})
	}
	return out, nil
}

func senders(records []common.Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.SenderName)
	}
	return out
}

func TestDocumentSourceSingle(t *testing.T) {
	src := DocumentSource{
		Path:   "letters.xml",
		Scheme: "file",
		Loader: &memoryLoader{docs: map[string]string{"letters.xml": "A\nB"}},
		Parse:  lines,
	}
	if src.Name() != "file://letters.xml" {
		t.Fatalf("Name() = %q", src.Name())
	}
	records, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := senders(records); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("senders = %v", got)
	}
}

func TestDocumentSourceCollection(t *testing.T) {
	l := &listingLoader{memoryLoader{docs: map[string]string{
		"letters/a.xml": "A",
		"letters/b.xml": "B\nC",
		"other/c.xml":   "X",
	}}}
	src := DocumentSource{Path: "letters/", Loader: l, Parse: lines}

	records, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := senders(records); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("senders = %v", got)
	}
}

func TestDocumentSourceErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		src  DocumentSource
		want string
	}{
		{"missing document", DocumentSource{Path: "x.xml", Loader: &memoryLoader{}, Parse: lines}, "failed to fetch"},
		{"parse failure", DocumentSource{Path: "x.xml", Loader: &memoryLoader{docs: map[string]string{"x.xml": ""}}, Parse: lines}, "failed to parse"},
		{"collection without lister", DocumentSource{Path: "dir/", Loader: &memoryLoader{}, Parse: lines}, "cannot list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.src.Load(ctx)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	src := Static{Label: "memory", Records: []common.Record{{Shelfmark: "1"}, {Shelfmark: "2"}}}
	set, err := Open(context.Background(), src)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if set.Len() != 2 || set.Source() != "memory" || set.Version() == "" {
		t.Fatalf("unexpected record set: len=%d source=%q version=%q", set.Len(), set.Source(), set.Version())
	}

	src.Records[0].Shelfmark = "changed"
	if r, _ := set.ByShelfmark("1"); r.Shelfmark != "1" {
		t.Fatal("record set shares memory with its source")
	}
}
