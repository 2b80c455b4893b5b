package s3

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/letternet/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"
)

type cachedDocument struct {
	etag string
	data []byte
}

// S3DocumentLoader loads documents from an S3 bucket. A cached document is
// reused while its ETag is unchanged.
type S3DocumentLoader struct {
	bucket string
	client *s3.Client

	cache   map[string]cachedDocument
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3DocumentLoaderWithClient creates a loader that reuses an existing
// client.
func NewS3DocumentLoaderWithClient(bucket string, client *s3.Client) *S3DocumentLoader {
	return &S3DocumentLoader{
		bucket: bucket,
		client: client,
		cache:  make(map[string]cachedDocument),
	}
}

// NewS3DocumentLoaderParams configures NewS3DocumentLoader. Endpoint
// overrides the S3 endpoint for S3-compatible storage such as MinIO.
type NewS3DocumentLoaderParams struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3DocumentLoader creates a loader with a client built from static
// credentials.
func NewS3DocumentLoader(ctx context.Context, params NewS3DocumentLoaderParams) (*S3DocumentLoader, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(params.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	}
	if params.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(params.Endpoint))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return NewS3DocumentLoaderWithClient(params.Bucket, client), nil
}

func (l *S3DocumentLoader) cached(key, etag string) ([]byte, bool) {
	l.cacheMu.RLock()
	defer l.cacheMu.RUnlock()
	doc, ok := l.cache[key]
	if !ok || etag == "" || doc.etag != etag {
		return nil, false
	}
	return doc.data, true
}

// GetDocument downloads the object stored under key.
func (l *S3DocumentLoader) GetDocument(ctx context.Context, key string) ([]byte, error) {
	head, err := l.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	etag := aws.ToString(head.ETag)

	if data, ok := l.cached(key, etag); ok {
		logger.Debug("[Loader] Document cache hit", "key", key, "etag", etag)
		return data, nil
	}

	result, err, _ := l.group.Do(key+"@"+etag, func() (any, error) {
		if data, ok := l.cached(key, etag); ok {
			return data, nil
		}

		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}
		data := buf.Bytes()

		l.cacheMu.Lock()
		l.cache[key] = cachedDocument{etag: aws.ToString(out.ETag), data: data}
		l.cacheMu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// ListDocuments returns the XML object keys below prefix, sorted.
func (l *S3DocumentLoader) ListDocuments(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(l.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.EqualFold(path.Ext(key), ".xml") {
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}
