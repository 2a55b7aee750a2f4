package ingest_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"imageIngestor/internal/ingest"
	"imageIngestor/internal/lib/logger/handlers/slogdiscard"
	"imageIngestor/internal/storage/fs"
	"imageIngestor/internal/thumbnail"
)

type testEnv struct {
	storage *fs.Storage
	cfg     fs.Config
	thumbs  *thumbnail.Generator
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	cfg := fs.Config{
		FullDir:  filepath.Join(root, "fullsize"),
		ThumbDir: filepath.Join(root, "thumbnail"),
	}

	storage, err := fs.New(cfg)
	require.NoError(t, err)

	return &testEnv{
		storage: storage,
		cfg:     cfg,
		thumbs:  thumbnail.New(slogdiscard.NewDiscardLogger(), storage, thumbnail.Config{}),
	}
}

func (e *testEnv) service(cfg ingest.Config, opts ...ingest.Option) *ingest.Service {
	return ingest.New(slogdiscard.NewDiscardLogger(), e.storage, e.thumbs, cfg, opts...)
}

func (e *testEnv) fileSize(t *testing.T, kind fs.Kind, name string) int64 {
	t.Helper()

	size, err := e.storage.Size(kind, name)
	require.NoError(t, err)

	return size
}

func (e *testEnv) requireEmpty(t *testing.T) {
	t.Helper()

	for _, dir := range []string{e.cfg.FullDir, e.cfg.ThumbDir} {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries, dir)
	}
}

type filePart struct {
	field      string
	filename   string
	noFilename bool
	data       []byte
}

func multipartBody(t *testing.T, parts ...filePart) ([]byte, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, p := range parts {
		field := p.field
		if field == "" {
			field = "image"
		}

		var (
			part io.Writer
			err  error
		)
		if p.noFilename {
			part, err = writer.CreateFormField(field)
		} else {
			part, err = writer.CreateFormFile(field, p.filename)
		}
		require.NoError(t, err)

		_, err = part.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return body.Bytes(), writer.Boundary()
}

func multipartReader(t *testing.T, parts ...filePart) *multipart.Reader {
	t.Helper()

	body, boundary := multipartBody(t, parts...)

	return multipart.NewReader(bytes.NewReader(body), boundary)
}

// brokenReader fails once limit bytes have been read.
type brokenReader struct {
	r     io.Reader
	limit int
}

func (b *brokenReader) Read(p []byte) (int, error) {
	if b.limit <= 0 {
		return 0, errors.New("connection reset by peer")
	}
	if len(p) > b.limit {
		p = p[:b.limit]
	}

	n, err := b.r.Read(p)
	b.limit -= n

	return n, err
}

type seqTokens struct {
	mu sync.Mutex
	n  int
}

func (s *seqTokens) NextToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.n++

	return fmt.Sprintf("token%04d", s.n)
}
