package ingest

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"imageIngestor/internal/lib/random"
	"imageIngestor/internal/storage/fs"
)

const remoteTokenSize = 9

// NameResolver decides the stored filename of an image.
type NameResolver struct {
	tokens random.TokenSource
}

func NewNameResolver(tokens random.TokenSource) *NameResolver {
	if tokens == nil {
		tokens = random.Alphanumeric{Size: remoteTokenSize}
	}

	return &NameResolver{tokens: tokens}
}

// Local returns the stored name for a client supplied filename. Directory
// components are dropped the same way mime/multipart does.
func (r *NameResolver) Local(filename string) (string, error) {
	const op = "ingest.NameResolver.Local"

	name := filepath.Base(filename)
	if err := fs.ValidateName(name); err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrInvalidPart, err)
	}

	return name, nil
}

// Remote returns a fresh token, keeping the extension of the URL path if it
// has one.
func (r *NameResolver) Remote(rawURL string) string {
	name := r.tokens.NextToken()

	u, err := url.Parse(rawURL)
	if err != nil {
		return name
	}

	ext := path.Ext(u.Path)
	if len(ext) <= 1 {
		return name
	}

	withExt := name + ext
	if fs.ValidateName(withExt) != nil {
		return name
	}

	return withExt
}
