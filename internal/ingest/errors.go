package ingest

import (
	"context"
	"errors"
	"fmt"

	"imageIngestor/internal/thumbnail"
)

// Any of these aborts the whole batch; callers get no partial result.
var (
	ErrInvalidPart = errors.New("invalid multipart part")
	ErrImageDecode = errors.New("image cannot be decoded")
	ErrIO          = errors.New("storage i/o failure")
	ErrFetch       = errors.New("failed to fetch remote image")
	ErrTooLarge    = errors.New("image exceeds size limit")
)

// thumbnailError maps a thumbnail failure onto the ingestion taxonomy.
func thumbnailError(op string, err error) error {
	switch {
	case errors.Is(err, thumbnail.ErrDecode):
		return fmt.Errorf("%s: %w: %w", op, ErrImageDecode, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
	}
}
