// Package upload holds what the upload handlers share.
package upload

import (
	"context"
	"errors"
	"net/http"

	"imageIngestor/internal/ingest"
)

// ErrorStatus maps an ingestion failure to an HTTP status and a client
// facing message.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ingest.ErrInvalidPart):
		return http.StatusBadRequest, "invalid multipart part"
	case errors.Is(err, ingest.ErrImageDecode):
		return http.StatusUnprocessableEntity, "image cannot be decoded"
	case errors.Is(err, ingest.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "image exceeds size limit"
	case errors.Is(err, ingest.ErrFetch):
		return http.StatusBadGateway, "failed to fetch remote image"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "ingestion timed out"
	default:
		return http.StatusInternalServerError, "failed to store image"
	}
}
