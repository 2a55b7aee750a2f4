package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"

	"github.com/google/uuid"

	"imageIngestor/internal/models"
	"imageIngestor/internal/storage/fs"
)

// IngestLocal stores every file part of a multipart stream. A part with an
// empty filename ends the batch; a part without a filename parameter fails it.
func (s *Service) IngestLocal(ctx context.Context, mr *multipart.Reader) (*models.IngestionResult, error) {
	const op = "ingest.IngestLocal"

	batchID := uuid.New()
	log := s.log.With(
		slog.String("op", op),
		slog.String("batch_id", batchID.String()),
	)

	result := models.NewIngestionResult()
	var events []models.IngestedEvent

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidPart, err)
		}

		filename, ok := partFileName(part)
		if !ok {
			_ = part.Close()
			return nil, fmt.Errorf("%s: %w: part %q has no filename", op, ErrInvalidPart, part.FormName())
		}
		if filename == "" {
			_ = part.Close()
			break
		}

		name, err := s.names.Local(filename)
		if err != nil {
			_ = part.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		sizes, err := s.storePart(ctx, part, name)
		_ = part.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("image ingested",
			slog.String("name", name),
			slog.Int64("full", sizes.Full),
			slog.Int64("thumb", sizes.Thumb),
		)

		result.Add(name, sizes)
		events = append(events, s.newEvent(batchID, models.SourceLocal, name, "", sizes))
	}

	s.publish(ctx, log, events)

	return result, nil
}

// storePart streams the part to full-size storage while keeping a copy in
// memory for the thumbnail. The full-size file becomes visible only after its
// thumbnail is stored.
func (s *Service) storePart(ctx context.Context, part io.Reader, name string) (models.ImageSizes, error) {
	const op = "ingest.storePart"

	dst, err := s.storage.Create(fs.KindFull, name)
	if err != nil {
		return models.ImageSizes{}, fmt.Errorf("%s: %w: %w", op, ErrIO, err)
	}
	defer dst.Close()

	src := part
	if s.cfg.MaxUploadSize > 0 {
		src = io.LimitReader(part, s.cfg.MaxUploadSize+1)
	}

	var buf bytes.Buffer

	full, err := io.Copy(io.MultiWriter(dst, &buf), src)
	if err != nil {
		return models.ImageSizes{}, fmt.Errorf("%s: %w: %w", op, ErrIO, err)
	}
	if s.cfg.MaxUploadSize > 0 && full > s.cfg.MaxUploadSize {
		return models.ImageSizes{}, fmt.Errorf("%s: %w: %q is larger than %d bytes", op, ErrTooLarge, name, s.cfg.MaxUploadSize)
	}

	thumb, err := s.thumbs.Generate(ctx, buf.Bytes(), name)
	if err != nil {
		return models.ImageSizes{}, thumbnailError(op, err)
	}

	if err = dst.Commit(); err != nil {
		s.discardThumb(s.log.With(slog.String("op", op)), name)
		return models.ImageSizes{}, fmt.Errorf("%s: %w: %w", op, ErrIO, err)
	}

	return models.ImageSizes{Full: full, Thumb: thumb}, nil
}

// partFileName reports the raw filename parameter of the part's
// Content-Disposition and whether it was present at all.
func partFileName(part *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return "", false
	}

	filename, ok := params["filename"]

	return filename, ok
}
