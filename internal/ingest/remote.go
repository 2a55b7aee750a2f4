package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"imageIngestor/internal/models"
	"imageIngestor/internal/storage/fs"
)

// IngestRemote fetches and stores the images behind urls, stopping at the
// first empty string. Every fetch must succeed before anything is stored, and
// results keep the order of urls.
func (s *Service) IngestRemote(ctx context.Context, urls []string) (*models.IngestionResult, error) {
	const op = "ingest.IngestRemote"

	batchID := uuid.New()
	log := s.log.With(
		slog.String("op", op),
		slog.String("batch_id", batchID.String()),
	)

	pending := urls
	for i, u := range urls {
		if u == "" {
			pending = urls[:i]
			break
		}
	}

	bodies := make([][]byte, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchConcurrency)

	for i, u := range pending {
		g.Go(func() error {
			data, err := s.fetch(gctx, u)
			if err != nil {
				return err
			}
			bodies[i] = data

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := models.NewIngestionResult()
	events := make([]models.IngestedEvent, 0, len(pending))

	for i, u := range pending {
		name := s.names.Remote(u)

		sizes, err := s.storeRemote(ctx, bodies[i], name)
		bodies[i] = nil
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("image ingested",
			slog.String("name", name),
			slog.String("url", u),
			slog.Int64("full", sizes.Full),
			slog.Int64("thumb", sizes.Thumb),
		)

		result.Add(name, sizes)
		events = append(events, s.newEvent(batchID, models.SourceRemote, name, u, sizes))
	}

	s.publish(ctx, log, events)

	return result, nil
}

func (s *Service) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	const op = "ingest.fetch"

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetch, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s: %w: unsupported url %q", op, ErrFetch, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: %s responded %s", op, ErrFetch, rawURL, resp.Status)
	}

	var body io.Reader = resp.Body
	if s.cfg.MaxFetchSize > 0 {
		body = io.LimitReader(resp.Body, s.cfg.MaxFetchSize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetch, err)
	}
	if s.cfg.MaxFetchSize > 0 && int64(len(data)) > s.cfg.MaxFetchSize {
		return nil, fmt.Errorf("%s: %w: %s is larger than %d bytes", op, ErrTooLarge, rawURL, s.cfg.MaxFetchSize)
	}

	return data, nil
}

func (s *Service) storeRemote(ctx context.Context, data []byte, name string) (models.ImageSizes, error) {
	const op = "ingest.storeRemote"

	dst, err := s.storage.Create(fs.KindFull, name)
	if err != nil {
		return models.ImageSizes{}, fmt.Errorf("%s: %w: %w", op, ErrIO, err)
	}
	defer dst.Close()

	thumb, err := s.thumbs.Generate(ctx, data, name)
	if err != nil {
		return models.ImageSizes{}, thumbnailError(op, err)
	}

	n, err := dst.Write(data)
	if err != nil {
		return models.ImageSizes{}, fmt.Errorf("%s: %w: %w", op, ErrIO, err)
	}

	if err = dst.Commit(); err != nil {
		s.discardThumb(s.log.With(slog.String("op", op)), name)
		return models.ImageSizes{}, fmt.Errorf("%s: %w: %w", op, ErrIO, err)
	}

	return models.ImageSizes{Full: int64(n), Thumb: thumb}, nil
}
