package ingest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"imageIngestor/internal/lib/logger/sl"
	"imageIngestor/internal/lib/random"
	"imageIngestor/internal/models"
	"imageIngestor/internal/storage/fs"
)

const defaultFetchConcurrency = 4

type Storage interface {
	Create(kind fs.Kind, name string) (*fs.File, error)
	Remove(kind fs.Kind, name string) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Thumbnailer
type Thumbnailer interface {
	Generate(ctx context.Context, data []byte, name string) (int64, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Notifier
type Notifier interface {
	PublishIngested(ctx context.Context, events []models.IngestedEvent) error
}

type Config struct {
	// MaxUploadSize limits a single multipart part. Zero means unlimited.
	MaxUploadSize int64
	// MaxFetchSize limits a single remote body. Zero means unlimited.
	MaxFetchSize     int64
	FetchConcurrency int
}

type Option func(s *Service)

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

func WithTokenSource(tokens random.TokenSource) Option {
	return func(s *Service) {
		s.names = NewNameResolver(tokens)
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// Service stores uploaded or fetched images together with their thumbnails.
type Service struct {
	log      *slog.Logger
	storage  Storage
	thumbs   Thumbnailer
	names    *NameResolver
	client   *http.Client
	notifier Notifier
	cfg      Config
}

func New(log *slog.Logger, storage Storage, thumbs Thumbnailer, cfg Config, opts ...Option) *Service {
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultFetchConcurrency
	}

	s := &Service{
		log:     log,
		storage: storage,
		thumbs:  thumbs,
		names:   NewNameResolver(nil),
		client:  http.DefaultClient,
		cfg:     cfg,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) newEvent(batchID uuid.UUID, source models.Source, name, url string, sizes models.ImageSizes) models.IngestedEvent {
	return models.IngestedEvent{
		BatchID:    batchID,
		Source:     source,
		Name:       name,
		URL:        url,
		Full:       sizes.Full,
		Thumb:      sizes.Thumb,
		IngestedAt: time.Now().UTC(),
	}
}

// discardThumb removes a thumbnail whose full-size file could not be stored.
func (s *Service) discardThumb(log *slog.Logger, name string) {
	if err := s.storage.Remove(fs.KindThumb, name); err != nil {
		log.Warn("failed to remove orphaned thumbnail", slog.String("name", name), sl.Err(err))
	}
}

// publish never fails the batch; the images are already stored.
func (s *Service) publish(ctx context.Context, log *slog.Logger, events []models.IngestedEvent) {
	if s.notifier == nil || len(events) == 0 {
		return
	}

	if err := s.notifier.PublishIngested(ctx, events); err != nil {
		log.Warn("failed to publish ingested events", sl.Err(err), slog.Int("count", len(events)))
	}
}
