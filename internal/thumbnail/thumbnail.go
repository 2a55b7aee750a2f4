package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"

	"imageIngestor/internal/lib/logger/sl"
	"imageIngestor/internal/storage/fs"
)

var ErrDecode = errors.New("failed to decode image")

const (
	DefaultWidth  = 100
	DefaultHeight = 100
)

type Storage interface {
	Create(kind fs.Kind, name string) (*fs.File, error)
	Size(kind fs.Kind, name string) (int64, error)
}

type Config struct {
	Width   int
	Height  int
	Workers int
}

// Generator writes bounded-size previews of images into thumbnail storage.
// Decoding and resizing are CPU-bound, so at most Workers of them run at once
// across all requests.
type Generator struct {
	log     *slog.Logger
	storage Storage
	width   int
	height  int
	workers *semaphore.Weighted
}

func New(log *slog.Logger, storage Storage, cfg Config) *Generator {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	return &Generator{
		log:     log,
		storage: storage,
		width:   cfg.Width,
		height:  cfg.Height,
		workers: semaphore.NewWeighted(int64(cfg.Workers)),
	}
}

// Generate decodes data, fits it into the configured box without upscaling,
// stores it as the thumbnail for name and returns the stored size.
func (g *Generator) Generate(ctx context.Context, data []byte, name string) (int64, error) {
	const op = "thumbnail.Generate"

	log := g.log.With(slog.String("op", op), slog.String("name", name))

	if err := g.workers.Acquire(ctx, 1); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer g.workers.Release(1)

	_, srcFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", op, ErrDecode, err)
	}

	thumb := imaging.Fit(src, g.width, g.height, imaging.Lanczos)

	dst, err := g.storage.Create(fs.KindThumb, name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer dst.Close()

	format := outputFormat(name, srcFormat)

	if err = imaging.Encode(dst, thumb, format); err != nil {
		log.Error("failed to encode thumbnail", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = dst.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	size, err := g.storage.Size(fs.KindThumb, name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("thumbnail created",
		slog.String("format", format.String()),
		slog.Int("width", thumb.Bounds().Dx()),
		slog.Int("height", thumb.Bounds().Dy()),
		slog.Int64("size", size),
	)

	return size, nil
}

// outputFormat picks the encoding for a thumbnail: the name's extension when
// imaging can write it, then the source format, then PNG.
func outputFormat(name, srcFormat string) imaging.Format {
	if f, err := imaging.FormatFromFilename(name); err == nil {
		return f
	}
	if f, err := imaging.FormatFromExtension(srcFormat); err == nil {
		return f
	}

	return imaging.PNG
}
