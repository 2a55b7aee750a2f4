package getImage

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"imageIngestor/internal/lib/api/response"
	"imageIngestor/internal/lib/logger/sl"
	"imageIngestor/internal/storage/fs"
)

type ImageOpener interface {
	Open(kind fs.Kind, name string) (*os.File, error)
}

// New serves a stored file of the given kind byte for byte.
// @Summary      Downloads a stored image
// @Description  /image/original/{name} returns the full-size image, /image/preview/{name} its thumbnail.
// @Tags         images
// @Produce      octet-stream
// @Param        name  path  string  true  "Image name"
// @Success      200
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /image/original/{name} [get]
// @Router       /image/preview/{name} [get]
func New(log *slog.Logger, opener ImageOpener, kind fs.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.getImage.New"

		log := log.With(
			slog.String("op", op),
			slog.String("kind", kind.String()),
		)

		name := chi.URLParam(r, "name")
		if r.URL.RawPath != "" {
			if unescaped, err := url.PathUnescape(name); err == nil {
				name = unescaped
			}
		}

		f, err := opener.Open(kind, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotFound) || errors.Is(err, fs.ErrInvalidName) {
				log.Warn("image not found", slog.String("name", name))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("image not found"))
				return
			}

			log.Error("failed to open image", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get image"))
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			log.Error("failed to stat image", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get image"))
			return
		}
		if info.IsDir() {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("image not found"))
			return
		}

		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}
