package uploadRemote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"imageIngestor/internal/http-server/handlers/upload"
	"imageIngestor/internal/lib/api/response"
	"imageIngestor/internal/lib/logger/sl"
	"imageIngestor/internal/models"
)

// Request lists image URLs. An empty string ends the list.
type Request struct {
	URLs []string `json:"urls" validate:"required"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RemoteIngestor
type RemoteIngestor interface {
	IngestRemote(ctx context.Context, urls []string) (*models.IngestionResult, error)
}

// New fetches and stores images by URL.
// @Summary      Uploads images by URL
// @Description  Fetches every URL up to the first empty string and stores the image with its thumbnail under a random name.
// @Tags         upload
// @Accept       json
// @Produce      json
// @Param        request  body  uploadRemote.Request  true  "Image URLs"
// @Success      200  {object}  map[string]models.ImageSizes
// @Failure      400  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /upload/remote [post]
func New(log *slog.Logger, ingestor RemoteIngestor) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.upload.uploadRemote.New"

		log := log.With(
			slog.String("op", op),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("empty request"))
			return
		}
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validate.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		log.Debug("request body decoded", slog.Int("urls", len(req.URLs)))

		result, err := ingestor.IngestRemote(r.Context(), req.URLs)
		if err != nil {
			log.Error("failed to ingest remote images", sl.Err(err))
			status, msg := upload.ErrorStatus(err)
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("remote images stored", slog.Int("count", result.Len()))

		render.JSON(w, r, result)
	}
}
