package uploadLocal

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/render"

	"imageIngestor/internal/http-server/handlers/upload"
	"imageIngestor/internal/lib/api/response"
	"imageIngestor/internal/lib/logger/sl"
	"imageIngestor/internal/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=LocalIngestor
type LocalIngestor interface {
	IngestLocal(ctx context.Context, mr *multipart.Reader) (*models.IngestionResult, error)
}

// New stores images uploaded as multipart parts.
// @Summary      Uploads images
// @Description  Stores every file part and its thumbnail. A part with an empty filename ends the upload.
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file, repeatable"
// @Success      200  {object}  map[string]models.ImageSizes
// @Failure      400  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /upload/local [post]
func New(log *slog.Logger, ingestor LocalIngestor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.upload.uploadLocal.New"

		log := log.With(
			slog.String("op", op),
		)

		mr, err := r.MultipartReader()
		if err != nil {
			log.Error("request is not multipart", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("expected multipart form data"))
			return
		}

		result, err := ingestor.IngestLocal(r.Context(), mr)
		if err != nil {
			log.Error("failed to ingest uploaded images", sl.Err(err))
			status, msg := upload.ErrorStatus(err)
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("uploaded images stored", slog.Int("count", result.Len()))

		render.JSON(w, r, result)
	}
}
