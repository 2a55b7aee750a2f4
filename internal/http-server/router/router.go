package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "imageIngestor/docs"
	"imageIngestor/internal/http-server/handlers/image/getImage"
	"imageIngestor/internal/http-server/handlers/upload/uploadLocal"
	"imageIngestor/internal/http-server/handlers/upload/uploadRemote"
	"imageIngestor/internal/http-server/middleware/mwlogger"
	"imageIngestor/internal/storage/fs"
)

type Ingestor interface {
	uploadLocal.LocalIngestor
	uploadRemote.RemoteIngestor
}

func New(log *slog.Logger, ingestor Ingestor, images getImage.ImageOpener, staticDir string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)

	router.Post("/upload/local", uploadLocal.New(log, ingestor))
	router.Post("/upload/remote", uploadRemote.New(log, ingestor))

	router.Get("/image/original/{name}", getImage.New(log, images, fs.KindFull))
	router.Get("/image/preview/{name}", getImage.New(log, images, fs.KindThumb))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Handle("/*", http.FileServer(http.Dir(staticDir)))

	return router
}
