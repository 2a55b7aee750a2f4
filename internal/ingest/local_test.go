package ingest_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"imageIngestor/internal/ingest"
	"imageIngestor/internal/ingest/mocks"
	"imageIngestor/internal/lib/imagetest"
	"imageIngestor/internal/lib/logger/handlers/slogdiscard"
	"imageIngestor/internal/models"
	"imageIngestor/internal/storage/fs"
)

func TestIngestLocal(t *testing.T) {
	env := newEnv(t)

	a := imagetest.PNG(t, 300, 200)
	b := imagetest.JPEG(t, 50, 50)

	result, err := env.service(ingest.Config{}).IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "a.png", data: a},
		filePart{filename: "b.jpg", data: b},
	))
	require.NoError(t, err)

	require.Equal(t, []string{"a.png", "b.jpg"}, result.Names())

	sizes, ok := result.Get("a.png")
	require.True(t, ok)
	require.EqualValues(t, len(a), sizes.Full)
	require.Equal(t, env.fileSize(t, fs.KindFull, "a.png"), sizes.Full)
	require.Equal(t, env.fileSize(t, fs.KindThumb, "a.png"), sizes.Thumb)

	sizes, ok = result.Get("b.jpg")
	require.True(t, ok)
	require.EqualValues(t, len(b), sizes.Full)
	require.Equal(t, env.fileSize(t, fs.KindThumb, "b.jpg"), sizes.Thumb)
}

func TestIngestLocal_EmptyFilenameEndsBatch(t *testing.T) {
	env := newEnv(t)

	result, err := env.service(ingest.Config{}).IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "", data: nil},
		filePart{filename: "late.png", data: imagetest.PNG(t, 10, 10)},
	))
	require.NoError(t, err)
	require.Zero(t, result.Len())

	env.requireEmpty(t)
}

func TestIngestLocal_SentinelAfterItems(t *testing.T) {
	env := newEnv(t)

	result, err := env.service(ingest.Config{}).IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "first.png", data: imagetest.PNG(t, 120, 80)},
		filePart{filename: "", data: nil},
		filePart{filename: "ignored.png", data: []byte("not even an image")},
	))
	require.NoError(t, err)
	require.Equal(t, []string{"first.png"}, result.Names())
}

func TestIngestLocal_NoParts(t *testing.T) {
	env := newEnv(t)

	result, err := env.service(ingest.Config{}).IngestLocal(context.Background(), multipartReader(t))
	require.NoError(t, err)
	require.Zero(t, result.Len())
}

func TestIngestLocal_Errors(t *testing.T) {
	tests := []struct {
		name        string
		cfg         ingest.Config
		parts       func(t *testing.T) []filePart
		expectedErr error
	}{
		{
			name: "Missing filename",
			parts: func(t *testing.T) []filePart {
				return []filePart{{field: "comment", noFilename: true, data: []byte("hi")}}
			},
			expectedErr: ingest.ErrInvalidPart,
		},
		{
			name: "Undecodable image",
			parts: func(t *testing.T) []filePart {
				return []filePart{{filename: "fake.png", data: []byte("plain text pretending to be an image")}}
			},
			expectedErr: ingest.ErrImageDecode,
		},
		{
			name: "Too large",
			cfg:  ingest.Config{MaxUploadSize: 64},
			parts: func(t *testing.T) []filePart {
				return []filePart{{filename: "big.png", data: imagetest.PNG(t, 64, 64)}}
			},
			expectedErr: ingest.ErrTooLarge,
		},
		{
			name: "Invalid name",
			parts: func(t *testing.T) []filePart {
				return []filePart{{filename: "..", data: imagetest.PNG(t, 8, 8)}}
			},
			expectedErr: ingest.ErrInvalidPart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)

			result, err := env.service(tt.cfg).IngestLocal(context.Background(), multipartReader(t, tt.parts(t)...))
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, result)

			env.requireEmpty(t)
		})
	}
}

func TestIngestLocal_OverwritesSameName(t *testing.T) {
	env := newEnv(t)
	svc := env.service(ingest.Config{})

	_, err := svc.IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "same.png", data: imagetest.PNG(t, 300, 300)},
	))
	require.NoError(t, err)

	newer := imagetest.PNG(t, 20, 10)
	result, err := svc.IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "same.png", data: newer},
	))
	require.NoError(t, err)

	sizes, _ := result.Get("same.png")
	require.EqualValues(t, len(newer), sizes.Full)
	require.Equal(t, env.fileSize(t, fs.KindFull, "same.png"), sizes.Full)
	require.Equal(t, env.fileSize(t, fs.KindThumb, "same.png"), sizes.Thumb)
}

func TestIngestLocal_ThumbnailFailureKeepsFullHidden(t *testing.T) {
	env := newEnv(t)

	thumbs := mocks.NewThumbnailer(t)
	thumbs.On("Generate", mock.Anything, mock.Anything, "a.png").
		Return(int64(0), errors.New("disk full")).Once()

	svc := ingest.New(slogdiscard.NewDiscardLogger(), env.storage, thumbs, ingest.Config{})

	_, err := svc.IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "a.png", data: imagetest.PNG(t, 10, 10)},
	))
	require.ErrorIs(t, err, ingest.ErrIO)

	env.requireEmpty(t)
}

func TestIngestLocal_PublishesEvents(t *testing.T) {
	env := newEnv(t)

	notifier := mocks.NewNotifier(t)
	notifier.On("PublishIngested", mock.Anything, mock.MatchedBy(func(events []models.IngestedEvent) bool {
		return len(events) == 2 &&
			events[0].Name == "a.png" && events[1].Name == "b.png" &&
			events[0].Source == models.SourceLocal &&
			events[0].BatchID == events[1].BatchID
	})).Return(errors.New("broker unavailable")).Once()

	svc := env.service(ingest.Config{}, ingest.WithNotifier(notifier))

	result, err := svc.IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "a.png", data: imagetest.PNG(t, 10, 10)},
		filePart{filename: "b.png", data: imagetest.PNG(t, 20, 20)},
	))
	require.NoError(t, err, "publish failures must not fail the batch")
	require.Equal(t, 2, result.Len())
}

func TestIngestLocal_LongName(t *testing.T) {
	env := newEnv(t)

	name := strings.Repeat("a", 246) + ".png"
	data := imagetest.PNG(t, 120, 90)

	result, err := env.service(ingest.Config{}).IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: name, data: data},
	))
	require.NoError(t, err)

	sizes, ok := result.Get(name)
	require.True(t, ok)
	require.EqualValues(t, len(data), sizes.Full)
	require.Equal(t, env.fileSize(t, fs.KindThumb, name), sizes.Thumb)
}

func TestIngestLocal_MissingFullDir(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, os.RemoveAll(env.cfg.FullDir))

	result, err := env.service(ingest.Config{}).IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "a.png", data: imagetest.PNG(t, 10, 10)},
	))
	require.ErrorIs(t, err, ingest.ErrIO)
	require.Nil(t, result)
}

func TestIngestLocal_ReadErrorMidPart(t *testing.T) {
	env := newEnv(t)

	data := imagetest.PNG(t, 300, 200)
	body, boundary := multipartBody(t, filePart{filename: "a.png", data: data})

	start := bytes.Index(body, data)
	require.Positive(t, start)

	mr := multipart.NewReader(&brokenReader{r: bytes.NewReader(body), limit: start + len(data)/2}, boundary)

	result, err := env.service(ingest.Config{}).IngestLocal(context.Background(), mr)
	require.ErrorIs(t, err, ingest.ErrIO)
	require.Nil(t, result)

	env.requireEmpty(t)
}

func TestIngestLocal_FullCommitFailureRemovesThumb(t *testing.T) {
	env := newEnv(t)

	// a directory in the way makes the final rename fail
	require.NoError(t, os.Mkdir(filepath.Join(env.cfg.FullDir, "a.png"), os.ModePerm))

	result, err := env.service(ingest.Config{}).IngestLocal(context.Background(), multipartReader(t,
		filePart{filename: "a.png", data: imagetest.PNG(t, 200, 200)},
	))
	require.ErrorIs(t, err, ingest.ErrIO)
	require.Nil(t, result)

	_, err = env.storage.Size(fs.KindThumb, "a.png")
	require.ErrorIs(t, err, fs.ErrNotFound)

	entries, err := os.ReadDir(env.cfg.FullDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
