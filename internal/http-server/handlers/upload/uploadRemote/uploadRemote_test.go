package uploadRemote_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"imageIngestor/internal/http-server/handlers/upload/uploadRemote"
	"imageIngestor/internal/http-server/handlers/upload/uploadRemote/mocks"
	"imageIngestor/internal/ingest"
	"imageIngestor/internal/lib/logger/handlers/slogdiscard"
	"imageIngestor/internal/models"
)

func TestUploadRemote(t *testing.T) {
	log := slogdiscard.NewDiscardLogger()

	oneImage := models.NewIngestionResult()
	oneImage.Add("Ab3dE9xYz.jpg", models.ImageSizes{Full: 4120, Thumb: 2311})

	tests := []struct {
		name           string
		body           string
		expectedURLs   []string
		mockResult     *models.IngestionResult
		mockErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success",
			body:           `{"urls":["https://randomuser.me/api/portraits/men/92.jpg",""]}`,
			expectedURLs:   []string{"https://randomuser.me/api/portraits/men/92.jpg", ""},
			mockResult:     oneImage,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"Ab3dE9xYz.jpg":{"full":4120,"thumb":2311}}`,
		},
		{
			name:           "Only Sentinel",
			body:           `{"urls":[""]}`,
			expectedURLs:   []string{""},
			mockResult:     models.NewIngestionResult(),
			expectedStatus: http.StatusOK,
			expectedBody:   `{}`,
		},
		{
			name:           "Empty Body",
			body:           ``,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"empty request"}`,
		},
		{
			name:           "Malformed JSON",
			body:           `{"urls":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Missing URLs",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field URLs is a required field"}`,
		},
		{
			name:           "Fetch Failure",
			body:           `{"urls":["http://example.com/missing.png"]}`,
			expectedURLs:   []string{"http://example.com/missing.png"},
			mockErr:        fmt.Errorf("ingest.IngestRemote: %w", ingest.ErrFetch),
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"status":"Error","error":"failed to fetch remote image"}`,
		},
		{
			name:           "Undecodable Image",
			body:           `{"urls":["http://example.com/index.html"]}`,
			expectedURLs:   []string{"http://example.com/index.html"},
			mockErr:        fmt.Errorf("ingest.IngestRemote: %w", ingest.ErrImageDecode),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"image cannot be decoded"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestorMock := mocks.NewRemoteIngestor(t)

			if tt.expectedURLs != nil {
				ingestorMock.On("IngestRemote", mock.Anything, tt.expectedURLs).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/upload/remote", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()

			handler := uploadRemote.New(log, ingestorMock)
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)
			require.Equal(t, tt.expectedBody, strings.TrimSpace(rr.Body.String()))
		})
	}
}
