package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipshare/application/serviceimpl"
	"clipshare/infrastructure/localdb"
	"clipshare/infrastructure/storage"
	"clipshare/interfaces/api/handlers"
	"clipshare/interfaces/api/middleware"
	"clipshare/pkg/config"
	"clipshare/pkg/metrics"
)

// testApp ประกอบ app จริงทั้งก้อนใน local mode
func testApp(t *testing.T) *fiber.App {
	t.Helper()

	dir := t.TempDir()

	repo, err := localdb.NewVideoRepository(filepath.Join(dir, "videos.json"))
	require.NoError(t, err)

	blobStore, err := storage.NewLocalStorage(storage.LocalStorageConfig{
		BasePath: dir,
		BaseURL:  "http://localhost:8000",
	})
	require.NoError(t, err)

	registry := metrics.NewRegistry()
	videoService := serviceimpl.NewVideoService(repo, blobStore, nil, nil, registry)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.CorsMiddleware(&config.CORSConfig{AllowOrigins: "*"}))

	h := handlers.NewHandlers(&handlers.Services{
		VideoService: videoService,
		BlobStore:    blobStore,
		Metrics:      registry,
		StorageMode:  config.ModeLocal,
	})
	SetupRoutes(app, h, config.ModeLocal)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body io.Reader, contentType string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func uploadVideo(t *testing.T, app *fiber.App, title, description string) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("video", "clip.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("title", title))
	require.NoError(t, writer.WriteField("description", description))
	require.NoError(t, writer.Close())

	resp, body := doJSON(t, app, http.MethodPost, "/api/videos/upload", &buf, writer.FormDataContentType())
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)
	return body
}

func TestUploadEndpoint(t *testing.T) {
	app := testApp(t)

	body := uploadVideo(t, app, "Sunset Over Lake", "Evening timelapse")

	assert.Equal(t, "Video uploaded successfully", body["message"])
	assert.NotEmpty(t, body["videoId"])
	assert.Equal(t, "ready", body["status"])
	assert.Contains(t, body["videoUrl"], "/uploads/videos/")
	// ไม่มี enricher = ไม่มี insights แนบมา
	assert.NotContains(t, body, "insights")
}

func TestUploadWithoutFile(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/videos/upload", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No video file provided", body["error"])
}

func TestListEndpointShape(t *testing.T) {
	app := testApp(t)

	for i := 0; i < 3; i++ {
		uploadVideo(t, app, fmt.Sprintf("Video %d", i), "")
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/videos?page=1&page_size=2", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(2), body["page_size"])
	assert.Equal(t, float64(2), body["total_pages"])
	assert.Len(t, body["videos"], 2)
}

func TestGetVideoNotFound(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/videos/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestViewAndLikeCounters(t *testing.T) {
	app := testApp(t)

	uploaded := uploadVideo(t, app, "Counter Test", "")
	videoID := uploaded["videoId"].(string)

	for want := 1; want <= 3; want++ {
		resp, body := doJSON(t, app, http.MethodPost, "/api/videos/"+videoID+"/view", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(want), body["views"])
	}

	resp, body := doJSON(t, app, http.MethodPost, "/api/videos/"+videoID+"/like", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["likes"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/videos/missing/view", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	app := testApp(t)

	uploadVideo(t, app, "Sunset Over Lake", "Evening timelapse")
	uploadVideo(t, app, "Cooking Pasta", "dinner ideas")

	resp, body := doJSON(t, app, http.MethodGet, "/api/search?q=SUNSET", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "sunset", body["search_term"])
	assert.Len(t, body["results"], 1)

	resp, body = doJSON(t, app, http.MethodGet, "/api/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Search term required", body["error"])
}

func TestStatsEndpoint(t *testing.T) {
	app := testApp(t)

	uploaded := uploadVideo(t, app, "Stats Video", "")
	videoID := uploaded["videoId"].(string)
	uploadVideo(t, app, "Another", "")

	for i := 0; i < 5; i++ {
		doJSON(t, app, http.MethodPost, "/api/videos/"+videoID+"/view", nil, "")
	}
	doJSON(t, app, http.MethodPost, "/api/videos/"+videoID+"/like", nil, "")
	doJSON(t, app, http.MethodPost, "/api/videos/"+videoID+"/like", nil, "")

	resp, body := doJSON(t, app, http.MethodGet, "/api/stats", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total_videos"])
	assert.Equal(t, float64(5), body["total_views"])
	assert.Equal(t, float64(2), body["total_likes"])
	assert.Equal(t, "local", body["storage_mode"])
	assert.Equal(t, false, body["insights_enabled"])
}

func TestPerformanceEndpoint(t *testing.T) {
	app := testApp(t)

	uploadVideo(t, app, "Metric Source", "")

	resp, body := doJSON(t, app, http.MethodGet, "/api/stats/performance", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	operations, ok := body["operations"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, operations, "upload_video")
}

func TestAnalyzeWithoutCognitiveServices(t *testing.T) {
	app := testApp(t)

	uploaded := uploadVideo(t, app, "Plain Video", "")
	videoID := uploaded["videoId"].(string)

	resp, body := doJSON(t, app, http.MethodPost, "/api/videos/"+videoID+"/analyze", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Cognitive Services not available", body["error"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/videos/"+videoID+"/transcript", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Cognitive Services not available", body["error"])
}

func TestServeUploadedVideo(t *testing.T) {
	app := testApp(t)

	uploaded := uploadVideo(t, app, "Streamable", "")
	videoURL := uploaded["videoUrl"].(string)

	// videoUrl เป็น absolute URL - ตัดเอาเฉพาะ path
	path := videoURL[len("http://localhost:8000"):]

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake video bytes", string(raw))

	// Range request
	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Range", "bytes=5-8")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "bytes 5-8/16", resp.Header.Get("Content-Range"))

	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "vide", string(raw))
}

func TestHealthEndpoint(t *testing.T) {
	app := testApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "local", body["mode"])
}
