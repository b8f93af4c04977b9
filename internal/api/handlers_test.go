package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentrylabs/veritas/internal/config"
)

func detectRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewHandler(cfg, nil, nil, nil, nil, nil)
	router := gin.New()
	router.GET("/health", handler.Health)
	router.POST("/detect", handler.Detect)
	return router
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultThreshold:     0.55,
		MaxSourceBytes:       1 << 20,
		MaxConcurrentCompute: 1,
	}
}

func postDetect(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := detectRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDetectIdenticalStructure(t *testing.T) {
	router := detectRouter(t, testConfig())

	rec := postDetect(t, router, DetectRequest{
		SourceA: "int add(int a, int b) {\n  return a + b;\n}\n",
		SourceB: "int sum(int x, int y) {\n  return x + y;\n}\n",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.SimilarityScore)
	assert.Equal(t, 0.55, resp.Threshold)
	assert.True(t, resp.Flagged)
	assert.NotEmpty(t, resp.MatchedSegments)
}

func TestDetectShortSourcesNotFlagged(t *testing.T) {
	router := detectRouter(t, testConfig())

	rec := postDetect(t, router, DetectRequest{
		SourceA: "int a = 1;\n",
		SourceB: "int a = 1;\n",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.SimilarityScore)
	assert.False(t, resp.Flagged)
	assert.Empty(t, resp.MatchedSegments)
}

func TestDetectCustomThreshold(t *testing.T) {
	router := detectRouter(t, testConfig())

	threshold := 1.0
	rec := postDetect(t, router, DetectRequest{
		SourceA:   "int add(int a, int b) {\n  return a + b;\n}\n",
		SourceB:   "int sum(int x, int y) {\n  return x + y;\n}\n",
		Threshold: &threshold,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Threshold)
	assert.True(t, resp.Flagged)
}

func TestDetectMissingSource(t *testing.T) {
	router := detectRouter(t, testConfig())

	rec := postDetect(t, router, map[string]string{"sourceA": "int a = 1;"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectInvalidThreshold(t *testing.T) {
	router := detectRouter(t, testConfig())

	for _, threshold := range []float64{-0.1, 1.5} {
		tv := threshold
		rec := postDetect(t, router, DetectRequest{
			SourceA:   "int a = 1;",
			SourceB:   "int b = 2;",
			Threshold: &tv,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "threshold %v", threshold)
	}
}

func TestDetectOversizedSource(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSourceBytes = 16
	router := detectRouter(t, cfg)

	rec := postDetect(t, router, DetectRequest{
		SourceA: "int value = 12345; // longer than sixteen bytes",
		SourceB: "int b = 2;",
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
