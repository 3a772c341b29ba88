package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangul-fuzzy-search/internal/api/handlers"
	"hangul-fuzzy-search/pkg/deploy"
	"hangul-fuzzy-search/pkg/feedback"
	"hangul-fuzzy-search/pkg/logger"
	"hangul-fuzzy-search/pkg/searchindex"
)

func newTestHandler(t *testing.T) *handlers.SearchHandler {
	t.Helper()
	items := []handlers.Item{
		{Key: "프론트엔드"},
		{Key: "백엔드"},
		{Key: "데이터"},
	}
	now := time.Unix(1700000000, 0)
	idx := searchindex.New(items, func(it handlers.Item) string { return it.Key }, searchindex.DefaultPolicy(), now)
	store := feedback.NewStore(100, 0)
	deployment := deploy.Default().Sanitize(now)
	return handlers.NewSearchHandler(idx, store, deployment, "production", logger.New("error"))
}

func TestSearchHandlerContainsMatch(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=%E3%85%8D%E3%84%B9%E3%85%8C&mode=contains", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []handlers.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "프론트엔드", body.Items[0].Key)
}

func TestSearchHandlerHealthCheck(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestSearchHandlerFeedbackRecordsEvent(t *testing.T) {
	h := newTestHandler(t)
	payload := `{"query":"검삭","selectedKey":"검색","outcome":"clickedResult"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	h.Feedback(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestSearchHandlerFeedbackRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	h.Feedback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandlerSimilarReturnsRankedResults(t *testing.T) {
	h := newTestHandler(t)
	payload := `{"query":"vmfhsxmdpsem"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/similar", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	h.Similar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "results")
}
