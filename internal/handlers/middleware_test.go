package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jhanna0/links/internal/models"
	"github.com/jhanna0/links/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// postFrom sends a JSON POST that appears to come from the given address.
func postFrom(r http.Handler, path, remoteAddr string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTieredLimitRejectsOverQuota(t *testing.T) {
	h, db := setupTestHandler(t)
	r := setupLimitedRouter(h, map[string]services.BucketConfig{
		services.BucketPostMinute: {
			Window:   time.Minute,
			Baseline: 3,
			Elevated: 10,
			Message:  "Too many links.",
		},
	})

	body := func(i int) map[string]string {
		return map[string]string{
			"page": "limited",
			"link": "https://example.com/" + string(rune('a'+i)),
		}
	}

	for i := 0; i < 3; i++ {
		w := postFrom(r, "/add", "10.0.0.1:1234", body(i), nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Fourth request in the window is rejected before any work happens
	w := postFrom(r, "/add", "10.0.0.1:1234", body(3), nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many links.")

	var count int64
	db.Model(&models.Entry{}).Where("page = ?", "limited").Count(&count)
	assert.Equal(t, int64(3), count, "rejected request must not insert a row")

	// A different address still has its own quota
	w = postFrom(r, "/add", "10.0.0.2:1234", body(4), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTieredLimitElevatedByAccessKey(t *testing.T) {
	h, _ := setupTestHandler(t)
	plain := setupTestRouter(h)
	key := confirmPayment(t, plain, "tier@example.com", "sess_tier")

	r := setupLimitedRouter(h, map[string]services.BucketConfig{
		services.BucketPrivateCreate: {
			Window:   24 * time.Hour,
			Baseline: 1,
			Elevated: 3,
			Message:  "One private page a day.",
		},
	})

	headers := map[string]string{"X-Access-Key": key}
	for i := 0; i < 3; i++ {
		w := postFrom(r, "/create-private-page", "10.0.0.3:1234", nil, headers)
		require.Equal(t, http.StatusOK, w.Code, "request %d within elevated cap", i+1)
	}

	w := postFrom(r, "/create-private-page", "10.0.0.3:1234", nil, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Baseline callers from another address hit the lower cap immediately
	w = postFrom(r, "/create-private-page", "10.0.0.4:1234", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = postFrom(r, "/create-private-page", "10.0.0.4:1234", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "One private page a day.")
}

func TestAccessKeyTierClearsBadCookie(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	req, _ := http.NewRequest("GET", "/health", nil)
	req.AddCookie(&http.Cookie{Name: "apiKey", Value: "not-a-real-key"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cleared *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "apiKey" {
			cleared = ck
		}
	}
	require.NotNil(t, cleared, "invalid cookie should be cleared")
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestFloodLimiter(t *testing.T) {
	h, _ := setupTestHandler(t)
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	flood := services.NewIPRateLimiter(rate.Limit(0.01), 2, logger)
	r := h.SetupRouter(flood, nil)

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("GET", "/health", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	req, _ := http.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}
