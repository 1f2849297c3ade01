package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func serve(t *testing.T, handler http.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleHealth(t *testing.T) {
	c := NewChecker(Config{ServiceName: "value-staker", Version: "1.2.3", Commit: "abc"})

	rec, body := serve(t, c.HandleHealth)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandleLive(t *testing.T) {
	c := NewChecker(Config{ServiceName: "value-staker"})

	rec, body := serve(t, c.HandleLive)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "value-staker", body["service"])
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		db         DatabasePinger
		wantStatus int
		wantDB     interface{}
	}{
		{"not ready", false, nil, http.StatusServiceUnavailable, nil},
		{"ready without database", true, nil, http.StatusOK, nil},
		{"ready with healthy database", true, stubPinger{}, http.StatusOK, "ok"},
		{"database down", true, stubPinger{err: errors.New("refused")}, http.StatusServiceUnavailable, "error: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(Config{ServiceName: "value-staker", DB: tt.db})
			c.SetReady(tt.ready)
			assert.Equal(t, tt.ready, c.IsReady())

			rec, body := serve(t, c.HandleReady)
			assert.Equal(t, tt.wantStatus, rec.Code)

			checks := body["checks"].(map[string]interface{})
			assert.Equal(t, tt.wantDB, checks["database"])
		})
	}
}
