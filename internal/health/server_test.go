package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/prediction"
)

func testServer() *Server {
	return New(0, func() Status {
		return Status{
			Status:         "Running",
			StatChannel:    -100,
			DisplayChannel: -200,
			ExcelPredictions: prediction.Stats{
				Total:   5,
				Pending: 3,
			},
			Metrics: map[string]interface{}{},
		}
	})
}

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/", http.StatusOK, "Bot is running"},
		{"/health", http.StatusOK, "Bot is running"},
		{"/nope", http.StatusNotFound, ""},
	}

	handler := testServer().Handler()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestStatusEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var got Status
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if got.Status != "Running" {
		t.Errorf("status = %q", got.Status)
	}
	if got.StatChannel != -100 || got.DisplayChannel != -200 {
		t.Errorf("channels = %d / %d", got.StatChannel, got.DisplayChannel)
	}
	if got.ExcelPredictions.Total != 5 {
		t.Errorf("stats = %+v", got.ExcelPredictions)
	}
}
