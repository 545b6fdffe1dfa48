package classifier

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumenlabs/lumen/internal/config"
)

func newTestBaseline(t *testing.T, handler http.HandlerFunc) (*Baseline, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.BaselineConfig{URL: server.URL, Timeout: "5s"}
	return NewBaseline(cfg, slog.New(slog.DiscardHandler)), server
}

func TestBaselineClassify(t *testing.T) {
	baseline, _ := newTestBaseline(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"top_prediction": "Hormonal Acne",
			"confidence": 0.82,
			"all_predictions": {"hormonal_acne": 0.82, "acne": 0.11, "healthy": 0.07}
		}`))
	})

	result, err := baseline.Classify(context.Background(), []byte("fake-image"), "selfie.jpg")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if result.Label != "hormonal_acne" {
		t.Errorf("Label = %s, want hormonal_acne (normalized)", result.Label)
	}
	if result.Confidence != 0.82 {
		t.Errorf("Confidence = %v, want 0.82", result.Confidence)
	}
	if len(result.Distribution) != 3 {
		t.Errorf("Distribution = %d entries, want 3", len(result.Distribution))
	}
}

func TestBaselineClassifyServerError(t *testing.T) {
	baseline, _ := newTestBaseline(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := baseline.Classify(context.Background(), []byte("fake-image"), "selfie.jpg")
	if !errors.Is(err, ErrBadResponse) {
		t.Errorf("err = %v, want ErrBadResponse", err)
	}
}

func TestBaselineClassifyUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	cfg := &config.BaselineConfig{URL: server.URL, Timeout: "1s"}
	baseline := NewBaseline(cfg, slog.New(slog.DiscardHandler))

	_, err := baseline.Classify(context.Background(), []byte("fake-image"), "selfie.jpg")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestBaselineClassifyInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty label", `{"top_prediction": "", "confidence": 0.9, "all_predictions": {}}`},
		{"confidence above one", `{"top_prediction": "acne", "confidence": 1.4, "all_predictions": {}}`},
		{"negative confidence", `{"top_prediction": "acne", "confidence": -0.2, "all_predictions": {}}`},
		{"malformed json", `{"top_prediction":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline, _ := newTestBaseline(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			_, err := baseline.Classify(context.Background(), []byte("fake-image"), "selfie.jpg")
			if !errors.Is(err, ErrBadResponse) {
				t.Errorf("err = %v, want ErrBadResponse", err)
			}
		})
	}
}

func TestBaselineHealthy(t *testing.T) {
	baseline, _ := newTestBaseline(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status": "ok"}`))
	})

	if !baseline.Healthy(context.Background()) {
		t.Error("Healthy = false, want true")
	}
}

func TestBaselineHealthyDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	cfg := &config.BaselineConfig{URL: server.URL, Timeout: "1s"}
	baseline := NewBaseline(cfg, slog.New(slog.DiscardHandler))

	if baseline.Healthy(context.Background()) {
		t.Error("Healthy = true, want false")
	}
}
