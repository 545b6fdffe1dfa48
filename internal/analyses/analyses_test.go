package analyses_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/lumenlabs/lumen/consensus"
	"github.com/lumenlabs/lumen/internal/analyses"
	"github.com/lumenlabs/lumen/internal/classifier"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", analyses.ErrNotFound, http.StatusNotFound},
		{"duplicate", analyses.ErrDuplicate, http.StatusConflict},
		{"file too large", analyses.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid image", analyses.ErrInvalidImage, http.StatusBadRequest},
		{"classifier unavailable", classifier.ErrUnavailable, http.StatusBadGateway},
		{"classifier bad response", classifier.ErrBadResponse, http.StatusBadGateway},
		{"invalid baseline input", consensus.ErrInvalidInput, http.StatusBadGateway},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", analyses.ErrNotFound), http.StatusNotFound},
		{"wrapped pipeline error", fmt.Errorf("analysis pipeline: %w", classifier.ErrUnavailable), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyses.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"status":      {"completed"},
			"filename":    {"selfie"},
			"mode":        {"hybrid"},
			"final_label": {"dry_skin"},
			"severity":    {"moderate"},
		}

		f := analyses.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "completed" {
			t.Errorf("Status = %v, want completed", f.Status)
		}
		if f.Filename == nil || *f.Filename != "selfie" {
			t.Errorf("Filename = %v, want selfie", f.Filename)
		}
		if f.Mode == nil || *f.Mode != "hybrid" {
			t.Errorf("Mode = %v, want hybrid", f.Mode)
		}
		if f.FinalLabel == nil || *f.FinalLabel != "dry_skin" {
			t.Errorf("FinalLabel = %v, want dry_skin", f.FinalLabel)
		}
		if f.Severity == nil || *f.Severity != "moderate" {
			t.Errorf("Severity = %v, want moderate", f.Severity)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := analyses.FiltersFromQuery(url.Values{})

		if f.Status != nil || f.Filename != nil || f.Mode != nil || f.FinalLabel != nil || f.Severity != nil {
			t.Errorf("filters = %+v, want all nil", f)
		}
	})
}
