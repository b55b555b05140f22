package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/models"
)

const testPlaceholder = "https://example.test/missing.png"

func TestShowSearchParser_Parse(t *testing.T) {
	payload := `[
		{"score": 0.9, "show": {"id": 1, "name": "Gilmore Girls", "summary": "<p>Mother and daughter.</p>",
			"image": {"medium": "https://img.test/m/1.jpg", "original": "https://img.test/o/1.jpg"}}},
		{"score": 0.7, "show": {"id": 2, "name": "Girls", "summary": null, "image": null}}
	]`

	shows, err := NewShowSearchParser(testPlaceholder).Parse(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []models.Show{
		{ID: 1, Name: "Gilmore Girls", Summary: "<p>Mother and daughter.</p>", ImageURL: "https://img.test/o/1.jpg"},
		{ID: 2, Name: "Girls", Summary: "", ImageURL: testPlaceholder},
	}
	if len(shows) != len(expected) {
		t.Fatalf("Expected %d shows, got %d", len(expected), len(shows))
	}
	for i := range expected {
		if shows[i] != expected[i] {
			t.Errorf("Show %d: expected %+v, got %+v", i, expected[i], shows[i])
		}
	}
}

func TestShowSearchParser_ImageFallback(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{name: "null image", image: `null`, want: testPlaceholder},
		{name: "absent original", image: `{"medium": "https://img.test/m.jpg"}`, want: testPlaceholder},
		{name: "empty original", image: `{"original": ""}`, want: testPlaceholder},
		{name: "present original", image: `{"original": "https://img.test/o.jpg"}`, want: "https://img.test/o.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `[{"show": {"id": 5, "name": "X", "summary": "", "image": ` + tt.image + `}}]`
			shows, err := NewShowSearchParser(testPlaceholder).Parse(strings.NewReader(payload))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if shows[0].ImageURL != tt.want {
				t.Errorf("Expected image %q, got %q", tt.want, shows[0].ImageURL)
			}
		})
	}
}

func TestShowSearchParser_AbsentImageKey(t *testing.T) {
	payload := `[{"show": {"id": 5, "name": "X"}}]`
	shows, err := NewShowSearchParser("").Parse(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if shows[0].ImageURL != "https://tinyurl.com/tv-missing" {
		t.Errorf("Expected built-in placeholder, got %q", shows[0].ImageURL)
	}
}

func TestShowSearchParser_EmptyArray(t *testing.T) {
	shows, err := NewShowSearchParser(testPlaceholder).Parse(strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if shows == nil || len(shows) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", shows)
	}
}

func TestShowSearchParser_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		reason  string
	}{
		{name: "empty body", payload: ``, reason: "empty body"},
		{name: "null", payload: `null`, reason: "got null"},
		{name: "object instead of array", payload: `{"show": {}}`, reason: ""},
		{name: "syntax error", payload: `[{"show":`, reason: ""},
		{name: "missing show", payload: `[{"score": 1}]`, reason: "item 0: missing show"},
		{name: "missing id", payload: `[{"show": {"name": "A"}}]`, reason: "item 0: missing show.id"},
		{name: "missing name", payload: `[{"show": {"id": 1, "name": "A"}}, {"show": {"id": 2}}]`, reason: "item 1: missing show.name"},
		{name: "id of wrong type", payload: `[{"show": {"id": "one", "name": "A"}}]`, reason: ""},
		{name: "trailing data", payload: `[] []`, reason: "unexpected data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shows, err := NewShowSearchParser(testPlaceholder).Parse(strings.NewReader(tt.payload))
			if err == nil {
				t.Fatalf("Expected error, got %d shows", len(shows))
			}
			if !errors.Is(err, &apperrors.ErrMalformedResponse{}) {
				t.Fatalf("Expected ErrMalformedResponse, got %T: %v", err, err)
			}
			if tt.reason != "" && !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("Expected error to contain %q, got %v", tt.reason, err)
			}
			if shows != nil {
				t.Errorf("Expected nil shows on error, got %v", shows)
			}
		})
	}
}

func TestEpisodeParser_Parse(t *testing.T) {
	payload := `[
		{"id": 10, "name": "Pilot", "season": 1, "number": 1, "airdate": "2000-10-05"},
		{"id": 11, "name": "Special", "season": "1", "number": null}
	]`

	episodes, err := NewEpisodeParser().Parse(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []models.Episode{
		{ID: 10, Name: "Pilot", Season: "1", Number: "1"},
		{ID: 11, Name: "Special", Season: "1", Number: ""},
	}
	if len(episodes) != len(expected) {
		t.Fatalf("Expected %d episodes, got %d", len(expected), len(episodes))
	}
	for i := range expected {
		if episodes[i] != expected[i] {
			t.Errorf("Episode %d: expected %+v, got %+v", i, expected[i], episodes[i])
		}
	}
}

func TestEpisodeParser_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		reason  string
	}{
		{name: "missing id", payload: `[{"name": "Pilot", "season": 1, "number": 1}]`, reason: "item 0: missing id"},
		{name: "missing name", payload: `[{"id": 1, "season": 1, "number": 1}]`, reason: "item 0: missing name"},
		{name: "boolean season", payload: `[{"id": 1, "name": "P", "season": true, "number": 1}]`, reason: "label"},
		{name: "not an array", payload: `"episodes"`, reason: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEpisodeParser().Parse(strings.NewReader(tt.payload))
			if !errors.Is(err, &apperrors.ErrMalformedResponse{}) {
				t.Fatalf("Expected ErrMalformedResponse, got %v", err)
			}
			if tt.reason != "" && !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("Expected error to contain %q, got %v", tt.reason, err)
			}
		})
	}
}
