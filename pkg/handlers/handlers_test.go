package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/newsqual/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["id"] != "abc" {
		t.Errorf("body = %v", got)
	}
}

func TestRespondFields(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rec := httptest.NewRecorder()
	handlers.RespondFields(rec, logger, http.StatusUnprocessableEntity,
		errors.New("missing required fields"), []string{"Dominance", "Tonality"})

	var got handlers.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := handlers.ErrorResponse{
		Error:  "missing required fields",
		Fields: []string{"Dominance", "Tonality"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("body (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "level=DEBUG") {
		t.Errorf("client error logged as %q, want debug", logs.String())
	}
}

func TestRespondErrorLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
		fields bool
	}{
		{http.StatusBadRequest, "level=DEBUG", false},
		{http.StatusInternalServerError, "level=ERROR", false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

			rec := httptest.NewRecorder()
			handlers.RespondError(rec, logger, tt.status, errors.New("boom"))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(logs.String(), tt.level) {
				t.Errorf("log %q missing %s", logs.String(), tt.level)
			}
			if strings.Contains(rec.Body.String(), "fields") {
				t.Errorf("body %s carries empty fields", rec.Body.String())
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type request struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Innovation"}`, false},
		{"unknown field", `{"name":"x","extra":1}`, true},
		{"malformed", `{"name":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var v request
			err := handlers.DecodeJSON(req, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Name != "Innovation" {
				t.Errorf("decoded %+v", v)
			}
		})
	}
}
