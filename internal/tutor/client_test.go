// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jeranaias/tutorchat-tui/internal/model"
)

// newTestClient wires a client to a mock backend with rate limiting off.
func newTestClient(url string) *Client {
	return NewClient(url).WithRateLimit(nil)
}

func TestClient_Chat_Success(t *testing.T) {
	var gotReq ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response": "Entropy measures disorder."}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Chat(context.Background(), ChatRequest{
		Message:      "Explain entropy",
		ModelType:    "openai",
		Professor:    Professor{Name: "Chen", Field: "Physics", TeachingMode: "Socratic", AdviceType: "research"},
		EnableSearch: false,
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.Response != "Entropy measures disorder." {
		t.Errorf("Response = %q", resp.Response)
	}
	if resp.Sources() != nil {
		t.Errorf("Sources() = %v, want nil", resp.Sources())
	}

	// Wire format carries the exact field names the backend expects.
	if gotReq.Message != "Explain entropy" || gotReq.ModelType != "openai" {
		t.Errorf("request not forwarded verbatim: %+v", gotReq)
	}
	if gotReq.Professor.TeachingMode != "Socratic" {
		t.Errorf("professor payload incomplete: %+v", gotReq.Professor)
	}
}

func TestClient_Chat_SearchResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"response": "Per the sources, entropy always increases.",
			"search_results": [
				{"title": "Second Law", "link": "https://example.edu/laws", "summary": "overview", "is_academic": true},
				{"title": "Entropy", "link": "https://example.com/e", "summary": "intro"}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Chat(context.Background(), ChatRequest{Message: "entropy", EnableSearch: true})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	sources := resp.Sources()
	if len(sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(sources))
	}
	want := model.SearchSource{Title: "Second Law", Link: "https://example.edu/laws", Summary: "overview", IsAcademic: true}
	if sources[0] != want {
		t.Errorf("sources[0] = %+v, want %+v", sources[0], want)
	}
	if sources[1].IsAcademic {
		t.Error("sources[1].IsAcademic should default to false")
	}
}

func TestClient_Chat_ErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail": "Model provider unavailable"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Chat(context.Background(), ChatRequest{Message: "hi"})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", apiErr.Status)
	}
	// Server detail surfaces verbatim.
	if apiErr.Error() != "Model provider unavailable" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestClient_Chat_ErrorWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Chat(context.Background(), ChatRequest{Message: "hi"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Detail != "" {
		t.Errorf("Detail = %q, want synthesized message only", apiErr.Detail)
	}
	if apiErr.Error() == "" {
		t.Error("synthesized error text must not be empty")
	}
}

func TestClient_Chat_EmptyResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": ""}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Chat(context.Background(), ChatRequest{Message: "hi"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestClient_Chat_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"response": "too late"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL).WithTimeout(50 * time.Millisecond)
	_, err := client.Chat(context.Background(), ChatRequest{Message: "hi"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("timeout must surface as a transport error, not an APIError")
	}
}

func TestProfessorFromProfile_Fallback(t *testing.T) {
	got := ProfessorFromProfile(model.TutorProfile{})
	want := Professor{
		Name:         "AI Educator",
		Field:        "General Knowledge",
		TeachingMode: "Helpful",
		AdviceType:   "educational",
	}
	if got != want {
		t.Errorf("fallback persona = %+v, want %+v", got, want)
	}

	selected := model.TutorProfile{Name: "Chen", Field: "Physics", TeachingMode: "Socratic", AdviceType: "research", ModelType: "local"}
	got = ProfessorFromProfile(selected)
	if got.Name != "Chen" || got.Field != "Physics" {
		t.Errorf("selected persona not forwarded: %+v", got)
	}
}
