package collector

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDeliver(t *testing.T) {
	var mu sync.Mutex
	var gotMethod, gotContentType, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody = string(body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	payload := []byte(`{"action":"position_open"}`)

	outcome := client.Deliver(context.Background(), payload)

	if outcome.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", outcome.Status)
	}
	if !outcome.Delivered() {
		t.Error("expected Delivered to return true")
	}
	if outcome.Err != nil {
		t.Errorf("Err = %v, want nil", outcome.Err)
	}
	if outcome.Body != `{"status":"accepted"}` {
		t.Errorf("Body = %q, want acceptance body", outcome.Body)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody != string(payload) {
		t.Errorf("body = %q, want %q", gotBody, payload)
	}
}

func TestDeliverRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("bad token"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	outcome := client.Deliver(context.Background(), []byte(`{}`))

	if outcome.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", outcome.Status)
	}
	if outcome.Delivered() {
		t.Error("expected Delivered to return false")
	}
	if outcome.Body != "bad token" {
		t.Errorf("Body = %q, want %q", outcome.Body, "bad token")
	}
	// A rejection is still an HTTP outcome, not a transport error.
	if outcome.Err != nil {
		t.Errorf("Err = %v, want nil", outcome.Err)
	}
}

func TestDeliverTransportFailure(t *testing.T) {
	// Take a URL from a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	outcome := client.Deliver(context.Background(), []byte(`{}`))

	if outcome.Status != TransportFailure {
		t.Errorf("Status = %d, want %d", outcome.Status, TransportFailure)
	}
	if outcome.Err == nil {
		t.Error("expected non-nil Err")
	}
	if outcome.Body != "" {
		t.Errorf("Body = %q, want empty", outcome.Body)
	}
	if outcome.Delivered() {
		t.Error("expected Delivered to return false")
	}
}

func TestDeliverTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	outcome := client.Deliver(context.Background(), []byte(`{}`))

	if outcome.Status != TransportFailure {
		t.Errorf("Status = %d, want %d", outcome.Status, TransportFailure)
	}
	if outcome.Err == nil {
		t.Error("expected non-nil Err")
	}
}

func TestDeliverTruncatesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(strings.Repeat("x", 5000)))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	outcome := client.Deliver(context.Background(), []byte(`{}`))

	if len(outcome.Body) != maxBodyBytes {
		t.Errorf("Body length = %d, want %d", len(outcome.Body), maxBodyBytes)
	}
}

func TestDeliverUserAgent(t *testing.T) {
	var mu sync.Mutex
	var gotUA string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUA = r.Header.Get("User-Agent")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithUserAgent("dealsync-test/9.9"))
	client.Deliver(context.Background(), []byte(`{}`))

	mu.Lock()
	defer mu.Unlock()
	if gotUA != "dealsync-test/9.9" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "dealsync-test/9.9")
	}
}

func TestOutcomeDelivered(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{200, true},
		{201, true},
		{299, true},
		{300, false},
		{404, false},
		{500, false},
		{TransportFailure, false},
	}

	for _, tt := range tests {
		outcome := Outcome{Status: tt.status}
		if got := outcome.Delivered(); got != tt.want {
			t.Errorf("Outcome{Status: %d}.Delivered() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
