package terminal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:6542", "test-token")

		if c.baseURL != "http://127.0.0.1:6542" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "http://127.0.0.1:6542")
		}
		if c.authToken != "test-token" {
			t.Errorf("authToken = %q, want %q", c.authToken, "test-token")
		}
		if c.httpClient.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 10*time.Second)
		}
		if c.maxRetries != 2 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 2)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:6542", "", WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with retries option", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:6542", "", WithRetries(5, 2*time.Second))
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("http://127.0.0.1:6542", "", WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("http://127.0.0.1:6542", "", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

// TestBridgeError tests the BridgeError type.
func TestBridgeError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &BridgeError{
			StatusCode: 404,
			Message:    "Not Found",
			Body:       []byte(`{"error": "position not found"}`),
		}
		expected := "bridge api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{500, true},
			{502, true},
			{503, true},
			{429, true},
			{400, false},
			{401, false},
			{404, false},
			{200, false},
		}

		for _, tt := range tests {
			err := &BridgeError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.expected {
				t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.expected)
			}
		}
	})
}

// TestDoRequest tests the HTTP request functionality.
func TestDoRequest(t *testing.T) {
	t.Run("successful request with auth", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			if r.Header.Get("Authorization") != "Bearer test-token" {
				t.Errorf("Authorization header = %q, want %q", r.Header.Get("Authorization"), "Bearer test-token")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status": "ok"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-token")
		body, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"status": "ok"}` {
			t.Errorf("body = %q, want %q", string(body), `{"status": "ok"}`)
		}
	})

	t.Run("request without auth token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				t.Errorf("Authorization header should be empty, got %q", r.Header.Get("Authorization"))
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "")
		_, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("4xx error returns BridgeError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "not found"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "token")
		_, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		bridgeErr, ok := err.(*BridgeError)
		if !ok {
			t.Fatalf("expected *BridgeError, got %T", err)
		}
		if bridgeErr.StatusCode != 404 {
			t.Errorf("StatusCode = %d, want %d", bridgeErr.StatusCode, 404)
		}
		if !strings.Contains(string(bridgeErr.Body), "not found") {
			t.Errorf("Body should contain 'not found', got %q", string(bridgeErr.Body))
		}
	})

	t.Run("retries on 5xx then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"total": 3}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "", WithRetries(2, time.Millisecond))
		total, err := c.DealCount(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if calls.Load() != 2 {
			t.Errorf("calls = %d, want 2", calls.Load())
		}
	})

	t.Run("does not retry on 4xx", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		c := NewClient(server.URL, "", WithRetries(3, time.Millisecond))
		_, err := c.DealCount(context.Background())
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})
}

// TestEndpoints tests the typed endpoint methods against a fake bridge.
func TestEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/account":
			w.Write([]byte(`{"login":"77281","name":"Demo User","server":"Demo-Server","currency":"USD"}`))
		case "/api/v1/history/deals/count":
			w.Write([]byte(`{"total": 250}`))
		case "/api/v1/history/deals":
			if got := r.URL.Query().Get("offset"); got != "150" {
				t.Errorf("offset = %q, want %q", got, "150")
			}
			if got := r.URL.Query().Get("limit"); got != "100" {
				t.Errorf("limit = %q, want %q", got, "100")
			}
			w.Write([]byte(`{"tickets":[501,502,503],"total":250}`))
		case "/api/v1/history/deals/501":
			w.Write([]byte(`{"deal":{"ticket":501,"position_id":400,"symbol":"EURUSD","type":"buy","entry":"in","volume":0.1,"price":1.08345,"profit":0,"time":1755770400}}`))
		case "/api/v1/positions/400":
			w.Write([]byte(`{"position":{"id":400,"symbol":"EURUSD","type":"sell","volume":0.25,"open_price":1.08345,"current_price":1.08122,"sl":1.089,"tp":1.075,"profit":55.75,"opened_at":1755770400,"updated_at":1755774000}}`))
		case "/api/v1/positions/999":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"position not found"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	ctx := context.Background()

	t.Run("Account", func(t *testing.T) {
		acct, err := c.Account(ctx)
		if err != nil {
			t.Fatalf("Account failed: %v", err)
		}
		if acct.Login != "77281" {
			t.Errorf("Login = %q, want %q", acct.Login, "77281")
		}
	})

	t.Run("DealCount", func(t *testing.T) {
		total, err := c.DealCount(ctx)
		if err != nil {
			t.Fatalf("DealCount failed: %v", err)
		}
		if total != 250 {
			t.Errorf("total = %d, want 250", total)
		}
	})

	t.Run("DealTickets", func(t *testing.T) {
		tickets, err := c.DealTickets(ctx, 150, 100)
		if err != nil {
			t.Fatalf("DealTickets failed: %v", err)
		}
		if len(tickets) != 3 || tickets[0] != 501 {
			t.Errorf("tickets = %v, want [501 502 503]", tickets)
		}
	})

	t.Run("DealByTicket", func(t *testing.T) {
		deal, err := c.DealByTicket(ctx, 501)
		if err != nil {
			t.Fatalf("DealByTicket failed: %v", err)
		}
		if deal.Ticket != 501 {
			t.Errorf("Ticket = %d, want 501", deal.Ticket)
		}
		if deal.PositionID != 400 {
			t.Errorf("PositionID = %d, want 400", deal.PositionID)
		}
		if deal.Type != "buy" || deal.Entry != "in" {
			t.Errorf("Type/Entry = %q/%q, want buy/in", deal.Type, deal.Entry)
		}
	})

	t.Run("PositionByID", func(t *testing.T) {
		pos, err := c.PositionByID(ctx, 400)
		if err != nil {
			t.Fatalf("PositionByID failed: %v", err)
		}
		if pos.ID != 400 {
			t.Errorf("ID = %d, want 400", pos.ID)
		}
		if pos.Type != 1 {
			t.Errorf("Type = %d, want 1 (sell)", pos.Type)
		}
	})

	t.Run("PositionByID gone", func(t *testing.T) {
		_, err := c.PositionByID(ctx, 999)
		if !errors.Is(err, ErrPositionGone) {
			t.Errorf("error = %v, want ErrPositionGone", err)
		}
	})
}
