package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStubAccepts(t *testing.T) {
	if err := (Stub{}).Send(context.Background(), "SIM001", "+1", "hi"); err != nil {
		t.Fatalf("stub must accept everything, got %v", err)
	}
}

func TestHTTPClientSend(t *testing.T) {
	var gotPath, gotKey string
	var gotBody sendPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret", 2*time.Second)
	if err := c.Send(context.Background(), "SIM001", "+0987654321", "hello"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if gotPath != "/send-sms" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api key = %q", gotKey)
	}
	if gotBody.SimID != "SIM001" || gotBody.To != "+0987654321" || gotBody.Message != "hello" {
		t.Errorf("payload = %+v", gotBody)
	}
}

func TestHTTPClientSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	if err := c.Send(context.Background(), "SIM001", "+1", "hi"); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
