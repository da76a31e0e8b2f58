package chat

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSend(t *testing.T) {
	var captured webhookRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`[{"output":"hello back"}]`))
	}))
	defer server.Close()

	client, err := NewClient(Options{
		WebhookURL: server.URL,
		SessionID:  "conv-1",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	reply, err := client.Send(context.Background(), "hi", []byte("img-bytes"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "hello back" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if captured.Message != "hi" || captured.SessionID != "conv-1" {
		t.Fatalf("unexpected payload: %+v", captured)
	}
	if got, _ := base64.StdEncoding.DecodeString(captured.Image); string(got) != "img-bytes" {
		t.Fatalf("image not base64-embedded: %q", captured.Image)
	}
}

func TestClientSendOmitsEmptyImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := raw["image"]; ok {
			t.Errorf("image field present on text-only message")
		}
		w.Write([]byte(`{"output":"ok"}`))
	}))
	defer server.Close()

	client, err := NewClient(Options{WebhookURL: server.URL, SessionID: "conv-1", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Send(context.Background(), "hi", nil); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestClientSendStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow not active", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(Options{WebhookURL: server.URL, SessionID: "conv-1", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Send(context.Background(), "hi", nil); err == nil {
		t.Fatalf("expected error on 500 reply")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Options{SessionID: "conv-1"}); err == nil {
		t.Fatalf("expected error for missing webhook url")
	}
	if _, err := NewClient(Options{WebhookURL: "https://example.com/hook"}); err == nil {
		t.Fatalf("expected error for missing session id")
	}
}

func TestTranscriptAppendTokenizes(t *testing.T) {
	tr := NewTranscript()
	tr.Append(SenderUser, "hello", "/v1/blobs/abc")
	msg := tr.Append(SenderAssistant, "see ![p](https://a.test/p.png)", "")

	if len(msg.Segments) != 2 || msg.Segments[1].Kind != SegmentImage {
		t.Fatalf("assistant message not tokenized: %+v", msg.Segments)
	}

	got := tr.List()
	if len(got) != 2 || got[0].Sender != SenderUser || got[1].Sender != SenderAssistant {
		t.Fatalf("unexpected transcript: %+v", got)
	}
	if got[0].ImageURL != "/v1/blobs/abc" {
		t.Fatalf("user image url dropped: %+v", got[0])
	}
}
