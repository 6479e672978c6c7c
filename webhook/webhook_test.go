package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/startech-innovation/sitekit/models"
)

func TestNewEvent(t *testing.T) {
	ok := NewEvent("run-1", &models.RunSummary{})
	if ok.Type != EventCompleted || ok.RunID != "run-1" {
		t.Errorf("event = %+v", ok)
	}

	failed := NewEvent("run-2", &models.RunSummary{
		Error: &models.ErrorDetail{Code: models.ErrCodeNavTimeout, Message: "timeout"},
	})
	if failed.Type != EventFailed {
		t.Errorf("Type = %s, want %s", failed.Type, EventFailed)
	}
}

func TestDeliver_SignsBody(t *testing.T) {
	const secret = "s3cret"
	var (
		gotSig  string
		gotBody []byte
		gotUA   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get(SignatureHeader)
		gotUA = r.Header.Get("User-Agent")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, secret)
	event := NewEvent("run-1", &models.RunSummary{
		Pages:     []models.PageResult{{Name: "home", URL: "https://example.com/"}},
		Aggregate: "captured/all-content.json",
	})
	if err := n.Deliver(context.Background(), event); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if want := "sha256=" + Sign(secret, gotBody); gotSig != want {
		t.Errorf("signature = %q, want %q", gotSig, want)
	}
	if gotUA != "Sitekit-Webhook/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	var decoded Event
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.Type != EventCompleted || len(decoded.Data.Pages) != 1 || decoded.Data.Pages[0].Name != "home" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestDeliver_NoSecretNoSignature(t *testing.T) {
	var hasSig atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasSig.Store(r.Header.Get(SignatureHeader) != "")
	}))
	defer srv.Close()

	if err := NewNotifier(srv.URL, "").Deliver(context.Background(), NewEvent("r", &models.RunSummary{})); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if hasSig.Load() {
		t.Error("signature header sent without a secret")
	}
}

func TestNotify_Retries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "")
	n.Delays = []time.Duration{0, time.Millisecond, time.Millisecond}

	if err := n.Notify(context.Background(), NewEvent("r", &models.RunSummary{})); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestNotify_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, "")
	n.Delays = []time.Duration{0, time.Millisecond}

	if err := n.Notify(context.Background(), NewEvent("r", &models.RunSummary{})); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
}
