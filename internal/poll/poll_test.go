package poll

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/detectabb/detectago/internal/client"
	"github.com/detectabb/detectago/internal/common"
)

func newTestPoller(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Poller, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := client.New(client.Config{BaseURL: srv.URL}, nil, nil)
	base := []Option{WithBackoffStep(time.Millisecond)}
	return New(api, nil, append(base, opts...)...), srv
}

func TestAwaitReturnsOnceRecordHasContent(t *testing.T) {
	attempts := 0
	p, _ := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analise/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		attempts++
		w.Header().Set("Content-Type", "application/json")
		if attempts < 3 {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"id": "abc123",
			"dados_extraidos": {"codigo_banco": "237", "valor": 150.0},
			"resultado_final": {"is_fraudulento": false}
		}`))
	})

	rec, err := p.Await(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if rec.Dados == nil || rec.Dados.CodigoBanco != "237" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.IsFraudulento() {
		t.Error("record should be authentic")
	}
}

func TestAwaitExhaustsAfterTenAttempts(t *testing.T) {
	attempts := 0
	p, _ := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := p.Await(context.Background(), "never-done")
	if !errors.Is(err, common.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if attempts != 10 {
		t.Errorf("expected exactly 10 attempts, got %d", attempts)
	}
}

func TestAwaitSwallowsNetworkErrors(t *testing.T) {
	attempts := 0
	p, _ := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultado_final": {"is_fraudulento": false}}`))
	})

	rec, err := p.Await(context.Background(), "abc")
	if err != nil {
		t.Fatalf("transient failures must not be fatal: %v", err)
	}
	if !rec.HasContent() {
		t.Error("expected a usable record after retry")
	}
}

func TestAwaitHonorsAttemptOption(t *testing.T) {
	attempts := 0
	p, _ := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		_, _ = w.Write([]byte(`{}`))
	}, WithMaxAttempts(3))

	_, err := p.Await(context.Background(), "x")
	if !errors.Is(err, common.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestAwaitCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p, _ := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		cancel()
		_, _ = w.Write([]byte(`{}`))
	}, WithBackoffStep(time.Hour))

	_, err := p.Await(ctx, "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLatestCachesLastCompleteRecord(t *testing.T) {
	count := 0
	p, srv := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		count++
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id": "r%d", "resultado_final": {"is_fraudulento": false}}`, count)
	})

	if _, err := p.Latest(); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("empty cache should fail immediately with ErrNotFound, got %v", err)
	}

	if _, err := p.Await(context.Background(), "r1"); err != nil {
		t.Fatalf("Await: %v", err)
	}
	srv.Close()

	// Server gone: the fallback must come from the cache, no network.
	rec, err := p.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if rec.ID != "r1" {
		t.Errorf("cached record id = %q, want r1", rec.ID)
	}
}
