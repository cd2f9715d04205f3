package server

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"testing"
	"time"

	mailtls "github.com/shineum/notify-mailer/internal/tls"
)

func startServer(t *testing.T, cfg ServerConfig) (*Server, context.CancelFunc, <-chan error) {
	t.Helper()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:0"
	}

	srv := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx)
	}()

	select {
	case <-srv.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server did not start")
	}
	return srv, cancel, done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestListenAndServe_ServesAndStops(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv, cancel, done := startServer(t, ServerConfig{Handler: handler})

	resp, err := http.Get("http://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("response: got %d %q, want 200 %q", resp.StatusCode, body, "ok")
	}

	cancel()
	waitDone(t, done)
}

func TestListenAndServe_DrainsInFlight(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})
	srv, cancel, done := startServer(t, ServerConfig{Handler: handler})

	respCh := make(chan *http.Response, 1)
	errCh := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + srv.Addr() + "/")
		if err != nil {
			errCh <- err
			return
		}
		respCh <- resp
	}()

	<-entered
	cancel()

	select {
	case <-done:
		t.Fatal("server stopped before the in-flight request finished")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case resp := <-respCh:
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}
	case err := <-errCh:
		t.Fatalf("in-flight request failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request did not complete")
	}

	waitDone(t, done)
}

func TestListenAndServe_ForcesCloseAfterTimeout(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})
	srv, cancel, done := startServer(t, ServerConfig{
		Handler:         handler,
		ShutdownTimeout: 50 * time.Millisecond,
	})

	go func() {
		resp, err := http.Get("http://" + srv.Addr() + "/")
		if err == nil {
			resp.Body.Close()
		}
	}()

	<-entered
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not force close")
	}
}

func TestListenAndServe_TLS(t *testing.T) {
	t.Parallel()

	tlsConfig, err := mailtls.LoadOrGenerateTLS(mailtls.Options{})
	if err != nil {
		t.Fatalf("LoadOrGenerateTLS: %v", err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			t.Error("expected a TLS connection")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv, cancel, done := startServer(t, ServerConfig{Handler: handler, TLSConfig: tlsConfig})

	client := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	resp, err := client.Get("https://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	cancel()
	waitDone(t, done)
}

func TestListenAndServe_ListenError(t *testing.T) {
	t.Parallel()

	srv := New(ServerConfig{ListenAddr: "256.0.0.1:99999", Handler: http.NotFoundHandler()})
	if err := srv.ListenAndServe(context.Background()); err == nil {
		t.Error("expected listen error, got nil")
	}
	if got := srv.Addr(); got != "" {
		t.Errorf("Addr(): got %q, want empty", got)
	}
}
