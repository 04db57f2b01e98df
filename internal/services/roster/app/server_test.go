package server

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/grant"
	"github.com/louisbranch/gamekeeper/internal/services/roster/domain/roster"
)

func startServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
		srv.Close()
	})
	return srv
}

func TestNewServerValidatesConfig(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "roster.db")
	if _, err := NewServer(Config{DBPath: dbPath}); err == nil {
		t.Fatal("expected error for empty http address")
	}
	if _, err := NewServer(Config{HTTPAddr: "127.0.0.1:0"}); err == nil {
		t.Fatal("expected error for empty db path")
	}
}

func TestServerServesHealthAndMarks(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "roster.db")
	srv := startServer(t, Config{HTTPAddr: "127.0.0.1:0", DBPath: dbPath})

	if err := srv.store.PutPlayer(context.Background(), roster.Player{ID: 1, DisplayName: "Ana"}); err != nil {
		t.Fatalf("put player: %v", err)
	}

	base := "http://" + srv.Addr()
	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp, err = http.Post(base+"/v1/player/1/deletion", "application/json", nil)
	if err != nil {
		t.Fatalf("post mark: %v", err)
	}
	var body struct {
		Deleted bool `json:"deleted"`
	}
	err = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode mark response: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Deleted {
		t.Fatalf("mark = (%d, %v), want (200, true)", resp.StatusCode, body.Deleted)
	}

	resp, err = http.Post(base+"/v1/player/999/deletion", "application/json", nil)
	if err != nil {
		t.Fatalf("post mark missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("mark missing status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestServerEnforcesGrantsWhenConfigured(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := startServer(t, Config{
		HTTPAddr: "127.0.0.1:0",
		DBPath:   filepath.Join(t.TempDir(), "roster.db"),
		Grants:   &grant.Config{Issuer: "gamekeeper", Audience: "roster", Key: publicKey},
	})

	resp, err := http.Post("http://"+srv.Addr()+"/v1/purge", "application/json", nil)
	if err != nil {
		t.Fatalf("post purge: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("purge status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestServeNilServer(t *testing.T) {
	var srv *Server
	if err := srv.Serve(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	srv.Close()
}
