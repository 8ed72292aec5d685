// Package web provides an HTTP status server for the voltmeter daemon.
package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sweeney/segment-voltmeter/internal/status"
)

// SelfTester runs the display's diagnostic pattern sequence.
type SelfTester interface {
	RunValueTest(ctx context.Context, step time.Duration) error
}

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	tester     SelfTester
	step       time.Duration
	testing    atomic.Bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// New creates a Server that reads state from the given tracker. When tester
// is non-nil, POST /selftest runs the display test with the given step.
func New(addr string, tracker *status.Tracker, tester SelfTester, step time.Duration) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{tracker: tracker, tester: tester, step: step, ctx: ctx, cancel: cancel}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/selftest", s.handleSelfTest)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server and aborts a running self test.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.tester != nil)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleSelfTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.tester == nil {
		http.NotFound(w, r)
		return
	}
	if !s.testing.CompareAndSwap(false, true) {
		http.Error(w, "self test already running", http.StatusConflict)
		return
	}

	go func() {
		defer s.testing.Store(false)
		log.Printf("display self test started")
		if err := s.tester.RunValueTest(s.ctx, s.step); err != nil {
			log.Printf("display self test aborted: %v", err)
			return
		}
		log.Printf("display self test finished")
	}()

	w.WriteHeader(http.StatusAccepted)
}
