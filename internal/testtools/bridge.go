// Package testtools provides a fake light bridge for testing.
package testtools

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Request is a modifier request received by the Bridge.
type Request struct {
	Scope     string
	Target    string
	Kind      string   `json:"kind"`
	Duration  float64  `json:"duration"`
	Color     []int    `json:"color,omitempty"`
	Intensity *float64 `json:"intensity,omitempty"`
}

// Bridge emulates the game server's light bridge. Requests for unknown zones or rooms return 404.
type Bridge struct {
	router   chi.Router
	zones    []string
	rooms    []string
	fail     bool
	requests []Request
	lock     sync.Mutex
}

var _ http.Handler = &Bridge{}

// NewBridge returns a Bridge that knows the given zones and rooms.
func NewBridge(zones, rooms []string) *Bridge {
	b := Bridge{zones: zones, rooms: rooms}
	r := chi.NewRouter()
	r.Post("/zones/{target}/modifiers", b.handle("zone", b.zones))
	r.Post("/rooms/{target}/modifiers", b.handle("room", b.rooms))
	b.router = r
	return &b
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// SetFail makes all subsequent requests return 500 (fail is true) or be handled normally (fail is false).
func (b *Bridge) SetFail(fail bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.fail = fail
}

func (b *Bridge) failing() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.fail
}

func (b *Bridge) handle(scope string, known []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b.failing() {
			http.Error(w, "bridge unavailable", http.StatusInternalServerError)
			return
		}
		target := chi.URLParam(r, "target")
		if !slices.Contains(known, target) {
			http.Error(w, scope+" "+target+" not found", http.StatusNotFound)
			return
		}
		req := Request{Scope: scope, Target: target}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.lock.Lock()
		b.requests = append(b.requests, req)
		b.lock.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

// Requests returns all modifier requests received so far.
func (b *Bridge) Requests() []Request {
	b.lock.Lock()
	defer b.lock.Unlock()
	return slices.Clone(b.requests)
}
