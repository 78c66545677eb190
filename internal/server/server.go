// Package server exposes the vault over HTTP. The hosting boundary supplies
// the caller identity via the X-Vault-Account header; there is no further
// auth layer.
package server

import (
	"context"
	"log"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vaultbank/vaultd/internal/store"
	"github.com/vaultbank/vaultd/internal/vault"
)

// AccountHeader carries the authenticated caller identity.
const AccountHeader = "X-Vault-Account"

type Server struct {
	vault  *vault.Vault
	store  *store.Store
	hub    *eventHub
	router chi.Router
	addr   string
}

// New builds the API server and installs itself as the vault's event sink:
// every successful operation is persisted to the store and fanned out to
// websocket subscribers, in journal order.
func New(v *vault.Vault, st *store.Store, addr string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{vault: v, store: st, hub: newEventHub(), router: r, addr: addr}
	v.SetSink(s.handleEvent)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/deposit", s.deposit)
		r.Post("/withdraw", s.withdraw)
		r.Get("/balance", s.balance)
		r.Get("/stats", s.stats)
		r.Get("/capacity", s.capacity)
		r.Get("/limits", s.limits)
		r.Get("/events", s.listEvents)
		r.Get("/events/ws", s.streamEvents)
		r.Get("/payouts", s.listPayouts)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return s
}

func (s *Server) handleEvent(e vault.Event) {
	if s.store != nil {
		if err := s.store.ApplyEvent(context.Background(), e); err != nil {
			log.Printf("persist event %s: %v", e.ID, err)
		}
	}
	s.hub.broadcast(e)
}

func (s *Server) ListenAndServe() error {
	log.Printf("vaultd server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	log.Printf("vaultd server listening on %s", ln.Addr())
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
