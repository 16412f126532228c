package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/sisu-network/lib/log"
)

type Server struct {
	api           *ApiHandler
	rpcServer     *rpc.Server
	listenAddress string
	srv           *http.Server
}

func NewServer(api *ApiHandler, port int) (*Server, error) {
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName(ApiNamespace, api); err != nil {
		return nil, err
	}

	s := &Server{
		api:           api,
		rpcServer:     rpcServer,
		listenAddress: fmt.Sprintf("0.0.0.0:%d", port),
	}
	s.srv = &http.Server{Handler: s.Handler()}

	return s, nil
}

// Handler serves the json-rpc api at "/" plus a few plain http routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/pending", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.api.ListPendingTransfers())
	})
	r.Handle("/", s.rpcServer)

	return r
}

func (s *Server) Run() error {
	listener, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		return err
	}

	log.Info("Running server at ", s.listenAddress)
	if err := s.srv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.rpcServer.Stop()
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Cannot write response, err = ", err)
	}
}
