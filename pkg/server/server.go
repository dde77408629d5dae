package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"walletwatch/pkg/metrics"
	"walletwatch/pkg/wallet"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeWait bounds each WebSocket write so a stalled client is dropped
// instead of holding up the broadcast.
var writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	wallet  *wallet.Wallet
	chainID int64
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	mux     *http.ServeMux
	logger  *zap.Logger
}

func NewServer(w *wallet.Wallet, chainID int64, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chainID <= 0 {
		chainID = wallet.DefaultChainID
	}
	s := &Server{
		wallet:  w,
		chainID: chainID,
		clients: make(map[*websocket.Conn]bool),
		mux:     http.NewServeMux(),
		logger:  logger.Named("server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/api/address", s.handleAddress)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)
	s.mux.HandleFunc("/api/tokens", s.handleTokens)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
}

// Start serves on port until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	go s.listenToWallet(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("API server listening", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.wallet.Snapshot())
}

// handleAddress selects an address; the refresh it triggers runs in the background.
func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.wallet.SetAddress(strings.TrimSpace(body.Address))
	s.writeJSON(w, http.StatusAccepted, s.wallet.Snapshot())
}

// handleRefresh re-runs balance and transaction lookups for the selected
// address, or ?address= when given, and answers once both are done.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	address := r.URL.Query().Get("address")
	if address == "" {
		address = s.wallet.Address()
	}
	s.wallet.FetchAll(r.Context(), address)
	s.writeJSON(w, http.StatusOK, s.wallet.Snapshot())
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.wallet.Tokens())
	case http.MethodPost:
		chainID := s.chainID
		if v := r.URL.Query().Get("chain_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				s.writeError(w, http.StatusBadRequest, "invalid chain_id")
				return
			}
			chainID = id
		}
		s.wallet.FetchTokens(r.Context(), s.wallet.Address(), chainID)
		s.writeJSON(w, http.StatusOK, s.wallet.Tokens())
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	// Send initial state before registering so that broadcasts never
	// interleave with it on the same connection.
	s.mu.Lock()
	initial := map[string]interface{}{
		"type": "initial",
		"data": s.wallet.Snapshot(),
	}
	if err := writeJSONDeadline(conn, initial); err != nil {
		s.mu.Unlock()
		return
	}
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) listenToWallet(ctx context.Context) {
	sub := s.wallet.Subscribe()
	defer s.wallet.Unsubscribe(sub)

	for {
		select {
		case event, ok := <-sub:
			if !ok {
				return
			}
			s.broadcast(event)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) broadcast(event wallet.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := writeJSONDeadline(client, event); err != nil {
			s.logger.Debug("Dropping WebSocket client", zap.Error(err))
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}

func writeJSONDeadline(conn *websocket.Conn, v interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
