// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"mcp-meal-planner/internal/composer"
	"mcp-meal-planner/internal/config"
	"mcp-meal-planner/internal/health"
	"mcp-meal-planner/internal/logger"
	"mcp-meal-planner/internal/storage"
)

const Version = "1.0.0"

// ErrInvalidParams marks tool arguments the caller got wrong.
var ErrInvalidParams = errors.New("invalid parameters")

type toolHandler func(context.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type MealPlanServer struct {
	info       protocol.Implementation
	httpServer *http.Server
	storage    *storage.SQLiteStorage
	tools      map[string]toolHandler
	config     config.Config
	log        *logger.Logger
}

func NewMealPlanServer(ctx context.Context, cfg config.Config, log *logger.Logger) (*MealPlanServer, error) {
	if log == nil {
		log = logger.Nop()
	}

	// Initialize database
	stor, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := prepareCatalog(ctx, stor, cfg.SeedFile, log); err != nil {
		stor.Close()
		return nil, err
	}

	s := &MealPlanServer{
		info:    protocol.Implementation{Name: "meal-planner", Version: Version},
		storage: stor,
		config:  cfg,
		log:     log,
	}
	s.registerTools()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHTTP)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// prepareCatalog loads the seed file when one is configured, or the
// bundled catalog when the database has no foods yet.
func prepareCatalog(ctx context.Context, stor *storage.SQLiteStorage, seedFile string, log *logger.Logger) error {
	if seedFile == "" {
		n, err := stor.CountFoods(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("using existing food catalog", "foods", n)
			return nil
		}
	}

	seed, err := storage.LoadSeedFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}
	if err := stor.ApplySeed(ctx, seed); err != nil {
		return err
	}
	log.Info("food catalog seeded", "foods", len(seed.Foods), "salads", len(seed.Salads), "file", seedFile)
	return nil
}

// Handler exposes the MCP endpoint.
func (s *MealPlanServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *MealPlanServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Decode the MCP request
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	start := time.Now()
	result, err := handler(r.Context(), &request)
	if err != nil {
		status := statusFor(err)
		s.log.Warn("tool call failed", "tool", request.Name, "status", status, "error", err.Error())
		http.Error(w, err.Error(), status)
		return
	}
	s.log.Debug("tool call", "tool", request.Name, "elapsed", time.Since(start).String())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.log.Error("failed to encode response", "tool", request.Name, "error", err.Error())
	}
}

// statusFor maps caller mistakes to 400 and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidParams),
		errors.Is(err, composer.ErrConfiguration),
		errors.Is(err, health.ErrInvalidHeight),
		errors.Is(err, health.ErrUnknownActivityLevel):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *MealPlanServer) Start(ctx context.Context) error {
	s.log.Info("starting meal planner server", "addr", s.httpServer.Addr, "version", s.info.Version)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *MealPlanServer) Stop(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.storage != nil {
		if cerr := s.storage.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (s *MealPlanServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
