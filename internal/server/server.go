package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"spartan-health-backend/internal/agent"
	"spartan-health-backend/internal/config"
	"spartan-health-backend/internal/iam"
	"spartan-health-backend/internal/profile"
	"spartan-health-backend/internal/store"
	"spartan-health-backend/internal/types"
)

// AgentCaller is the gateway surface the handlers need; satisfied by
// *agent.Client.
type AgentCaller interface {
	Send(ctx context.Context, userText string, profileVars map[string]any, includeProfile bool) (string, error)
}

type Server struct {
	router  *chi.Mux
	store   *store.MemoryStore
	agent   AgentCaller
	prompts profile.Spec
	cfg     config.Config
}

func NewServer(cfg config.Config) (*Server, error) {
	tokens := iam.New(cfg.IAMTokenURL, cfg.APIKey, cfg.IAMTimeout)
	client := agent.NewClient(cfg.AgentURL, tokens, cfg.AgentTimeout)
	prompts, err := profile.LoadSpec(cfg.QuickStartPromptFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load quick-start prompts: %w", err)
	}
	return newServer(cfg, client, prompts), nil
}

func newServer(cfg config.Config, caller AgentCaller, prompts profile.Spec) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true, // Enable credentials for cookies
		MaxAge:           300,
	}))

	s := &Server{
		router:  r,
		store:   store.NewMemoryStore(cfg.MaxSessionMessages),
		agent:   caller,
		prompts: prompts,
		cfg:     cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Get("/api/chat/history", s.handleChatHistory)
	s.router.Post("/api/chat/reset", s.handleChatReset)
	s.router.Get("/api/profile", s.handleGetProfile)
	s.router.Post("/api/profile", s.handleSaveProfile)
	s.router.Get("/api/quickstart", s.handleQuickStart)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sid := getOrCreateSessionID(r, w)
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	s.store.MarkQuickStartUsed(sid)
	s.store.Append(sid, store.Message{Role: "user", Content: req.Message})

	reply, err := s.agent.Send(r.Context(), req.Message, s.store.GetProfile(sid), req.IncludeProfile)
	if err != nil {
		// One turn, one reply: auth and gateway failures become the
		// assistant's reply instead of killing the session.
		slog.Error("server.handleChat: agent call failed", "session", sid, "error", err)
		reply = "Sorry, the agent could not respond.\n\n" + err.Error()
	}
	s.store.Append(sid, store.Message{Role: "assistant", Content: reply})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.ChatResponse{SessionID: sid, Reply: reply})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	resp := struct {
		SessionID string          `json:"sessionId"`
		Messages  []store.Message `json:"messages"`
	}{SessionID: sid, Messages: s.store.Get(sid)}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	s.store.Reset(sid)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req types.ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sid := getOrCreateSessionID(r, w)
	prof := profile.Build(map[string]string{
		"age":      req.Age,
		"sex":      req.Sex,
		"height":   req.Height,
		"weight":   req.Weight,
		"activity": req.Activity,
		"goal":     req.Goal,
	})
	s.store.SetProfile(sid, prof)
	slog.Debug("server.handleSaveProfile: profile saved", "session", sid, "fields", len(prof))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.ProfileResponse{SessionID: sid, Profile: prof})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.ProfileResponse{SessionID: sid, Profile: s.store.GetProfile(sid)})
}

func (s *Server) handleQuickStart(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	resp := types.QuickStartResponse{
		SessionID: sid,
		Prompts:   s.prompts.QuickStartPrompts(s.store.GetProfile(sid)),
		Used:      s.store.QuickStartUsed(sid),
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}

func newSessionID() string {
	return fmt.Sprintf("s_%d", time.Now().UnixNano())
}

// getSessionID retrieves the session ID from cookie or header/query fallback
func getSessionID(r *http.Request) string {
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		return cookie
	}
	if sid := r.Header.Get("X-Session-Id"); sid != "" {
		return sid
	}
	if sid := r.URL.Query().Get("sessionId"); sid != "" {
		return sid
	}
	return ""
}

// getOrCreateSessionID gets the existing session ID or creates a new one,
// setting the cookie
func getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = newSessionID()
		slog.Debug("server.getOrCreateSessionID: new session", "session", sid, "path", r.URL.Path)
		SetSessionCookie(w, sid)
	}
	return sid
}
