package main

import (
	"log/slog"
	"net/http"
	"os"

	"spartan-health-backend/internal/config"
	"spartan-health-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("main: invalid configuration", "error", err)
		os.Exit(1)
	}
	s, err := server.NewServer(cfg)
	if err != nil {
		slog.Error("main: failed to create server", "error", err)
		os.Exit(1)
	}
	addr := ":" + cfg.Port
	slog.Info("main: spartan health agent backend listening", "addr", addr)
	if err := http.ListenAndServe(addr, s.Router()); err != nil {
		slog.Error("main: server exited", "error", err)
		os.Exit(1)
	}
}
