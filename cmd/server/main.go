// Command server runs the EduLearn web application: the course catalog,
// account registration and login, the clickstream tracker, and the xlsx
// export.
//
// Configuration comes from the environment (a local .env file is loaded if
// present — cmd/preflight generates one):
//
//	PORT            HTTP port (default 8080)
//	DB_PATH         SQLite database file (default data/edulearn.db)
//	UPLOAD_DIR      attachment directory (default data/uploads)
//	TEMPLATE_DIR    HTML templates (default web/templates)
//	STATIC_DIR      static assets (default web/static)
//	SESSION_SECRET  cookie signing key, required
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/edulearn/internal/server"
)

func main() {
	// Missing .env is fine — real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := server.Config{
		Port:          envInt("PORT", 8080),
		DBPath:        envString("DB_PATH", "data/edulearn.db"),
		UploadDir:     envString("UPLOAD_DIR", "data/uploads"),
		TemplateDir:   envString("TEMPLATE_DIR", "web/templates"),
		StaticDir:     envString("STATIC_DIR", "web/static"),
		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("failed to create database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
