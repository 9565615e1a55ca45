// cmd/mcp-server/main.go — Standalone HTTP MCP server for ocrsolve
//
// Exposes the ocrsolve tools as an HTTP endpoint for agent frameworks and
// for the OCR/speech front ends that forward recognized text.
//
// Usage:
//
//	go run ./cmd/mcp-server -port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
//
// Environment: OCRSOLVE_PORT, OCRSOLVE_LOG_LEVEL, OCRSOLVE_TARGET.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/njchilds90/ocrsolve"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	defaultPort, err := strconv.Atoi(getEnv("OCRSOLVE_PORT", "8080"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid OCRSOLVE_PORT: %v\n", err)
		os.Exit(2)
	}
	port := flag.Int("port", defaultPort, "Port to listen on")
	target := flag.String("target", getEnv("OCRSOLVE_TARGET", ocrsolve.DefaultTarget), "Default variable to solve for")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(getEnv("OCRSOLVE_LOG_LEVEL", "info")),
	}))
	slog.SetDefault(logger)

	*target = ocrsolve.NormalizeTarget(*target)
	if err := ocrsolve.ValidateTarget(*target); err != nil {
		fmt.Fprintf(os.Stderr, "invalid target: %v\n", err)
		os.Exit(2)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           newMux(logger, *target),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("ocrsolve MCP server listening",
		"version", Version,
		"addr", srv.Addr,
		"target", *target,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// newMux registers the tool, schema and health routes. Requests to the
// process and solve tools that name no target get defaultTarget.
func newMux(logger *slog.Logger, defaultTarget string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /tool", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in /tool", "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req ocrsolve.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Ensure there's no trailing junk.
		if dec.More() {
			writeError(w, http.StatusBadRequest, "invalid JSON: trailing data")
			return
		}

		if req.Tool == "process" || req.Tool == "solve" {
			if req.Params == nil {
				req.Params = map[string]interface{}{}
			}
			if _, ok := req.Params["target"]; !ok {
				req.Params["target"] = defaultTarget
			}
		}

		start := time.Now()
		resp := ocrsolve.HandleToolCall(req)
		logger.Info("tool call",
			"tool", req.Tool,
			"duration", time.Since(start),
			"error", resp.Error,
		)
		writeJSON(w, http.StatusOK, resp)
	})

	// Tool schema for agents that register tools at startup.
	mux.HandleFunc("GET /schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, ocrsolve.MCPToolSpec())
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
