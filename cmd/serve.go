package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/finsight/kpiscan/internal/model"
	"github.com/finsight/kpiscan/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored extraction results over a read-only JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedMethods: []string{http.MethodGet},
			AllowedOrigins: []string{"*"},
		}))
		r.Use(rateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/documents", func(w http.ResponseWriter, r *http.Request) {
			docs, err := st.ListDocuments(r.Context(), store.DocumentFilter{
				Symbol: r.URL.Query().Get("symbol"),
				Status: model.ProcessingStatus(r.URL.Query().Get("status")),
			})
			if err != nil {
				serverError(w, "list documents", err)
				return
			}
			writeJSON(w, http.StatusOK, docs)
		})

		r.Get("/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
			doc, err := st.GetDocument(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, `{"error":"document not found"}`, http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, doc)
		})

		r.Get("/documents/{id}/kpis", func(w http.ResponseWriter, r *http.Request) {
			kpis, err := st.ListKPIs(r.Context(), store.KPIFilter{
				DocumentID: chi.URLParam(r, "id"),
			})
			if err != nil {
				serverError(w, "list document kpis", err)
				return
			}
			writeJSON(w, http.StatusOK, kpis)
		})

		r.Get("/kpis", func(w http.ResponseWriter, r *http.Request) {
			kpis, err := st.ListKPIs(r.Context(), store.KPIFilter{
				Symbol:  r.URL.Query().Get("symbol"),
				KPIType: model.KPIType(r.URL.Query().Get("type")),
			})
			if err != nil {
				serverError(w, "list kpis", err)
				return
			}
			writeJSON(w, http.StatusOK, kpis)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// rateLimiter applies a shared token bucket to all requests.
func rateLimiter(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func serverError(w http.ResponseWriter, action string, err error) {
	zap.L().Error("serve: "+action, zap.Error(err))
	http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
}
