// Package server is the HTTP surface: the secret-gated operator console,
// the websocket endpoint, metrics, and the static site.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/digkill/adboard/internal/config"
	"github.com/digkill/adboard/internal/metrics"
	"github.com/digkill/adboard/internal/realtime"
	"github.com/digkill/adboard/internal/service"
)

// DiagFunc reports which storage tables are present; backs /check-db.
type DiagFunc func(ctx context.Context) (map[string]bool, error)

type Server struct {
	addr       string
	secret     string
	publicDir  string
	log        *slog.Logger
	promos     *service.PromoService
	moderation *service.ModerationService
	diag       DiagFunc
	router     *chi.Mux
	tmpl       *template.Template
}

func New(cfg config.Config, log *slog.Logger, promos *service.PromoService, moderation *service.ModerationService, hub *realtime.Hub, diag DiagFunc) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{
		addr:       cfg.ListenAddr,
		secret:     cfg.ModerationSecret,
		publicDir:  cfg.PublicDir,
		log:        log,
		promos:     promos,
		moderation: moderation,
		diag:       diag,
		router:     r,
		tmpl:       template.Must(template.New("moderate").Parse(moderateTemplate)),
	}

	r.Get("/ws", hub.ServeWS)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(protected chi.Router) {
		protected.Use(s.secretMiddleware())
		protected.Get("/generate-promo", s.handleGeneratePromo)
		protected.Get("/moderate", s.handleModerate)
		protected.Get("/approve/{id}", s.transition("approve", s.moderation.Approve))
		protected.Get("/reject/{id}", s.transition("reject", s.moderation.Reject))
		protected.Get("/delete-ad/{id}", s.transition("delete-ad", s.moderation.DeleteAd))
		protected.Get("/make-permanent/{id}", s.transition("make-permanent", s.moderation.MakePermanent))
		protected.Get("/remove-permanent/{id}", s.transition("remove-permanent", s.moderation.RemovePermanent))
		protected.Get("/check-db", s.handleCheckDB)
	})

	if s.publicDir != "" {
		if info, err := os.Stat(s.publicDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(s.publicDir)))
		}
	}

	return s
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("server shutdown error", "err", err)
		}
	}()

	s.log.Info("ad board listening", "addr", s.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) secretMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("secret") != s.secret {
				http.Error(w, "access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// transition wraps a moderation state change: parse the id, run it, map the
// outcome, and bounce the operator back to the console.
func (s *Server) transition(name string, fn func(ctx context.Context, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		if err := fn(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				http.Error(w, "ad not found", http.StatusNotFound)
			case errors.Is(err, service.ErrNotApproved), errors.Is(err, service.ErrAlreadyPermanent):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				s.internalError(w, name, err)
			}
			return
		}
		s.redirectToModeration(w, r)
	}
}

func (s *Server) redirectToModeration(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/moderate?secret="+url.QueryEscape(r.URL.Query().Get("secret")), http.StatusSeeOther)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error("handler error", "op", op, "err", err)
	http.Error(w, "server error", http.StatusInternalServerError)
}

func parseID(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}
