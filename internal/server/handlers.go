package server

import (
	"fmt"
	"net/http"

	"github.com/digkill/adboard/internal/database"
)

func (s *Server) handleGeneratePromo(w http.ResponseWriter, r *http.Request) {
	code, err := s.promos.Generate(r.Context())
	if err != nil {
		s.internalError(w, "generate-promo", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Your promo code: %s", code)
}

func (s *Server) handleModerate(w http.ResponseWriter, r *http.Request) {
	listing, err := s.moderation.ListForModeration(r.Context())
	if err != nil {
		s.internalError(w, "moderate", err)
		return
	}
	promos, err := s.promos.List(r.Context())
	if err != nil {
		s.internalError(w, "moderate", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, newModeratePage(r.URL.Query().Get("secret"), listing, promos)); err != nil {
		s.log.Error("render moderation page", "err", err)
	}
}

func (s *Server) handleCheckDB(w http.ResponseWriter, r *http.Request) {
	present, err := s.diag(r.Context())
	if err != nil {
		s.internalError(w, "check-db", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, name := range database.Tables {
		state := "missing"
		if present[name] {
			state = "present"
		}
		fmt.Fprintf(w, "%s: %s\n", name, state)
	}
}
