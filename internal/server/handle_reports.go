package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cybersim/horacero/internal/horacero"
)

func handleAdminListReports(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := store.ListReports(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if reports == nil {
			reports = []horacero.Report{}
		}
		writeJSON(w, http.StatusOK, reports)
	}
}

func handleAdminGetReport(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := normalizeCode(chi.URLParam(r, "sessionID"))
		report, err := store.GetReport(r.Context(), sessionID)
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
