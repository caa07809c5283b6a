package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taxfiler/internal/app"
	"taxfiler/internal/core"
)

// Handler exposes report generation over HTTP. There is no UI and no auth
// here: both live in external collaborators.
type Handler struct {
	svc app.Service
}

// NewHandler creates and wires the chi router.
func NewHandler(svc app.Service) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)

	r.Get("/healthz", h.health)
	r.Get("/api/clients/{taxID}/reports/{period}", h.report)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// report generates the filing report for one client and period. By default
// it returns a JSON envelope with both file bodies and the totals; with
// ?format=txt or ?format=tetu it returns the raw file.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	req := app.GenerateReportRequest{
		TaxID:     chi.URLParam(r, "taxID"),
		YearMonth: chi.URLParam(r, "period"),
	}

	result, err := h.svc.GenerateReport(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrClientNotFound):
			writeError(w, r, err.Error(), "CLIENT_NOT_FOUND", http.StatusNotFound)
		case errors.Is(err, core.ErrPeriodNotFound):
			writeError(w, r, err.Error(), "PERIOD_NOT_FOUND", http.StatusNotFound)
		default:
			writeError(w, r, err.Error(), "REPORT_FAILED", http.StatusUnprocessableEntity)
		}
		return
	}

	switch r.URL.Query().Get("format") {
	case "txt":
		writeFile(w, result.Txt)
	case "tetu":
		writeFile(w, result.TetU)
	case "":
		writeJSON(w, result)
	default:
		writeError(w, r, "unknown format", "BAD_REQUEST", http.StatusBadRequest)
	}
}

func writeFile(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
