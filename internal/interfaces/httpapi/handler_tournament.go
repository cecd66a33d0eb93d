package httpapi

import (
	"net/http"
)

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	records, err := h.tournamentService.ListTournaments(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"count":       len(records),
		"tournaments": records,
	})
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	record, err := h.tournamentService.GetTournament(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, record)
}
