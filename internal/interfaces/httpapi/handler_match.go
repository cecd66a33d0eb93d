package httpapi

import (
	"net/http"
)

func (h *Handler) LookupMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LookupMatches")
	defer span.End()

	flatten, err := parseFlattenParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := h.parseYearParam(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.LookupMatches(ctx, r.PathValue("id"), year, flatten)
	if err != nil {
		h.logger.WarnContext(ctx, "match lookup failed", "tournament", r.PathValue("id"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	flatten, err := parseFlattenParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := h.parseYearParam(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	payload, err := h.matchService.GetMatch(ctx, r.PathValue("id"), r.PathValue("matchID"), year, flatten)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, payload)
}
