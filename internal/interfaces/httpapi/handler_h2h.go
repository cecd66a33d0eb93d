package httpapi

import (
	"net/http"
)

func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHeadToHead")
	defer span.End()

	flatten, err := parseFlattenParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	player1 := r.PathValue("player1")
	player2 := r.PathValue("player2")

	if flatten {
		flattened, err := h.h2hService.GetFlattened(ctx, player1, player2)
		if err != nil {
			h.logger.WarnContext(ctx, "h2h lookup failed", "player1", player1, "player2", player2, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, flattened)
		return
	}

	raw, err := h.h2hService.GetRaw(ctx, player1, player2)
	if err != nil {
		h.logger.WarnContext(ctx, "h2h lookup failed", "player1", player1, "player2", player2, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, raw)
}
