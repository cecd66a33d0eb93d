package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/courtdata/atp-proxy/internal/platform/logging"
	"github.com/courtdata/atp-proxy/internal/usecase"
)

type Handler struct {
	tournamentService *usecase.TournamentService
	matchService      *usecase.MatchService
	h2hService        *usecase.H2HService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	tournamentService *usecase.TournamentService,
	matchService *usecase.MatchService,
	h2hService *usecase.H2HService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService: tournamentService,
		matchService:      matchService,
		h2hService:        h2hService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseFlattenParam accepts the usual boolean spellings; anything else is a
// client error rather than a silent default.
func parseFlattenParam(r *http.Request) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("flatten"))
	if raw == "" {
		return false, nil
	}

	flatten, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: flatten=%q is not a boolean", usecase.ErrInvalidInput, raw)
	}

	return flatten, nil
}

type matchQueryParams struct {
	Year int `validate:"omitempty,gte=1900,lte=2200"`
}

func (h *Handler) parseYearParam(ctx context.Context, r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return 0, nil
	}

	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: year=%q is not a valid season", usecase.ErrInvalidInput, raw)
	}
	if err := h.validateRequest(ctx, matchQueryParams{Year: year}); err != nil {
		return 0, err
	}

	return year, nil
}
