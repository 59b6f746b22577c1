package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/precheck"
	dErrors "github.com/Sundsvallskommun/api-service-postportalservice/pkg/domain-errors"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/httputil"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/requestcontext"
)

// PrecheckService is the precheck surface the handler needs.
type PrecheckService interface {
	Run(ctx context.Context, req precheck.Request) (*precheck.Result, error)
}

// PrecheckHandler serves eligibility prechecks and CSV validation.
type PrecheckHandler struct {
	precheck PrecheckService
	logger   *slog.Logger
}

func NewPrecheckHandler(pc PrecheckService, logger *slog.Logger) *PrecheckHandler {
	return &PrecheckHandler{precheck: pc, logger: logger}
}

func (h *PrecheckHandler) Register(r chi.Router) {
	r.Post("/{municipalityId}/precheck", h.handlePrecheck)
	r.Post("/{municipalityId}/validate-csv", h.handleValidateCsv)
}

type precheckRequest struct {
	OrgNumber       string   `json:"orgNumber"`
	PersonalNumbers []string `json:"personalNumbers"`
}

type precheckEntry struct {
	PersonalNumber string `json:"personalNumber"`
	PartyID        string `json:"partyId,omitempty"`
	DeliveryMethod string `json:"deliveryMethod"`
	Reason         string `json:"reason,omitempty"`
}

type precheckResponse struct {
	Recipients []precheckEntry `json:"recipients"`
}

func (h *PrecheckHandler) handlePrecheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[precheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if len(req.PersonalNumbers) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "personalNumbers must not be empty"))
		return
	}

	result, err := h.precheck.Run(ctx, precheck.Request{
		MunicipalityID: chi.URLParam(r, "municipalityId"),
		OrgNumber:      req.OrgNumber,
		LegalIDs:       req.PersonalNumbers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "precheck failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := precheckResponse{Recipients: make([]precheckEntry, 0, len(result.Outcomes))}
	for _, outcome := range result.Outcomes {
		resp.Recipients = append(resp.Recipients, precheckEntry{
			PersonalNumber: outcome.LegalID,
			PartyID:        outcome.PartyID,
			DeliveryMethod: string(outcome.DeliveryMethod),
			Reason:         outcome.Reason,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

type csvValidationResponse struct {
	BadEntries       []string       `json:"badEntries,omitempty"`
	DuplicateEntries map[string]int `json:"duplicateEntries,omitempty"`
}

// handleValidateCsv accepts the recipient list either as a multipart "file"
// part or as the raw request body.
func (h *PrecheckHandler) handleValidateCsv(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body := r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		body = file
	}

	report, err := precheck.ValidateCsv(body)
	if err != nil {
		h.logger.WarnContext(ctx, "csv validation rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, csvValidationResponse{
		BadEntries:       report.BadEntries,
		DuplicateEntries: report.DuplicateEntries,
	})
}

var _ PrecheckService = (*precheck.Service)(nil)
