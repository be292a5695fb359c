package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/segyhp/auction-billing/internal/domain"
	customError "github.com/segyhp/auction-billing/pkg/errors"
	"github.com/segyhp/auction-billing/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ObligationService is what the HTTP layer needs from the service package
type ObligationService interface {
	CreateObligation(ctx context.Context, request *domain.CreateObligationRequest) (*domain.Obligation, []domain.Installment, error)
	GetObligation(ctx context.Context, reference string) (*domain.Obligation, error)
	ListObligations(ctx context.Context, filter domain.ObligationFilter) ([]*domain.Obligation, error)
	ListPayments(ctx context.Context, reference string) ([]*domain.Payment, error)
	GetSchedule(ctx context.Context, reference string) ([]domain.ScheduledInstallment, error)
	GetStatus(ctx context.Context, reference string) (*domain.StatusResponse, error)
	RegisterPayment(ctx context.Context, reference string) (*domain.Payment, error)
	Settle(ctx context.Context, reference string) (*domain.Obligation, error)
	ValidatePlan(form domain.PlanForm) (domain.PlanValidation, error)
	ExportReport(ctx context.Context, filter domain.ObligationFilter) (*domain.ReportExport, error)
}

type ObligationHandler struct {
	service   ObligationService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewObligationHandler(service ObligationService, logger *zap.Logger) *ObligationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObligationHandler{
		service:   service,
		validator: newValidator(),
		logger:    logger,
	}
}

// RegisterRoutes mounts the obligation API on api, which is expected to be the /api/v1 subrouter
func (h *ObligationHandler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/obligations", h.CreateObligation).Methods(http.MethodPost)
	api.HandleFunc("/obligations", h.ListObligations).Methods(http.MethodGet)
	api.HandleFunc("/obligations/{reference}", h.GetObligation).Methods(http.MethodGet)
	api.HandleFunc("/obligations/{reference}/schedule", h.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/obligations/{reference}/status", h.GetStatus).Methods(http.MethodGet)
	api.HandleFunc("/obligations/{reference}/payments", h.ListPayments).Methods(http.MethodGet)
	api.HandleFunc("/obligations/{reference}/payments", h.RegisterPayment).Methods(http.MethodPost)
	api.HandleFunc("/obligations/{reference}/settle", h.Settle).Methods(http.MethodPost)

	api.HandleFunc("/plans/validate", h.ValidatePlan).Methods(http.MethodPost)
	api.HandleFunc("/reports/obligations", h.ExportReport).Methods(http.MethodPost)
}

// CreateObligation handles POST /obligations
func (h *ObligationHandler) CreateObligation(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateObligationRequest
	if err := h.decode(r, &request); err != nil {
		response.FromError(w, "Invalid request body", err)
		return
	}

	obligation, installments, err := h.service.CreateObligation(r.Context(), &request)
	if err != nil {
		h.fail(w, r, "Failed to create obligation", err)
		return
	}

	response.Created(w, domain.CreateObligationResponse{
		Obligation:   domain.NewObligationResponse(*obligation),
		Installments: installments,
	})
}

// ListObligations handles GET /obligations?auction_id=&payment_type=&open=
func (h *ObligationHandler) ListObligations(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		response.FromError(w, "Invalid filter", err)
		return
	}

	obligations, err := h.service.ListObligations(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list obligations", err)
		return
	}

	items := make([]*domain.ObligationResponse, 0, len(obligations))
	for _, obligation := range obligations {
		items = append(items, domain.NewObligationResponse(*obligation))
	}
	response.Success(w, items)
}

// GetObligation handles GET /obligations/{reference}
func (h *ObligationHandler) GetObligation(w http.ResponseWriter, r *http.Request) {
	obligation, err := h.service.GetObligation(r.Context(), reference(r))
	if err != nil {
		h.fail(w, r, "Failed to get obligation", err)
		return
	}
	response.Success(w, domain.NewObligationResponse(*obligation))
}

// GetSchedule handles GET /obligations/{reference}/schedule
func (h *ObligationHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ref := reference(r)
	rows, err := h.service.GetSchedule(r.Context(), ref)
	if err != nil {
		h.fail(w, r, "Failed to get schedule", err)
		return
	}
	response.Success(w, domain.ScheduleResponse{Reference: ref, Schedule: rows})
}

// GetStatus handles GET /obligations/{reference}/status
func (h *ObligationHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetStatus(r.Context(), reference(r))
	if err != nil {
		h.fail(w, r, "Failed to get status", err)
		return
	}
	response.Success(w, status)
}

// ListPayments handles GET /obligations/{reference}/payments
func (h *ObligationHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context(), reference(r))
	if err != nil {
		h.fail(w, r, "Failed to list payments", err)
		return
	}
	response.Success(w, payments)
}

// RegisterPayment handles POST /obligations/{reference}/payments
func (h *ObligationHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.RegisterPayment(r.Context(), reference(r))
	if err != nil {
		h.fail(w, r, "Failed to register payment", err)
		return
	}
	response.Created(w, payment)
}

// Settle handles POST /obligations/{reference}/settle
func (h *ObligationHandler) Settle(w http.ResponseWriter, r *http.Request) {
	obligation, err := h.service.Settle(r.Context(), reference(r))
	if err != nil {
		h.fail(w, r, "Failed to settle obligation", err)
		return
	}
	response.Success(w, domain.NewObligationResponse(*obligation))
}

// ValidatePlan handles POST /plans/validate
func (h *ObligationHandler) ValidatePlan(w http.ResponseWriter, r *http.Request) {
	var form domain.PlanForm
	if err := h.decode(r, &form); err != nil {
		response.FromError(w, "Invalid request body", err)
		return
	}

	result, err := h.service.ValidatePlan(form)
	if err != nil {
		h.fail(w, r, "Invalid plan", err)
		return
	}
	response.Success(w, result)
}

type reportRequest struct {
	AuctionID   string             `json:"auction_id"`
	PaymentType domain.PaymentType `json:"payment_type" validate:"omitempty,oneof=cash installments down_payment_plus_installments"`
	OpenOnly    bool               `json:"open_only"`
}

// ExportReport handles POST /reports/obligations; an empty body exports everything
func (h *ObligationHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	var request reportRequest
	if err := h.decodeOptional(r, &request); err != nil {
		response.FromError(w, "Invalid request body", err)
		return
	}

	export, err := h.service.ExportReport(r.Context(), domain.ObligationFilter{
		AuctionID:   request.AuctionID,
		PaymentType: request.PaymentType,
		OpenOnly:    request.OpenOnly,
	})
	if err != nil {
		h.fail(w, r, "Failed to export report", err)
		return
	}
	response.Created(w, export)
}

// decode reads a JSON body into dst and validates it
func (h *ObligationHandler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return customError.WrapValidation(err)
	}
	return h.validate(dst)
}

// decodeOptional is decode for endpoints where an empty body means defaults
func (h *ObligationHandler) decodeOptional(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return customError.WrapValidation(err)
	}
	return h.validate(dst)
}

func (h *ObligationHandler) validate(dst interface{}) error {
	if err := h.validator.Struct(dst); err != nil {
		return customError.WrapValidation(err)
	}
	return nil
}

func (h *ObligationHandler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	if response.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(message,
			zap.String("op", "handler.ObligationHandler"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	response.FromError(w, message, err)
}

func reference(r *http.Request) string {
	return mux.Vars(r)["reference"]
}

func filterFromQuery(r *http.Request) (domain.ObligationFilter, error) {
	query := r.URL.Query()
	filter := domain.ObligationFilter{
		AuctionID:   query.Get("auction_id"),
		PaymentType: domain.PaymentType(query.Get("payment_type")),
	}
	if filter.PaymentType != "" && !filter.PaymentType.Valid() {
		return filter, customError.WrapValidation(errors.New("unknown payment_type " + strconv.Quote(string(filter.PaymentType))))
	}
	if open := query.Get("open"); open != "" {
		value, err := strconv.ParseBool(open)
		if err != nil {
			return filter, customError.WrapValidation(err)
		}
		filter.OpenOnly = value
	}
	return filter, nil
}
