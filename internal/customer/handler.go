package customer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/customer-onboarding/internal/auth"
	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
	"github.com/frahmantamala/customer-onboarding/internal/transport"
	"github.com/frahmantamala/customer-onboarding/pkg/logger"
)

type ServiceAPI interface {
	CreateCustomer(ctx context.Context, creatorID int64, dto CreateCustomerRequest) (*Customer, error)
	GetCustomer(id int64) (*Customer, error)
	ListCustomers(params pagination.Params) (*pagination.Result[Customer], error)
	UpdateCustomer(id int64, dto UpdateCustomerRequest) (*Customer, error)
	ApproveCustomer(id, reviewerID int64) error
	RejectCustomer(id, reviewerID int64, reason string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// CreateCustomer handles POST /customers
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateCustomer(r.Context(), user.ID, dto)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// GetAllCustomers handles GET /customers
func (h *Handler) GetAllCustomers(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	result, err := h.Service.ListCustomers(params)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// GetCustomer handles GET /customers/{id}
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	c, err := h.Service.GetCustomer(id)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// UpdateCustomer handles PUT /customers/{id}
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var dto UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateCustomer(id, dto)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// ApproveCustomer handles PATCH /customers/{id}/approve
func (h *Handler) ApproveCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.ApproveCustomer(id, user.ID); err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": ReviewStatusApproved})
}

// RejectCustomer handles PATCH /customers/{id}/reject
func (h *Handler) RejectCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RejectCustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.RejectCustomer(id, user.ID, dto.Reason); err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": ReviewStatusRejected})
}

func (h *Handler) pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	var vErr ValidationError
	switch {
	case errors.As(err, &vErr):
		h.WriteError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrCustomerNotFound):
		h.WriteError(w, http.StatusNotFound, "customer not found")
	case errors.Is(err, ErrDuplicateNationalID):
		h.WriteError(w, http.StatusConflict, "a customer with this national id already exists")
	case errors.Is(err, ErrInvalidReviewStatus):
		h.WriteError(w, http.StatusUnprocessableEntity, "review already settled for this customer")
	case errors.Is(err, ErrCannotModify):
		h.WriteError(w, http.StatusConflict, "cannot modify customer after review has settled")
	default:
		h.Logger.Error("customer operation failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
