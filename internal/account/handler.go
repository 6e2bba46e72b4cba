package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
	"github.com/frahmantamala/customer-onboarding/internal/transport"
	"github.com/frahmantamala/customer-onboarding/pkg/logger"
)

type ServiceAPI interface {
	CreateAccount(customerID int64, dto CreateAccountRequest) (*Account, error)
	GetCustomerAccounts(customerID int64) ([]Account, error)
	ListAccounts(params pagination.Params) (*pagination.Result[Account], error)
	CloseAccount(id int64) error
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

// CreateAccount handles POST /customers/{id}/accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var dto CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateAccount(customerID, dto)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// GetCustomerAccounts handles GET /customers/{id}/accounts
func (h *Handler) GetCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	accounts, err := h.Service.GetCustomerAccounts(customerID)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

// ListAccounts handles GET /accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	result, err := h.Service.ListAccounts(params)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// CloseAccount handles PATCH /accounts/{id}/close
func (h *Handler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	if err := h.Service.CloseAccount(id); err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": StatusClosed})
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	var vErr ValidationError
	switch {
	case errors.As(err, &vErr):
		h.WriteError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrCustomerNotFound):
		h.WriteError(w, http.StatusNotFound, "customer not found")
	case errors.Is(err, ErrAccountNotFound):
		h.WriteError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, ErrCustomerNotApproved):
		h.WriteError(w, http.StatusUnprocessableEntity, "customer is not approved")
	case errors.Is(err, ErrAlreadyClosed):
		h.WriteError(w, http.StatusConflict, "account is already closed")
	default:
		h.Logger.Error("account operation failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
