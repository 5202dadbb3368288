package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/suitekeep/pkg/middleware"
	"github.com/fkhayef/suitekeep/pkg/response"
)

// Handler serves the account endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new account handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for account endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.With(middleware.RequireAccount).Get("/me", h.Me)
	r.Get("/{id}", h.GetByID)

	return r
}

// Create handles POST /accounts
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body CreateAccountRequest true "Account to create"
// @Success      201 {object} response.APIResponse{data=AccountResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /accounts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	a, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAccount):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrEmailAlreadyInUse):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to create account")
		}
		return
	}

	response.JSON(w, http.StatusCreated, a.ToResponse())
}

// Me handles GET /accounts/me
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Success      200 {object} response.APIResponse{data=AccountResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /accounts/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.GetAccountID(r.Context())
	h.respondAccount(w, r, accountID)
}

// GetByID handles GET /accounts/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid account ID")
		return
	}
	h.respondAccount(w, r, id)
}

func (h *Handler) respondAccount(w http.ResponseWriter, r *http.Request, id int64) {
	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get account")
		return
	}
	response.JSON(w, http.StatusOK, a.ToResponse())
}
