package suite

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/suitekeep/pkg/middleware"
	"github.com/fkhayef/suitekeep/pkg/response"
)

// Handler serves the suite endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new suite handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for suite endpoints. Every route needs a caller.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAccount)

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Get("/{id}/members", h.GetMembers)
	r.Delete("/{id}/members/{accountId}", h.RemoveMember)

	return r
}

// writeError maps service errors to responses
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSuiteNotFound), errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotMember), errors.Is(err, ErrNotOwner), errors.Is(err, ErrOwnerCannotLeave):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidSuiteName), errors.Is(err, ErrInvalidMemberRole):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// SuiteID parses the {id} URL parameter
func SuiteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// Create handles POST /suites
// @Summary      Create a suite
// @Description  Create a suite owned by the caller
// @Tags         suites
// @Accept       json
// @Produce      json
// @Param        request body CreateSuiteRequest true "Suite to create"
// @Success      201 {object} response.APIResponse{data=SuiteResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /suites [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.GetAccountID(r.Context())

	var req CreateSuiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	suite, err := h.service.Create(r.Context(), accountID, &req)
	if err != nil {
		writeError(w, err, "Failed to create suite")
		return
	}
	response.JSON(w, http.StatusCreated, suite.ToResponse())
}

// List handles GET /suites
// @Summary      List my suites
// @Tags         suites
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SuiteResponse}
// @Router       /suites [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.GetAccountID(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	suites, total, err := h.service.ListByAccountID(r.Context(), accountID, page, perPage)
	if err != nil {
		writeError(w, err, "Failed to list suites")
		return
	}

	out := make([]*SuiteResponse, len(suites))
	for i, s := range suites {
		out[i] = s.ToResponse()
	}
	response.JSONWithMeta(w, http.StatusOK, out, response.NewMeta(page, perPage, total))
}

// GetByID handles GET /suites/{id}
// @Summary      Get a suite with its members
// @Tags         suites
// @Produce      json
// @Param        id path int true "Suite ID"
// @Success      200 {object} response.APIResponse{data=SuiteResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /suites/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := SuiteID(r)
	if !ok {
		response.BadRequest(w, "Invalid suite ID")
		return
	}
	accountID, _ := middleware.GetAccountID(r.Context())

	suite, members, err := h.service.GetForMember(r.Context(), id, accountID)
	if err != nil {
		writeError(w, err, "Failed to get suite")
		return
	}

	resp := suite.ToResponse()
	resp.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		resp.Members[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// Update handles PUT /suites/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := SuiteID(r)
	if !ok {
		response.BadRequest(w, "Invalid suite ID")
		return
	}
	accountID, _ := middleware.GetAccountID(r.Context())

	var req UpdateSuiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	suite, err := h.service.Update(r.Context(), id, accountID, &req)
	if err != nil {
		writeError(w, err, "Failed to update suite")
		return
	}
	response.JSON(w, http.StatusOK, suite.ToResponse())
}

// Delete handles DELETE /suites/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := SuiteID(r)
	if !ok {
		response.BadRequest(w, "Invalid suite ID")
		return
	}
	accountID, _ := middleware.GetAccountID(r.Context())

	if err := h.service.Delete(r.Context(), id, accountID); err != nil {
		writeError(w, err, "Failed to delete suite")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Suite deleted"})
}

// GetMembers handles GET /suites/{id}/members
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := SuiteID(r)
	if !ok {
		response.BadRequest(w, "Invalid suite ID")
		return
	}
	accountID, _ := middleware.GetAccountID(r.Context())

	members, err := h.service.Members(r.Context(), id, accountID)
	if err != nil {
		writeError(w, err, "Failed to get members")
		return
	}

	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// RemoveMember handles DELETE /suites/{id}/members/{accountId}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := SuiteID(r)
	if !ok {
		response.BadRequest(w, "Invalid suite ID")
		return
	}
	targetID, err := strconv.ParseInt(chi.URLParam(r, "accountId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid account ID")
		return
	}
	accountID, _ := middleware.GetAccountID(r.Context())

	if err := h.service.RemoveMember(r.Context(), id, accountID, targetID); err != nil {
		writeError(w, err, "Failed to remove member")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}
