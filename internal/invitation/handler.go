package invitation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/suitekeep/internal/deeplink"
	"github.com/fkhayef/suitekeep/internal/suite"
	"github.com/fkhayef/suitekeep/pkg/middleware"
	"github.com/fkhayef/suitekeep/pkg/response"
)

// Handler serves the invitation endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new invitation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SuiteRoutes registers the per-suite routes, meant for /suites/{id}/invitations
func (h *Handler) SuiteRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
}

// Routes returns the router for /invitations
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{token}", h.Preview)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAccount)
		r.Delete("/{token}", h.Revoke)
		r.Post("/{token}/join", h.Join)
	})

	return r
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvitationNotFound), errors.Is(err, suite.ErrSuiteNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrInvitationExpired), errors.Is(err, ErrInvitationRevoked):
		response.Gone(w, err.Error())
	case errors.Is(err, ErrMalformedToken), errors.Is(err, ErrInvalidTTL), errors.Is(err, suite.ErrInvalidMemberRole):
		response.BadRequest(w, err.Error())
	case errors.Is(err, suite.ErrNotMember), errors.Is(err, suite.ErrNotOwner):
		response.Forbidden(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Create handles POST /suites/{id}/invitations
// @Summary      Create an invitation link
// @Description  Issue a token that lets anyone holding it join the suite
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        id path int true "Suite ID"
// @Param        request body CreateInvitationRequest false "Role and lifetime"
// @Success      201 {object} response.APIResponse{data=InvitationResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /suites/{id}/invitations [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	suiteID, ok := suite.SuiteID(r)
	if !ok {
		response.BadRequest(w, "Invalid suite ID")
		return
	}
	accountID, _ := middleware.GetAccountID(r.Context())

	var req CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	inv, err := h.service.Create(r.Context(), suiteID, accountID, &req)
	if err != nil {
		writeError(w, err, "Failed to create invitation")
		return
	}
	response.JSON(w, http.StatusCreated, inv.ToResponse(h.service.Now()))
}

// List handles GET /suites/{id}/invitations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	suiteID, ok := suite.SuiteID(r)
	if !ok {
		response.BadRequest(w, "Invalid suite ID")
		return
	}
	accountID, _ := middleware.GetAccountID(r.Context())

	invitations, err := h.service.ListBySuite(r.Context(), suiteID, accountID)
	if err != nil {
		writeError(w, err, "Failed to list invitations")
		return
	}

	now := h.service.Now()
	out := make([]*InvitationResponse, len(invitations))
	for i, inv := range invitations {
		out[i] = inv.ToResponse(now)
	}
	response.JSON(w, http.StatusOK, out)
}

// Preview handles GET /invitations/{token}
// @Summary      Preview an invitation
// @Tags         invitations
// @Produce      json
// @Param        token path string true "Invitation token"
// @Success      200 {object} response.APIResponse{data=PreviewResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /invitations/{token} [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	inv, st, err := h.service.Preview(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err, "Failed to load invitation")
		return
	}
	response.JSON(w, http.StatusOK, &PreviewResponse{
		SuiteName: st.Name,
		Status:    inv.StatusAt(h.service.Now()),
		ExpiresAt: inv.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Revoke handles DELETE /invitations/{token}
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.GetAccountID(r.Context())

	if err := h.service.Revoke(r.Context(), chi.URLParam(r, "token"), accountID); err != nil {
		writeError(w, err, "Failed to revoke invitation")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Invitation revoked"})
}

// Join handles POST /invitations/{token}/join
// @Summary      Redeem an invitation
// @Description  Join the suite the invitation belongs to
// @Tags         invitations
// @Produce      json
// @Param        token path string true "Invitation token"
// @Success      200 {object} response.APIResponse{data=JoinResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      410 {object} response.APIResponse
// @Router       /invitations/{token}/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.GetAccountID(r.Context())

	red, err := h.service.Redeem(r.Context(), chi.URLParam(r, "token"), accountID)
	if err != nil {
		writeError(w, err, "Failed to join suite")
		return
	}
	response.JSON(w, http.StatusOK, &JoinResponse{
		SuiteID:       red.Suite.ID,
		SuiteName:     red.Suite.Name,
		Role:          red.Member.Role,
		AlreadyMember: red.AlreadyMember,
	})
}

// Landing handles GET /invite/{token}, the universal link itself when the
// app is not installed to intercept it. It hands the token to the custom
// scheme.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.NotFound(w, "Missing invitation token")
		return
	}
	http.Redirect(w, r, deeplink.InviteURL(deeplink.Token(token)).String(), http.StatusFound)
}
