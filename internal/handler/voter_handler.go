package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evote/internal/middleware"
	"evote/internal/model"
	"evote/internal/service"
)

// VoterHandler handles voter profile endpoints.
type VoterHandler struct {
	voterService service.VoterService
}

// NewVoterHandler creates a new voter handler.
func NewVoterHandler(voterService service.VoterService) *VoterHandler {
	return &VoterHandler{voterService: voterService}
}

// RoleResponse is returned after a role change.
type RoleResponse struct {
	Message string       `json:"message"`
	Voter   *model.Voter `json:"voter"`
}

// Profile godoc
// @Summary Get the caller's profile
// @Tags voter
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Voter
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /voter/profile [get]
func (h *VoterHandler) Profile(c echo.Context) error {
	voter, err := h.voterService.GetProfile(c.Request().Context(), middleware.IdentityFrom(c).VoterID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, voter)
}

// GetVoter godoc
// @Summary Get a voter by id
// @Tags voter
// @Produce json
// @Param id path string true "Voter ID"
// @Success 200 {object} model.Voter
// @Failure 404 {object} errors.ErrorResponse
// @Router /voter/{id} [get]
func (h *VoterHandler) GetVoter(c echo.Context) error {
	voter, err := h.voterService.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, voter)
}

// ListVoters godoc
// @Summary List voters matching every query parameter exactly
// @Tags voter
// @Produce json
// @Param name query string false "Name"
// @Param email query string false "Email"
// @Param rollnumber query int false "Roll number"
// @Param department query string false "Department"
// @Param year query int false "Year"
// @Param role query string false "Role"
// @Success 200 {array} model.Voter
// @Failure 400 {object} errors.ErrorResponse
// @Router /voter [get]
func (h *VoterHandler) ListVoters(c echo.Context) error {
	voters, err := h.voterService.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, voters)
}

// DeleteProfile godoc
// @Summary Delete the caller's own account
// @Tags voter
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /voter/delete-profile [delete]
func (h *VoterHandler) DeleteProfile(c echo.Context) error {
	if err := h.voterService.Delete(c.Request().Context(), middleware.IdentityFrom(c).VoterID); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Voter deleted successfully"})
}

// DeleteVoter godoc
// @Summary Delete any voter
// @Tags voter
// @Produce json
// @Security BearerAuth
// @Param id path string true "Voter ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /voter/delete/{id} [delete]
func (h *VoterHandler) DeleteVoter(c echo.Context) error {
	if err := h.voterService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Voter deleted successfully"})
}

// ToggleRole godoc
// @Summary Switch a voter between the voter and admin roles
// @Tags voter
// @Produce json
// @Security BearerAuth
// @Param id path string true "Voter ID"
// @Success 200 {object} RoleResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /voter/updateRole/{id} [patch]
func (h *VoterHandler) ToggleRole(c echo.Context) error {
	voter, err := h.voterService.ToggleRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, RoleResponse{
		Message: "Role updated to " + string(voter.Role),
		Voter:   voter,
	})
}
