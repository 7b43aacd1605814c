package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evote/internal/middleware"
	"evote/internal/model"
	"evote/internal/service"
)

// ElectionHandler handles election, candidate and vote endpoints.
type ElectionHandler struct {
	electionService service.ElectionService
}

// NewElectionHandler creates a new election handler.
func NewElectionHandler(electionService service.ElectionService) *ElectionHandler {
	return &ElectionHandler{electionService: electionService}
}

// CreateElectionRequest represents an election creation request.
type CreateElectionRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddCandidateRequest names the candidate to register. The id is checked by
// the service so a missing id is reported before an unknown election.
type AddCandidateRequest struct {
	CandidateID string `json:"candidateId"`
}

// ElectionResponse is returned by operations that change an election.
type ElectionResponse struct {
	Message  string          `json:"message"`
	Election *model.Election `json:"election"`
}

// CandidatesResponse lists the current tally of an election.
type CandidatesResponse struct {
	Message         string            `json:"message"`
	Candidates      []model.Candidate `json:"candidates"`
	TotalCandidates int               `json:"totalCandidates"`
}

// CreateElection godoc
// @Summary Create an election
// @Tags election
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateElectionRequest true "Election"
// @Success 201 {object} ElectionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /election [post]
func (h *ElectionHandler) CreateElection(c echo.Context) error {
	var req CreateElectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	election, err := h.electionService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, ElectionResponse{Message: "Election created successfully", Election: election})
}

// GetElection godoc
// @Summary Get an election
// @Tags election
// @Produce json
// @Param id path string true "Election ID"
// @Success 200 {object} model.Election
// @Failure 404 {object} errors.ErrorResponse
// @Router /election/{id} [get]
func (h *ElectionHandler) GetElection(c echo.Context) error {
	election, err := h.electionService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, election)
}

// ListElections godoc
// @Summary List all elections
// @Tags election
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Election
// @Failure 401 {object} errors.ErrorResponse
// @Router /election [get]
func (h *ElectionHandler) ListElections(c echo.Context) error {
	elections, err := h.electionService.List(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, elections)
}

// StopElection godoc
// @Summary Complete an election
// @Tags election
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Success 200 {object} ElectionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /election/{id}/stop [patch]
func (h *ElectionHandler) StopElection(c echo.Context) error {
	election, err := h.electionService.Stop(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, ElectionResponse{Message: "Election stopped", Election: election})
}

// DeleteElection godoc
// @Summary Delete an election
// @Tags election
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /election/{id} [delete]
func (h *ElectionHandler) DeleteElection(c echo.Context) error {
	if err := h.electionService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Election deleted successfully"})
}

// AddCandidate godoc
// @Summary Register a candidate in an election
// @Tags election
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Param request body AddCandidateRequest true "Candidate"
// @Success 201 {object} ElectionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /election/{id}/candidate [post]
func (h *ElectionHandler) AddCandidate(c echo.Context) error {
	var req AddCandidateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	election, err := h.electionService.AddCandidate(c.Request().Context(), c.Param("id"), req.CandidateID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, ElectionResponse{Message: "Candidate added successfully", Election: election})
}

// ListCandidates godoc
// @Summary List the candidates of an election with their votes
// @Tags election
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Success 200 {object} CandidatesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /election/{id}/candidates [get]
func (h *ElectionHandler) ListCandidates(c echo.Context) error {
	candidates, err := h.electionService.Candidates(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, CandidatesResponse{
		Message:         "Candidates fetched successfully",
		Candidates:      candidates,
		TotalCandidates: len(candidates),
	})
}

// RemoveCandidate godoc
// @Summary Remove a candidate from an election
// @Tags election
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Param candidateId path string true "Candidate ID"
// @Success 200 {object} ElectionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /election/{id}/candidate/{candidateId} [delete]
func (h *ElectionHandler) RemoveCandidate(c echo.Context) error {
	election, err := h.electionService.RemoveCandidate(c.Request().Context(), c.Param("id"), c.Param("candidateId"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, ElectionResponse{Message: "Candidate removed successfully", Election: election})
}

// CastVote godoc
// @Summary Cast a vote
// @Description Voters may only vote as themselves; admins may record a vote for any voter.
// @Tags election
// @Produce json
// @Security BearerAuth
// @Param id path string true "Election ID"
// @Param candidateId path string true "Candidate ID"
// @Param voterId path string true "Voter ID"
// @Success 200 {object} ElectionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /election/{id}/vote/{candidateId}/{voterId} [post]
func (h *ElectionHandler) CastVote(c echo.Context) error {
	election, err := h.electionService.CastVote(
		c.Request().Context(),
		middleware.IdentityFrom(c),
		c.Param("id"),
		c.Param("candidateId"),
		c.Param("voterId"),
	)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, ElectionResponse{Message: "Vote cast successfully", Election: election})
}
