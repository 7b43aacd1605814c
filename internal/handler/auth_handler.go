package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evote/internal/model"
	"evote/internal/service"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a voter registration request.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RollNumber int    `json:"rollnumber"`
	Department string `json:"department"`
	Year       int    `json:"year" validate:"gte=0"`
	Bio        string `json:"bio"`
	Image      string `json:"image" validate:"omitempty,url"`
}

// LoginRequest represents a voter login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string       `json:"message"`
	Voter   *model.Voter `json:"voter"`
}

// LoginResponse carries the issued credential.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Register godoc
// @Summary Register a new voter
// @Tags voter
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /voter/add [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	voter, err := h.authService.Register(c.Request().Context(), &model.Voter{
		Name:       req.Name,
		Email:      req.Email,
		RollNumber: req.RollNumber,
		Department: req.Department,
		Year:       req.Year,
		Bio:        req.Bio,
		Image:      req.Image,
	}, req.Password)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Voter created successfully",
		Voter:   voter,
	})
}

// Login godoc
// @Summary Log in and obtain a credential
// @Description The returned token goes verbatim in the Authorization header, without a Bearer prefix.
// @Tags voter
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /voter/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   token,
	})
}
