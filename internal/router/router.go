package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"evote/internal/auth"
	"evote/internal/errors"
	"evote/internal/handler"
	authmw "evote/internal/middleware"
)

// Handlers groups every endpoint handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Voter    *handler.VoterHandler
	Election *handler.ElectionHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = ErrorHandler(e)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.MessageResponse{Message: "Welcome to the online voting API"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticated := authmw.Authenticate(jwtService, tokenStore)
	admin := []echo.MiddlewareFunc{authenticated, authmw.RequireAdmin}

	voter := e.Group("/voter")
	voter.POST("/add", h.Auth.Register)
	voter.POST("/login", h.Auth.Login)
	voter.GET("", h.Voter.ListVoters)
	voter.GET("/profile", h.Voter.Profile, authenticated)
	voter.GET("/:id", h.Voter.GetVoter)
	voter.DELETE("/delete-profile", h.Voter.DeleteProfile, authenticated)
	voter.DELETE("/delete/:id", h.Voter.DeleteVoter, admin...)
	voter.PATCH("/updateRole/:id", h.Voter.ToggleRole, admin...)

	election := e.Group("/election")
	election.POST("", h.Election.CreateElection, admin...)
	election.GET("", h.Election.ListElections, authenticated)
	election.GET("/:id", h.Election.GetElection)
	election.PATCH("/:id/stop", h.Election.StopElection, admin...)
	election.DELETE("/:id", h.Election.DeleteElection, admin...)
	election.POST("/:id/candidate", h.Election.AddCandidate, authenticated)
	election.GET("/:id/candidates", h.Election.ListCandidates, authenticated)
	election.DELETE("/:id/candidate/:candidateId", h.Election.RemoveCandidate, admin...)
	election.POST("/:id/vote/:candidateId/:voterId", h.Election.CastVote, authenticated)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders every error as an errors.ErrorResponse, including the
// ones echo raises itself such as unknown routes.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he, ok := err.(*echo.HTTPError)
		if !ok {
			mapped := errors.MapErrorToHTTP(err)
			if mapped.StatusCode == http.StatusInternalServerError {
				c.Logger().Error(err)
			}
			he = echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
		}

		body, ok := he.Message.(errors.ErrorResponse)
		if !ok {
			text := http.StatusText(he.Code)
			if msg, isString := he.Message.(string); isString {
				text = msg
			} else if he.Message != nil {
				text = fmt.Sprint(he.Message)
			}
			body = errors.ErrorResponse{Error: text, Code: statusCode(he.Code)}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			e.Logger.Error(err)
		}
	}
}

// statusCode turns an HTTP status into an error code such as NOT_FOUND.
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
