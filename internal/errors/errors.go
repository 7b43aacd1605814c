package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrVoterNotFound is returned when a voter is not found.
	ErrVoterNotFound = errors.New("voter not found")
	// ErrElectionNotFound is returned when an election is not found.
	ErrElectionNotFound = errors.New("election not found")
	// ErrCandidateNotFound is returned when a candidate is not part of the election.
	ErrCandidateNotFound = errors.New("candidate not found in this election")
	// ErrDuplicateEmail is returned when registering an email that is already taken.
	ErrDuplicateEmail = errors.New("voter already registered with this email")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCandidateExists is returned when a candidate is added twice.
	ErrCandidateExists = errors.New("candidate already added")
	// ErrAlreadyVoted is returned when a voter votes twice in the same election.
	ErrAlreadyVoted = errors.New("voter has already voted in this election")
	// ErrElectionCompleted is returned when mutating an election that has been stopped.
	ErrElectionCompleted = errors.New("election is completed")
	// ErrInvalidArgument is returned when a required input is missing or malformed.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("access denied: admins only")
	// ErrMissingCredential is returned when no credential was supplied.
	ErrMissingCredential = errors.New("no token provided")
	// ErrInvalidCredential is returned when the credential cannot be verified.
	ErrInvalidCredential = errors.New("invalid token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	target error
	status int
	code   string
}{
	{ErrVoterNotFound, http.StatusNotFound, "VOTER_NOT_FOUND"},
	{ErrElectionNotFound, http.StatusNotFound, "ELECTION_NOT_FOUND"},
	{ErrCandidateNotFound, http.StatusNotFound, "CANDIDATE_NOT_FOUND"},
	{ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrCandidateExists, http.StatusBadRequest, "CANDIDATE_EXISTS"},
	{ErrAlreadyVoted, http.StatusBadRequest, "ALREADY_VOTED"},
	{ErrElectionCompleted, http.StatusConflict, "ELECTION_COMPLETED"},
	{ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrMissingCredential, http.StatusUnauthorized, "MISSING_CREDENTIAL"},
	{ErrInvalidCredential, http.StatusUnauthorized, "INVALID_CREDENTIAL"},
}

// MapErrorToHTTP maps domain errors, including wrapped ones, to HTTP errors.
// The message of a wrapped error is kept so callers can add detail such as
// which argument was invalid.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// IsInternal reports whether err has no domain mapping and would surface as a 500.
func IsInternal(err error) bool {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return false
		}
	}
	return true
}
