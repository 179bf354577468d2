// Package handlers provides HTTP request handlers for the goUserRegistry
// service.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/chybatronik/goUserRegistry/internal/logging"
	"github.com/chybatronik/goUserRegistry/internal/middleware"
	"github.com/chybatronik/goUserRegistry/internal/models"
	"github.com/chybatronik/goUserRegistry/internal/validation"
	pkgerrors "github.com/chybatronik/goUserRegistry/pkg/errors"
)

// maxBodySize limits POST request bodies to 1MB.
const maxBodySize = 1 << 20

// UserProgram defines the transaction-boundary operations the handlers
// invoke.
type UserProgram interface {
	InsertUser(ctx context.Context, user models.User) (int64, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	DeleteUserByUsername(ctx context.Context, userName string) error
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	program UserProgram
	logger  *logging.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(logger *logging.Logger, program UserProgram) *UserHandler {
	return &UserHandler{
		program: program,
		logger:  logger,
	}
}

// CreateUserPayload represents the request body for creating a user.
type CreateUserPayload struct {
	UserName  string  `json:"user_name"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Address   *string `json:"address,omitempty"`
}

// CreateUserResponse reports how many rows an insert affected.
type CreateUserResponse struct {
	Count int64 `json:"count"`
}

// ErrorResponse is the JSON error body. Name is set for payload and conflict
// errors and omitted for the bare-message delete-path bodies.
type ErrorResponse struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status.
func (h *UserHandler) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response",
			logging.FieldError, err,
			"status_code", statusCode,
		)
	}
}

// writeUserError writes a typed domain error with its name in the body.
func (h *UserHandler) writeUserError(w http.ResponseWriter, userErr *pkgerrors.UserError) {
	h.writeJSON(w, userErr.GetHTTPStatus(), ErrorResponse{
		Name:    userErr.Name,
		Message: userErr.Message,
	})
}

// writeBareError writes a typed domain error with a bare message body.
func (h *UserHandler) writeBareError(w http.ResponseWriter, userErr *pkgerrors.UserError) {
	h.writeJSON(w, userErr.GetHTTPStatus(), ErrorResponse{
		Message: userErr.Message,
	})
}

// validateContentType validates that the request has application/json content
// type.
func validateContentType(r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return pkgerrors.NewMalformedBodyError("Content-Type header is required")
	}

	// Handles content types like "application/json; charset=utf-8".
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return pkgerrors.NewMalformedBodyError("invalid Content-Type header format")
	}

	if mediaType != "application/json" {
		return pkgerrors.NewMalformedBodyError("Content-Type must be application/json")
	}
	return nil
}

// parseCreateUserPayload parses the JSON request body.
func parseCreateUserPayload(r *http.Request) (*CreateUserPayload, error) {
	if r.Body == nil {
		return nil, pkgerrors.NewMalformedBodyError("request body cannot be empty")
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, pkgerrors.NewMalformedBodyError("failed to read request body")
	}

	if len(body) == 0 {
		return nil, pkgerrors.NewMalformedBodyError("request body cannot be empty")
	}

	var payload CreateUserPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pkgerrors.NewMalformedBodyError("invalid JSON format")
	}

	return &payload, nil
}

// validateCreateUserPayload checks the required fields are non-empty after
// trimming and carry no unsafe unicode, normalizing the payload in place.
func validateCreateUserPayload(payload *CreateUserPayload) error {
	payload.UserName = validation.NormalizeField(payload.UserName)
	payload.FirstName = validation.NormalizeField(payload.FirstName)
	payload.LastName = validation.NormalizeField(payload.LastName)

	fields := []struct {
		name  string
		value string
	}{
		{"user_name", payload.UserName},
		{"first_name", payload.FirstName},
		{"last_name", payload.LastName},
	}

	for _, field := range fields {
		if field.value == "" {
			return pkgerrors.NewMalformedBodyError(field.name + " cannot be empty")
		}
		if err := validation.ValidateNameField(field.value); err != nil {
			return pkgerrors.NewMalformedBodyError("invalid characters in " + field.name)
		}
	}

	if payload.Address != nil {
		trimmed := validation.NormalizeField(*payload.Address)
		if trimmed == "" {
			payload.Address = nil
		} else {
			payload.Address = &trimmed
		}
	}

	return nil
}

// toModel converts the validated payload to the domain user.
func (p *CreateUserPayload) toModel() models.User {
	return models.User{
		UserName:  p.UserName,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Address:   p.Address,
	}
}

// CreateUser handles POST /user.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	logger := h.logger.WithRequestID(reqID)

	if err := validateContentType(r); err != nil {
		logger.Warn("Invalid Content-Type header",
			"content_type", r.Header.Get("Content-Type"),
			"error", err.Error(),
		)
		userErr, _ := pkgerrors.GetUserError(err)
		h.writeUserError(w, userErr)
		return
	}

	payload, err := parseCreateUserPayload(r)
	if err != nil {
		logger.Warn("Failed to parse request body", "error", err.Error())
		userErr, _ := pkgerrors.GetUserError(err)
		h.writeUserError(w, userErr)
		return
	}

	if err := validateCreateUserPayload(payload); err != nil {
		logger.Warn("User payload validation failed",
			logging.FieldUserName, payload.UserName,
			"error", err.Error(),
		)
		userErr, _ := pkgerrors.GetUserError(err)
		h.writeUserError(w, userErr)
		return
	}

	count, err := h.program.InsertUser(r.Context(), payload.toModel())
	if err != nil {
		logger.Error("Failed to insert user",
			logging.FieldError, err,
			logging.FieldUserName, payload.UserName,
		)
		if userErr, ok := pkgerrors.GetUserError(err); ok {
			h.writeUserError(w, userErr)
		} else {
			h.writeBareError(w, pkgerrors.NewTransactionError())
		}
		return
	}

	logger.Info("User created",
		logging.FieldUserName, payload.UserName,
		"count", count,
	)
	h.writeJSON(w, http.StatusCreated, CreateUserResponse{Count: count})
}

// GetUsers handles GET /users.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	logger := h.logger.WithRequestID(reqID)

	users, err := h.program.GetAllUsers(r.Context())
	if err != nil {
		logger.Error("Failed to retrieve users", logging.FieldError, err)
		if userErr, ok := pkgerrors.GetUserError(err); ok {
			h.writeBareError(w, userErr)
		} else {
			h.writeBareError(w, pkgerrors.NewTransactionError())
		}
		return
	}

	if users == nil {
		users = []models.User{}
	}

	logger.Info("Users retrieved", "user_count", len(users))
	h.writeJSON(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /user/{username}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	logger := h.logger.WithRequestID(reqID)

	userName := r.PathValue("username")
	if userName == "" {
		h.writeUserError(w, pkgerrors.NewMalformedBodyError("username path parameter is required"))
		return
	}

	if err := h.program.DeleteUserByUsername(r.Context(), userName); err != nil {
		if pkgerrors.HasName(err, pkgerrors.NameUserAlreadyDeleted) {
			logger.Warn("Delete of absent user", logging.FieldUserName, userName)
		} else {
			logger.Error("Failed to delete user",
				logging.FieldError, err,
				logging.FieldUserName, userName,
			)
		}
		if userErr, ok := pkgerrors.GetUserError(err); ok {
			h.writeBareError(w, userErr)
		} else {
			h.writeBareError(w, pkgerrors.NewTransactionError())
		}
		return
	}

	logger.Info("User deleted", logging.FieldUserName, userName)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNoContent)
}
