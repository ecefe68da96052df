package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/smartrentsystem/backend/internal/api/middleware"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an error to its HTTP status. Messages of
// internal failures are logged, not returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logFailure(r, err, "Unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeForbidden:
		respondWithError(w, http.StatusForbidden, appErr.Message)
	case apperrors.ErrorTypeStorage:
		logFailure(r, err, "Storage failure")
		respondWithError(w, http.StatusServiceUnavailable, "storage unavailable, the change was not saved")
	case apperrors.ErrorTypeExternal:
		logFailure(r, err, "Upstream failure")
		respondWithError(w, http.StatusBadGateway, "upstream service failed")
	default:
		logFailure(r, err, "Internal error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func logFailure(r *http.Request, err error, msg string) {
	observability.RecordError(r.Context(), err)
	observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(msg)
}

// decodeJSON reads the body into dst and runs struct validation
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.NewValidationError(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email")
		default:
			if fe.Param() != "" {
				parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
			} else {
				parts = append(parts, fmt.Sprintf("%s must satisfy %s", field, fe.Tag()))
			}
		}
	}
	return strings.Join(parts, "; ")
}

// callerID returns the authenticated user. Routes wrapped in RequireAuth
// always have one; the 401 here covers handlers mounted without it.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return id, true
}
