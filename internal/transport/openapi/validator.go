// Package openapi checks incoming requests against the published API
// contract before they reach a handler.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/transport"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
)

// Load parses and validates an OpenAPI 3 document.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

type Validator struct {
	*transport.BaseHandler
	router routers.Router
}

func NewValidator(doc *openapi3.T, lg *slog.Logger) (*Validator, error) {
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &Validator{
		BaseHandler: transport.NewBaseHandler(lg),
		router:      router,
	}, nil
}

// Validate checks params and body of r. Requests outside the contract report
// routers.ErrPathNotFound or routers.ErrMethodNotAllowed.
func (v *Validator) Validate(r *http.Request) error {
	route, params, err := v.router.FindRoute(r)
	if err != nil {
		return err
	}

	// authentication is the bearer middleware's job
	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: params,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	return openapi3filter.ValidateRequest(r.Context(), input)
}

// Middleware rejects requests that break the contract with a 400. Paths the
// contract does not describe pass through untouched.
func (v *Validator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := v.Validate(r)
		switch {
		case err == nil:
		case errors.Is(err, routers.ErrPathNotFound), errors.Is(err, routers.ErrMethodNotAllowed):
		default:
			v.Logger.WarnContext(r.Context(), "request rejected by api contract",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err)
			v.HandleServiceError(w, contractError(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func contractError(err error) *apperrors.AppError {
	details := apperrors.ValidationErrors{
		Errors: []apperrors.ValidationError{{
			Message: err.Error(),
			Code:    string(apperrors.ErrCodeValidationFailed),
		}},
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		details.Errors[0].Field = reqErr.Parameter.Name
	}

	return apperrors.NewValidationError("request does not match the API contract", apperrors.ErrCodeValidationFailed).
		WithDetails(details)
}
