package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/novel-planner/internal/generate"
	"github.com/jonathan/novel-planner/internal/workflow"
)

// HTTPStatus maps the core error taxonomy onto response status codes.
// Unknown session: 404. Status conflicts: 409. Unsupported action: 400.
// Generation or transport failure: 502. Contract violations and anything
// unclassified: 500.
func HTTPStatus(err error) int {
	var (
		notFound      *workflow.NotFoundError
		conflict      *workflow.ConflictError
		invalidAction *workflow.InvalidActionError
		genFailure    *generate.GenerationError
		transport     *generate.TransportError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &invalidAction):
		return http.StatusBadRequest
	case errors.As(err, &genFailure), errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
