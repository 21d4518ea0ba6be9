package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Output is the Huma output for the status endpoint.
type Output struct {
	Body Body
}

// Body is the response body for the status endpoint.
type Body struct {
	Status string `json:"status" doc:"Always ok when the server is up"`
}

// Handler handles GET /status.
type Handler struct{}

// NewHandler creates a new status Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Register registers the status endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Status",
		Description: "Liveness check.",
		Tags:        []string{"Status"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*Output, error) {
	return &Output{Body: Body{Status: "ok"}}, nil
}
