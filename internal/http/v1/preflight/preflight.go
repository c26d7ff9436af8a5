// Package preflight registers the static OPTIONS answer shared by the form endpoints.
package preflight

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const (
	allowedMethods = "POST, OPTIONS"
	allowedHeaders = "Content-Type"
)

// Output is an empty JSON object with the allow-list headers.
type Output struct {
	Allow        string `header:"Allow" doc:"Methods supported by the resource"`
	AllowMethods string `header:"Access-Control-Allow-Methods" doc:"Methods allowed for cross-origin requests"`
	AllowHeaders string `header:"Access-Control-Allow-Headers" doc:"Headers allowed for cross-origin requests"`
	Body         struct{}
}

// Register adds an OPTIONS operation at path. Requests carrying
// Access-Control-Request-Method are answered by the CORS middleware first.
func Register(api huma.API, operationID, path string, tags ...string) {
	huma.Register(api, huma.Operation{
		OperationID: operationID,
		Method:      http.MethodOptions,
		Path:        path,
		Summary:     "List allowed methods",
		Description: "Returns an empty object with the methods and headers the form endpoint accepts.",
		Tags:        tags,
	}, handler)
}

func handler(_ context.Context, _ *struct{}) (*Output, error) {
	return &Output{
		Allow:        allowedMethods,
		AllowMethods: allowedMethods,
		AllowHeaders: allowedHeaders,
	}, nil
}
