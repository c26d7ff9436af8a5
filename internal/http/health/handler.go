package health

import (
	"encoding/json"
	"net/http"

	applog "github.com/mctaxshelter/site-api/internal/platform/logging"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Handler reports liveness for load balancers and uptime checks. HEAD requests
// get the headers only.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := json.NewEncoder(w).Encode(Response{Status: "healthy"}); err != nil {
		applog.LogError(r.Context(), "failed to write health response", err)
	}
}
