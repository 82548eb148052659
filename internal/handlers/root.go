package handlers

import "net/http"

// RootResponse names the service
// swagger:model RootResponse
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// NewRootHandler returns an HTTP handler describing the API.
// @Summary API info
// @Tags health
// @Produce json
// @Success 200 {object} handlers.RootResponse "API info"
// @Router / [get]
func NewRootHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, RootResponse{
			Message: "Fraud Detection Transfer System API",
			Version: version,
		})
	}
}
