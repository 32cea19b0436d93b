package controllers

import (
	"net/http"

	"github.com/nkhandel/bookstock/pkg/response"
)

// Health is the liveness probe.
func Health(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}
