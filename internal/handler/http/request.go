package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddhealthcare/hrms-backend-go/internal/handler/http/response"
)

const maxJSONBodySize = 1 << 20

// decodeJSON reads a JSON body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize)).Decode(dst)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.BadRequest(w, "Request body too large", nil)
		return false
	}
	response.BadRequest(w, "Invalid request format", nil)
	return false
}
