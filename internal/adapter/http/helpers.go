package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/careport/clinicgate/internal/cachepolicy"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// internalErrorCode is the fixed machine-readable code for gateway faults.
const internalErrorCode = "INTERNAL_ERROR"

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// readBody reads a mutation body with a size limit. A false return means the
// error response has already been written.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if err.Error() == "http: request body too large" {
			writeFailure(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeFailure(w, http.StatusBadRequest, "could not read request body")
		}
		return nil, false
	}
	return body, true
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// writeRaw writes a pre-serialized upstream body verbatim.
func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeFailure writes a failure envelope with the internal error code.
func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Message: message, Code: internalErrorCode}})
}

// writeInternalError writes the uniform 500 envelope.
func writeInternalError(w http.ResponseWriter, message string) {
	writeFailure(w, http.StatusInternalServerError, message)
}

// setCacheControl emits the caching header for a successful cached GET.
func setCacheControl(w http.ResponseWriter, d cachepolicy.Directive) {
	if d.Disabled {
		w.Header().Set("Cache-Control", "no-store")
		return
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
		int(d.RevalidateAfter.Seconds()), int(d.StaleWhileRevalidate().Seconds())))
}

// setNoStore marks a response as uncacheable.
func setNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}
