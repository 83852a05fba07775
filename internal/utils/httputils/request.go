package httputils

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/wgomg/rezumat/internal/utils"
)

// DecodeJSON accepts application/json with or without parameters such as
// charset.
func DecodeJSON(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return &HTTPError{
			Code:    http.StatusUnsupportedMediaType,
			Message: "Content-Type must be application/json",
		}
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Invalid JSON payload: " + err.Error(),
		}
	}
	return nil
}

// LogRequestBody reads the body, logs it when raw body logging is on, and
// leaves r.Body readable again. maxBytes bounds what is read.
func LogRequestBody(r *http.Request, logger *utils.Logger, reqID *string, maxBytes int64) ([]byte, error) {
	bodyBytes, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBytes))
	if err != nil {
		return nil, &HTTPError{
			Code:    http.StatusRequestEntityTooLarge,
			Message: "Request body too large or unreadable",
		}
	}

	r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	if logger.RawBodyLog {
		logger.Debug(reqID, "Raw request body: %s", string(bodyBytes))
	}

	return bodyBytes, nil
}
