package httputils

import (
	"encoding/json"
	"net/http"
)

func JSONResponse(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// RawJSONResponse writes an already encoded JSON document.
func RawJSONResponse(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

func JSONError(w http.ResponseWriter, status int, message string) error {
	return JSONResponse(w, status, map[string]string{
		"error": message,
	})
}

func SuccessResponse(w http.ResponseWriter, message string, data any) error {
	response := map[string]any{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		response["data"] = data
	}
	return JSONResponse(w, http.StatusOK, response)
}
