// Package respond writes the uniform JSON envelopes the HTTP handlers use.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/wb-go/wbf/zlog"
)

type successResponse struct {
	Data any `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to encode response")
	}
}

// OK writes a 200 response wrapping data.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successResponse{Data: data})
}

// Created writes a 201 response wrapping data.
func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, successResponse{Data: data})
}

// Fail writes an error response with the given status.
func Fail(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
