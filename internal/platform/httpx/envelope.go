// Package httpx provides the JSON response envelope and request binding helpers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform body written by every endpoint.
type Envelope struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ResponseObject any    `json:"responseObject"`
	StatusCode     int    `json:"statusCode"`
}

// Success builds a successful envelope.
func Success(status int, message string, data any) Envelope {
	return Envelope{Success: true, Message: message, ResponseObject: data, StatusCode: status}
}

// Failure builds a failed envelope with an optional payload (field errors).
func Failure(status int, message string, data any) Envelope {
	return Envelope{Success: false, Message: message, ResponseObject: data, StatusCode: status}
}

// Write sends env as JSON with its status code mirrored in the HTTP status.
func Write(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, message string, data any) {
	Write(w, Success(http.StatusOK, message, data))
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	Write(w, Success(http.StatusCreated, message, data))
}
