// Package respond centralizes the JSON envelope used by every endpoint:
// {"success": bool, "data": ..., "pagination": ...} for admin CRUD and
// {"success": bool, "error": "..."} for failures.
package respond

import (
	"encoding/json"
	"net/http"
)

// Pagination describes a paginated list response.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

type envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// JSON writes an arbitrary payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes {"success":true,"data":...}.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// Page writes a paginated success envelope.
func Page(w http.ResponseWriter, data any, p Pagination) {
	JSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: &p})
}

// Error writes {"success":false,"error":...} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, envelope{Success: false, Error: message})
}
