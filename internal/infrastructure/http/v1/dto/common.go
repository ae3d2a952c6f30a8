// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"timebill/internal/core/id"
)

// --- Response envelope ---

// Response is the uniform API envelope. Every endpoint answers with it.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage builds a successful envelope without data.
func OKMessage(message string) Response {
	return Response{Success: true, Message: message}
}

// Fail builds a failed envelope.
func Fail(message string, errors any) Response {
	return Response{Success: false, Message: message, Errors: errors}
}

// --- List payload ---

// ListPayload wraps list results with pagination metadata.
type ListPayload struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- ID payload ---

// IDPayload for create operations.
type IDPayload struct {
	ID string `json:"id"`
}

// NewIDPayload creates an ID payload.
func NewIDPayload(i id.ID) IDPayload {
	return IDPayload{ID: i.String()}
}

// --- Deletion ---

// SetDeletionMarkRequest toggles the soft-delete mark.
type SetDeletionMarkRequest struct {
	Marked bool `json:"marked"`
}

// optID formats a nullable ID for responses.
func optID(v *id.ID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
