// Package events sanitizes domain events and persists each one as a
// single-line JSON object in the events bucket.
package events

import (
	"strings"

	pipelineerrors "chainy-backend/internal/errors"
)

// Event types emitted by link handlers
const (
	EventLinkCreate = "link_create"
	EventLinkUpdate = "link_update"
	EventLinkDelete = "link_delete"
	EventLinkClick  = "link_click"
)

// Reserved payload keys. Detail fields with these names are dropped.
const (
	KeyEventType   = "event_type"
	KeyCode        = "code"
	KeyEnvironment = "environment"
	KeyEmittedAt   = "emitted_at"
)

// EmittedAtLayout renders emitted_at as UTC with millisecond precision
const EmittedAtLayout = "2006-01-02T15:04:05.000Z"

// RawEventRequest is an emission as submitted by a link handler.
// TraceContext optionally carries the W3C trace headers of the triggering
// request.
type RawEventRequest struct {
	EventType    string            `json:"eventType"`
	Code         string            `json:"code"`
	Detail       map[string]any    `json:"detail,omitempty"`
	TraceContext map[string]string `json:"traceContext,omitempty"`
}

// Validate checks the fields that make up the object key
func (r RawEventRequest) Validate() error {
	return validate(r.EventType, r.Code)
}

func validate(eventType, code string) error {
	if strings.TrimSpace(eventType) == "" {
		return pipelineerrors.NewValidationError("eventType is required")
	}
	if strings.TrimSpace(code) == "" {
		return pipelineerrors.NewValidationError("code is required")
	}
	return nil
}
