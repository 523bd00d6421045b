package events

import (
	"time"

	"github.com/spec-kit/safety-roster/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffStatusReported EventType = "staff_status_reported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffStatusReportedPayload payload.
type StaffStatusReportedPayload struct {
	Name       string                    `json:"name"`
	Department string                    `json:"department"`
	Status     domain.SafetyStatus       `json:"status"`
	Reportable domain.ReportAvailability `json:"reportable,omitempty"`
	Location   string                    `json:"location,omitempty"`
}
