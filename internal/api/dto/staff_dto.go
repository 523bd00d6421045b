package dto

import (
	"time"

	"github.com/spec-kit/safety-roster/internal/domain"
)

// StaffSaveRequest payload for PUT /staff/:id.
type StaffSaveRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Location   string `json:"location"`
	Reportable string `json:"reportable"`
	ReportTime string `json:"report_time"`
	Comment    string `json:"comment"`
}

// Fields converts the payload into domain fields. Display labels are accepted
// alongside codes.
func (r StaffSaveRequest) Fields() domain.StaffFields {
	return domain.StaffFields{
		Name:       r.Name,
		Department: r.Department,
		Status:     domain.ParseStatus(r.Status),
		Location:   r.Location,
		Reportable: domain.ParseReportAvailability(r.Reportable),
		ReportTime: r.ReportTime,
		Comment:    r.Comment,
	}
}

// StaffRecordResponse is a stored record as served to clients.
type StaffRecordResponse struct {
	ID              string                    `json:"id"`
	Name            string                    `json:"name"`
	Department      string                    `json:"department"`
	Status          domain.SafetyStatus       `json:"status"`
	StatusLabel     string                    `json:"status_label"`
	Location        string                    `json:"location"`
	Reportable      domain.ReportAvailability `json:"reportable"`
	ReportableLabel string                    `json:"reportable_label"`
	ReportTime      string                    `json:"report_time"`
	Comment         string                    `json:"comment"`
	UpdatedAt       *time.Time                `json:"updated_at"`
}

// EditDraftResponse wraps the record offered for editing.
type EditDraftResponse struct {
	Found  bool                `json:"found"`
	Record StaffRecordResponse `json:"record"`
}

// NewStaffRecordResponse maps a domain record.
func NewStaffRecordResponse(rec domain.StaffRecord) StaffRecordResponse {
	resp := StaffRecordResponse{
		ID:              rec.ID,
		Name:            rec.Name,
		Department:      rec.Department,
		Status:          rec.Status,
		StatusLabel:     rec.Status.Label(),
		Location:        rec.Location,
		Reportable:      rec.Reportable,
		ReportableLabel: rec.Reportable.Label(),
		ReportTime:      rec.ReportTime,
		Comment:         rec.Comment,
	}
	if !rec.UpdatedAt.IsZero() {
		updated := rec.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
