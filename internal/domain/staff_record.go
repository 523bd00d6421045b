package domain

import "time"

// SafetyStatus is the safety classification reported by a staff member.
type SafetyStatus string

const (
	StatusSafe          SafetyStatus = "safe"
	StatusMinorInjury   SafetyStatus = "minor_injury"
	StatusSeriousInjury SafetyStatus = "serious_injury"
	// StatusUnconfirmed is inferred for ids without a record; it is never stored.
	StatusUnconfirmed SafetyStatus = "unconfirmed"
)

// ReportAvailability describes when a staff member can report for duty.
type ReportAvailability string

const (
	ReportImmediately    ReportAvailability = "immediately"
	ReportWithinHours    ReportAvailability = "within_hours"
	ReportNextDayOrLater ReportAvailability = "next_day_or_later"
	ReportUnable         ReportAvailability = "unable"
)

// SelectableStatuses lists the statuses a staff member may submit.
var SelectableStatuses = []SafetyStatus{StatusSafe, StatusMinorInjury, StatusSeriousInjury}

// ReportAvailabilities lists every reportable option in display order.
var ReportAvailabilities = []ReportAvailability{ReportImmediately, ReportWithinHours, ReportNextDayOrLater, ReportUnable}

// DefaultDepartments is the department set used when none is configured.
var DefaultDepartments = []string{"診療部", "看護部", "医療技術部", "薬剤部", "経営統括部"}

var statusLabels = map[SafetyStatus]string{
	StatusSafe:          "無事",
	StatusMinorInjury:   "軽傷",
	StatusSeriousInjury: "重傷",
	StatusUnconfirmed:   "未確認",
}

var reportLabels = map[ReportAvailability]string{
	ReportImmediately:    "直ちに可能",
	ReportWithinHours:    "数時間後",
	ReportNextDayOrLater: "翌日以降",
	ReportUnable:         "不可能",
}

// Selectable reports whether the status may be persisted.
func (s SafetyStatus) Selectable() bool {
	switch s {
	case StatusSafe, StatusMinorInjury, StatusSeriousInjury:
		return true
	}
	return false
}

// Label returns the display label, or the raw value for unknown statuses.
func (s SafetyStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether the availability is one of the known options.
func (r ReportAvailability) Valid() bool {
	_, ok := reportLabels[r]
	return ok
}

// Label returns the display label, or the raw value for unknown options.
func (r ReportAvailability) Label() string {
	if l, ok := reportLabels[r]; ok {
		return l
	}
	return string(r)
}

// ParseStatus maps a stored code or display label onto a status.
// Unknown values are returned unchanged.
func ParseStatus(v string) SafetyStatus {
	for status, label := range statusLabels {
		if v == label {
			return status
		}
	}
	return SafetyStatus(v)
}

// ParseReportAvailability maps a stored code or display label onto an availability.
func ParseReportAvailability(v string) ReportAvailability {
	for r, label := range reportLabels {
		if v == label {
			return r
		}
	}
	return ReportAvailability(v)
}

// StaffRecord is the self-reported safety state of one staff member.
type StaffRecord struct {
	ID         string
	Name       string
	Department string
	Status     SafetyStatus
	Location   string
	Reportable ReportAvailability
	ReportTime string
	Comment    string
	UpdatedAt  time.Time
}

// Complete reports whether every field required for a save is present.
func (r StaffRecord) Complete() bool {
	return r.Name != "" && r.Department != "" && r.Status != ""
}

// StaffFields carries the user-editable part of a record.
type StaffFields struct {
	Name       string
	Department string
	Status     SafetyStatus
	Location   string
	Reportable ReportAvailability
	ReportTime string
	Comment    string
}

// Fields returns the user-editable part of the record.
func (r StaffRecord) Fields() StaffFields {
	return StaffFields{
		Name:       r.Name,
		Department: r.Department,
		Status:     r.Status,
		Location:   r.Location,
		Reportable: r.Reportable,
		ReportTime: r.ReportTime,
		Comment:    r.Comment,
	}
}

// NewStaffRecord builds a full record from submitted fields.
func NewStaffRecord(id string, fields StaffFields, updatedAt time.Time) StaffRecord {
	return StaffRecord{
		ID:         id,
		Name:       fields.Name,
		Department: fields.Department,
		Status:     fields.Status,
		Location:   fields.Location,
		Reportable: fields.Reportable,
		ReportTime: fields.ReportTime,
		Comment:    fields.Comment,
		UpdatedAt:  updatedAt,
	}
}
