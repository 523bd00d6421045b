package dto

import (
	"github.com/samber/lo"

	"github.com/spec-kit/safety-roster/internal/domain"
)

// StatusCountsResponse summarizes a roster.
type StatusCountsResponse struct {
	Total         int `json:"total"`
	Safe          int `json:"safe"`
	MinorInjury   int `json:"minor_injury"`
	SeriousInjury int `json:"serious_injury"`
	Unconfirmed   int `json:"unconfirmed"`
}

// LoadReportResponse tells clients whether the roster may be incomplete.
type LoadReportResponse struct {
	Listed   int  `json:"listed"`
	Loaded   int  `json:"loaded"`
	Skipped  int  `json:"skipped"`
	Degraded bool `json:"degraded"`
	Partial  bool `json:"partial"`
}

// RosterResponse is the coordinator view.
type RosterResponse struct {
	Records []StaffRecordResponse `json:"records"`
	Counts  StatusCountsResponse  `json:"counts"`
	Report  LoadReportResponse    `json:"report"`
}

// OptionResponse is a value/label pair for form selects.
type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormOptionsResponse lists the selectable form values.
type FormOptionsResponse struct {
	Departments []string         `json:"departments"`
	Statuses    []OptionResponse `json:"statuses"`
	Reportable  []OptionResponse `json:"reportable"`
}

// NewStatusCountsResponse maps aggregate counts.
func NewStatusCountsResponse(c domain.StatusCounts) StatusCountsResponse {
	return StatusCountsResponse{
		Total:         c.Total,
		Safe:          c.Safe,
		MinorInjury:   c.MinorInjury,
		SeriousInjury: c.SeriousInjury,
		Unconfirmed:   c.Unconfirmed(),
	}
}

// NewRosterResponse maps a roster view.
func NewRosterResponse(view domain.RosterView) RosterResponse {
	return RosterResponse{
		Records: lo.Map(view.Records, func(rec domain.StaffRecord, _ int) StaffRecordResponse {
			return NewStaffRecordResponse(rec)
		}),
		Counts: NewStatusCountsResponse(view.Counts),
		Report: LoadReportResponse{
			Listed:   view.Report.Listed,
			Loaded:   view.Report.Loaded,
			Skipped:  view.Report.Skipped,
			Degraded: view.Report.Degraded,
			Partial:  view.Report.Partial(),
		},
	}
}

// NewFormOptionsResponse maps form options.
func NewFormOptionsResponse(opts domain.FormOptions) FormOptionsResponse {
	return FormOptionsResponse{
		Departments: opts.Departments,
		Statuses: lo.Map(opts.Statuses, func(o domain.StatusOption, _ int) OptionResponse {
			return OptionResponse{Value: string(o.Value), Label: o.Label}
		}),
		Reportable: lo.Map(opts.Reportable, func(o domain.ReportOption, _ int) OptionResponse {
			return OptionResponse{Value: string(o.Value), Label: o.Label}
		}),
	}
}
