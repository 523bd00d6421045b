package domain

// StatusCounts summarizes a roster by stored status.
type StatusCounts struct {
	Total         int
	Safe          int
	MinorInjury   int
	SeriousInjury int
}

// Unconfirmed is the number of records without a recognized stored status.
func (c StatusCounts) Unconfirmed() int {
	return c.Total - c.Safe - c.MinorInjury - c.SeriousInjury
}

// Aggregate counts records per stored status. Records with a missing or
// unrecognized status only contribute to Total.
func Aggregate(records []StaffRecord) StatusCounts {
	counts := StatusCounts{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusSafe:
			counts.Safe++
		case StatusMinorInjury:
			counts.MinorInjury++
		case StatusSeriousInjury:
			counts.SeriousInjury++
		}
	}
	return counts
}

// LoadReport tells how much of the store made it into a roster.
type LoadReport struct {
	Listed   int
	Loaded   int
	Skipped  int
	Degraded bool
}

// Partial reports whether the roster may be missing records.
func (r LoadReport) Partial() bool {
	return r.Degraded || r.Skipped > 0
}

// RosterView is the aggregated view served to the coordination desk.
type RosterView struct {
	Records []StaffRecord
	Counts  StatusCounts
	Report  LoadReport
}

// StatusOption is a selectable value with its display label.
type StatusOption struct {
	Value SafetyStatus
	Label string
}

// ReportOption is a reportable value with its display label.
type ReportOption struct {
	Value ReportAvailability
	Label string
}

// FormOptions holds the enumerations rendered by the input form.
type FormOptions struct {
	Departments []string
	Statuses    []StatusOption
	Reportable  []ReportOption
}
