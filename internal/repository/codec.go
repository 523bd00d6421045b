package repository

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/spec-kit/safety-roster/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMalformedRecord marks a stored value that cannot be decoded into a record.
var ErrMalformedRecord = errors.New("malformed staff record")

// jst is the zone the legacy form used for its locale timestamps.
var jst = time.FixedZone("JST", 9*60*60)

const legacyTimestampLayout = "2006/1/2 15:04:05"

// storedRecord is the serialized shape under staff:<id>. canReport and
// timestamp are read from values written by the earlier form and never written.
type storedRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Location   string `json:"location"`
	Reportable string `json:"reportable"`
	ReportTime string `json:"reportTime"`
	Comment    string `json:"comment"`
	UpdatedAt  string `json:"updatedAt,omitempty"`

	CanReport string `json:"canReport,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// EncodeRecord serializes a record for the store.
func EncodeRecord(rec domain.StaffRecord) (string, error) {
	stored := storedRecord{
		ID:         rec.ID,
		Name:       rec.Name,
		Department: rec.Department,
		Status:     string(rec.Status),
		Location:   rec.Location,
		Reportable: string(rec.Reportable),
		ReportTime: rec.ReportTime,
		Comment:    rec.Comment,
	}
	if !rec.UpdatedAt.IsZero() {
		stored.UpdatedAt = rec.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	out, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode staff record %s: %w", rec.ID, err)
	}
	return string(out), nil
}

// DecodeRecord parses a stored value. Unknown keys are ignored and missing keys
// take zero values; anything that is not a JSON object fails with ErrMalformedRecord.
// keyID fills in the id when the value does not carry one.
func DecodeRecord(keyID, raw string) (domain.StaffRecord, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '{' {
		return domain.StaffRecord{}, fmt.Errorf("%w: %s: not an object", ErrMalformedRecord, keyID)
	}

	var stored storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return domain.StaffRecord{}, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, keyID, err)
	}

	rec := domain.StaffRecord{
		ID:         stored.ID,
		Name:       stored.Name,
		Department: stored.Department,
		Status:     domain.ParseStatus(stored.Status),
		Location:   stored.Location,
		Reportable: domain.ParseReportAvailability(stored.Reportable),
		ReportTime: stored.ReportTime,
		Comment:    stored.Comment,
		UpdatedAt:  parseUpdatedAt(stored),
	}
	if rec.Reportable == "" && stored.CanReport != "" {
		rec.Reportable = domain.ParseReportAvailability(stored.CanReport)
	}
	if rec.ID == "" {
		rec.ID = keyID
	}
	return rec, nil
}

func parseUpdatedAt(stored storedRecord) time.Time {
	if stored.UpdatedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, stored.UpdatedAt); err == nil {
			return ts
		}
	}
	if stored.Timestamp != "" {
		if ts, err := time.ParseInLocation(legacyTimestampLayout, stored.Timestamp, jst); err == nil {
			return ts
		}
	}
	return time.Time{}
}
