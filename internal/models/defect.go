package models

import "time"

// DefectSeverity enumerates defect severities.
type DefectSeverity string

const (
	SeverityCritical DefectSeverity = "Critical"
	SeverityHigh     DefectSeverity = "High"
	SeverityMedium   DefectSeverity = "Medium"
	SeverityLow      DefectSeverity = "Low"
)

// DefectStatus enumerates defect lifecycle states.
type DefectStatus string

const (
	DefectOpen       DefectStatus = "Open"
	DefectInProgress DefectStatus = "In Progress"
	DefectResolved   DefectStatus = "Resolved"
	DefectClosed     DefectStatus = "Closed"
)

// ValidSeverity reports whether the severity is a known value.
func ValidSeverity(s DefectSeverity) bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ValidDefectStatus reports whether the status is a known value.
func ValidDefectStatus(s DefectStatus) bool {
	switch s {
	case DefectOpen, DefectInProgress, DefectResolved, DefectClosed:
		return true
	}
	return false
}

// Defect represents a defect raised against a test case.
type Defect struct {
	ID              int64          `db:"id" json:"id"`
	TestCaseID      int64          `db:"test_case_id" json:"test_case_id"`
	TestExecutionID *int64         `db:"test_execution_id" json:"test_execution_id"`
	Title           string         `db:"title" json:"title"`
	Description     *string        `db:"description" json:"description"`
	Severity        DefectSeverity `db:"severity" json:"severity"`
	Status          DefectStatus   `db:"status" json:"status"`
	CreatedBy       *int64         `db:"created_by" json:"created_by"`
	AssignedTo      *int64         `db:"assigned_to" json:"assigned_to"`
	ProjectID       *int64         `db:"project_id" json:"project_id,omitempty"`
	TestCaseTitle   *string        `db:"test_case_title" json:"test_case_title,omitempty"`
	CreatedByName   *string        `db:"created_by_name" json:"created_by_name,omitempty"`
	AssignedToName  *string        `db:"assigned_to_name" json:"assigned_to_name,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// DefectFilter captures list filtering criteria for defects.
type DefectFilter struct {
	ProjectID int64
	Status    string
}
