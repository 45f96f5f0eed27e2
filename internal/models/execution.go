package models

import "time"

// ExecutionStatus enumerates test execution outcomes.
type ExecutionStatus string

const (
	ExecutionPass    ExecutionStatus = "Pass"
	ExecutionFail    ExecutionStatus = "Fail"
	ExecutionBlocked ExecutionStatus = "Blocked"
	ExecutionSkipped ExecutionStatus = "Skipped"
)

// ValidExecutionStatus reports whether the status is a known value.
func ValidExecutionStatus(s ExecutionStatus) bool {
	switch s {
	case ExecutionPass, ExecutionFail, ExecutionBlocked, ExecutionSkipped:
		return true
	}
	return false
}

// TestExecution records one run of a test case.
type TestExecution struct {
	ID               int64           `db:"id" json:"id"`
	TestCaseID       int64           `db:"test_case_id" json:"test_case_id"`
	TestSuiteID      *int64          `db:"test_suite_id" json:"test_suite_id"`
	ExecutedBy       *int64          `db:"executed_by" json:"executed_by"`
	Status           ExecutionStatus `db:"status" json:"status"`
	Comments         *string         `db:"comments" json:"comments"`
	ExecutionTime    *int            `db:"execution_time" json:"execution_time"`
	ExecutedByName   *string         `db:"executed_by_name" json:"executed_by_name,omitempty"`
	TestCaseTitle    *string         `db:"test_case_title" json:"test_case_title,omitempty"`
	TestCasePriority *string         `db:"test_case_priority" json:"test_case_priority,omitempty"`
	ExecutedAt       time.Time       `db:"executed_at" json:"executed_at"`
}

// ExecutionFilter captures list filtering criteria for executions.
type ExecutionFilter struct {
	TestCaseID int64
	ProjectID  int64
	Status     string
	Limit      int
}
