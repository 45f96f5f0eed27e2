package models

import "time"

// TestCaseStats aggregates test case counts for one project.
type TestCaseStats struct {
	Total       int `db:"total"`
	Critical    int `db:"critical"`
	High        int `db:"high"`
	Medium      int `db:"medium"`
	Low         int `db:"low"`
	Functional  int `db:"functional"`
	Integration int `db:"integration"`
	Regression  int `db:"regression"`
	Smoke       int `db:"smoke"`
	UI          int `db:"ui"`
	API         int `db:"api"`
}

// ExecutionStats aggregates execution counts by status.
type ExecutionStats struct {
	Total   int `db:"total"`
	Passed  int `db:"passed"`
	Failed  int `db:"failed"`
	Blocked int `db:"blocked"`
	Skipped int `db:"skipped"`
}

// TrendPoint is a per-day breakdown of execution outcomes.
type TrendPoint struct {
	Date    string `db:"date" json:"date"`
	Passed  int    `db:"passed" json:"passed"`
	Failed  int    `db:"failed" json:"failed"`
	Blocked int    `db:"blocked" json:"blocked"`
	Skipped int    `db:"skipped" json:"skipped"`
}

// DefectStats aggregates defect counts by status and severity.
type DefectStats struct {
	Total      int `db:"total"`
	Open       int `db:"open"`
	InProgress int `db:"in_progress"`
	Resolved   int `db:"resolved"`
	Closed     int `db:"closed"`
	Critical   int `db:"critical"`
	High       int `db:"high"`
	Medium     int `db:"medium"`
	Low        int `db:"low"`
}

// TesterStats counts executions per tester.
type TesterStats struct {
	FullName string `db:"full_name" json:"full_name"`
	Total    int    `db:"total" json:"total"`
	Passed   int    `db:"passed" json:"passed"`
	Failed   int    `db:"failed" json:"failed"`
}

// PriorityBreakdown groups test case counts by priority.
type PriorityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// TypeBreakdown groups test case counts by type.
type TypeBreakdown struct {
	Functional  int `json:"functional"`
	Integration int `json:"integration"`
	Regression  int `json:"regression"`
	Smoke       int `json:"smoke"`
	UI          int `json:"ui"`
	API         int `json:"api"`
}

// TestCaseSummary is the test case section of a snapshot.
type TestCaseSummary struct {
	Total      int               `json:"total"`
	ByPriority PriorityBreakdown `json:"byPriority"`
	ByType     TypeBreakdown     `json:"byType"`
}

// ExecutionSummary is the execution section of a snapshot.
type ExecutionSummary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Blocked  int `json:"blocked"`
	Skipped  int `json:"skipped"`
	Pending  int `json:"pending"`
	PassRate int `json:"passRate"`
}

// SeverityBreakdown groups defect counts by severity.
type SeverityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// DefectSummary is the defect section of a snapshot.
type DefectSummary struct {
	Total      int               `json:"total"`
	Open       int               `json:"open"`
	InProgress int               `json:"inProgress"`
	Resolved   int               `json:"resolved"`
	Closed     int               `json:"closed"`
	BySeverity SeverityBreakdown `json:"bySeverity"`
}

// AnalyticsSnapshot is the complete derived view for one project. It is
// computed on demand and cached, never persisted.
type AnalyticsSnapshot struct {
	TestCases         TestCaseSummary  `json:"testCases"`
	Executions        ExecutionSummary `json:"executions"`
	Coverage          int              `json:"coverage"`
	DefectDensity     string           `json:"defectDensity"`
	Trends            []TrendPoint     `json:"trends"`
	Defects           DefectSummary    `json:"defects"`
	ExecutionByTester []TesterStats    `json:"executionByTester"`
	GeneratedAt       time.Time        `json:"generatedAt"`
}

// RateLimitResult reports the outcome of a fixed-window admission check.
// ResetAt is the Unix timestamp in seconds at which the window expires,
// matching the unit clients expect in the X-RateLimit-Reset header.
type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int   `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
}
