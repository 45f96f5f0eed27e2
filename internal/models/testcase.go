package models

import (
	"time"

	"github.com/lib/pq"
)

// TestCasePriority enumerates test case priorities.
type TestCasePriority string

const (
	PriorityCritical TestCasePriority = "Critical"
	PriorityHigh     TestCasePriority = "High"
	PriorityMedium   TestCasePriority = "Medium"
	PriorityLow      TestCasePriority = "Low"
)

// TestCaseType enumerates test case categories.
type TestCaseType string

const (
	TypeFunctional  TestCaseType = "Functional"
	TypeIntegration TestCaseType = "Integration"
	TypeRegression  TestCaseType = "Regression"
	TypeSmoke       TestCaseType = "Smoke"
	TypeUI          TestCaseType = "UI"
	TypeAPI         TestCaseType = "API"
)

// TestCaseStatus enumerates test case lifecycle states.
type TestCaseStatus string

const (
	TestCaseActive     TestCaseStatus = "Active"
	TestCaseDraft      TestCaseStatus = "Draft"
	TestCaseDeprecated TestCaseStatus = "Deprecated"
)

// ValidPriority reports whether the priority is a known value.
func ValidPriority(p TestCasePriority) bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ValidTestCaseType reports whether the type is a known value.
func ValidTestCaseType(t TestCaseType) bool {
	switch t {
	case TypeFunctional, TypeIntegration, TypeRegression, TypeSmoke, TypeUI, TypeAPI:
		return true
	}
	return false
}

// ValidTestCaseStatus reports whether the status is a known value.
func ValidTestCaseStatus(s TestCaseStatus) bool {
	switch s {
	case TestCaseActive, TestCaseDraft, TestCaseDeprecated:
		return true
	}
	return false
}

// TestCase represents a single test case within a project.
type TestCase struct {
	ID             int64            `db:"id" json:"id"`
	ProjectID      int64            `db:"project_id" json:"project_id"`
	Title          string           `db:"title" json:"title"`
	Description    *string          `db:"description" json:"description"`
	Priority       TestCasePriority `db:"priority" json:"priority"`
	Type           TestCaseType     `db:"type" json:"type"`
	Status         TestCaseStatus   `db:"status" json:"status"`
	PreConditions  *string          `db:"pre_conditions" json:"pre_conditions"`
	PostConditions *string          `db:"post_conditions" json:"post_conditions"`
	Tags           pq.StringArray   `db:"tags" json:"tags"`
	CreatedBy      *int64           `db:"created_by" json:"created_by"`
	AssignedTo     *int64           `db:"assigned_to" json:"assigned_to"`
	CreatedByName  *string          `db:"created_by_name" json:"created_by_name,omitempty"`
	AssignedToName *string          `db:"assigned_to_name" json:"assigned_to_name,omitempty"`
	StepsCount     int              `db:"steps_count" json:"steps_count"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// TestStep is an ordered step belonging to a test case.
type TestStep struct {
	ID             int64     `db:"id" json:"id"`
	TestCaseID     int64     `db:"test_case_id" json:"test_case_id"`
	StepNumber     int       `db:"step_number" json:"step_number"`
	Description    string    `db:"description" json:"description"`
	ExpectedResult string    `db:"expected_result" json:"expected_result"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// TestCaseFilter captures list filtering and pagination criteria. Every field
// participates in the cache key so distinct queries never collide.
type TestCaseFilter struct {
	ProjectID  int64
	Priority   string
	Type       string
	Search     string
	AssignedTo int64
	Page       int
	PageSize   int
}
