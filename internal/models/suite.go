package models

import "time"

// TestSuite groups test cases within a project.
type TestSuite struct {
	ID            int64     `db:"id" json:"id"`
	ProjectID     int64     `db:"project_id" json:"project_id"`
	Name          string    `db:"name" json:"name"`
	Description   *string   `db:"description" json:"description"`
	CreatedBy     *int64    `db:"created_by" json:"created_by"`
	CreatedByName *string   `db:"created_by_name" json:"created_by_name,omitempty"`
	TestCaseCount int       `db:"test_case_count" json:"test_case_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
