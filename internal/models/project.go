package models

import "time"

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectArchived  ProjectStatus = "archived"
	ProjectCompleted ProjectStatus = "completed"
)

// ValidProjectStatus reports whether the status is a known value.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectCompleted:
		return true
	}
	return false
}

// Project represents a tested product or release stream.
type Project struct {
	ID            int64         `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Description   *string       `db:"description" json:"description"`
	Version       *string       `db:"version" json:"version"`
	Status        ProjectStatus `db:"status" json:"status"`
	CreatedBy     *int64        `db:"created_by" json:"created_by"`
	CreatorName   *string       `db:"creator_name" json:"creator_name,omitempty"`
	TestCaseCount int           `db:"test_case_count" json:"test_case_count"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// ProjectMember links a user to a project.
type ProjectMember struct {
	ID         int64     `db:"id" json:"id"`
	ProjectID  int64     `db:"project_id" json:"project_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	Role       UserRole  `db:"role" json:"role"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
}
