package models

// ProjectCreateRequest captures a new project payload.
type ProjectCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description"`
	Version     *string `json:"version"`
	Status      *string `json:"status"`
}

// ProjectUpdateRequest carries optional project updates. Nil fields are
// left unchanged.
type ProjectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Version     *string `json:"version"`
	Status      *string `json:"status"`
}

// MemberAddRequest links a user to a project.
type MemberAddRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// TestStepInput is one ordered step in a test case payload.
type TestStepInput struct {
	Description    string `json:"description" validate:"required"`
	ExpectedResult string `json:"expected_result"`
}

// TestCaseCreateRequest captures a new test case with its steps.
type TestCaseCreateRequest struct {
	ProjectID      int64           `json:"project_id" validate:"required"`
	Title          string          `json:"title" validate:"required,min=3"`
	Description    *string         `json:"description"`
	Priority       string          `json:"priority" validate:"required"`
	Type           string          `json:"type" validate:"required"`
	PreConditions  *string         `json:"pre_conditions"`
	PostConditions *string         `json:"post_conditions"`
	Tags           []string        `json:"tags"`
	AssignedTo     *int64          `json:"assigned_to"`
	Steps          []TestStepInput `json:"steps"`
}

// TestCaseUpdateRequest carries optional test case updates. Nil fields are
// left unchanged; AssignedTo set to 0 clears the assignee; a non-nil Steps
// slice replaces the step list wholesale.
type TestCaseUpdateRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Priority       *string          `json:"priority"`
	Type           *string          `json:"type"`
	PreConditions  *string          `json:"pre_conditions"`
	PostConditions *string          `json:"post_conditions"`
	Tags           *[]string        `json:"tags"`
	AssignedTo     *int64           `json:"assigned_to"`
	Steps          *[]TestStepInput `json:"steps"`
}

// Bulk action names accepted by the test case bulk endpoint.
const (
	BulkActionDelete         = "delete"
	BulkActionUpdatePriority = "update_priority"
	BulkActionUpdateStatus   = "update_status"
	BulkActionAssign         = "assign"
)

// BulkActionRequest applies one action to a set of test cases.
type BulkActionRequest struct {
	Action     string  `json:"action" validate:"required,oneof=delete update_priority update_status assign"`
	IDs        []int64 `json:"ids" validate:"required,min=1"`
	Priority   string  `json:"priority"`
	Status     string  `json:"status"`
	AssignedTo int64   `json:"assigned_to"`
}

// ExecutionCreateRequest records the outcome of running a test case.
type ExecutionCreateRequest struct {
	TestCaseID    int64   `json:"test_case_id" validate:"required"`
	TestSuiteID   *int64  `json:"test_suite_id"`
	Status        string  `json:"status" validate:"required"`
	Comments      *string `json:"comments"`
	ExecutionTime *int    `json:"execution_time"`
}

// DefectCreateRequest captures a new defect payload.
type DefectCreateRequest struct {
	TestCaseID      int64   `json:"test_case_id" validate:"required"`
	TestExecutionID *int64  `json:"test_execution_id"`
	Title           string  `json:"title" validate:"required,min=3"`
	Description     *string `json:"description"`
	Severity        string  `json:"severity" validate:"required"`
	Status          string  `json:"status"`
	AssignedTo      *int64  `json:"assigned_to"`
}

// DefectUpdateRequest carries optional defect updates. Nil fields are
// left unchanged.
type DefectUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
	Status      *string `json:"status"`
	AssignedTo  *int64  `json:"assigned_to"`
}

// SuiteCreateRequest captures a new test suite payload.
type SuiteCreateRequest struct {
	ProjectID   int64   `json:"project_id" validate:"required"`
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description"`
}
