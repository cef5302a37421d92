package testcase

// TestType classifies the scenario under test
type TestType string

const (
	TestTypePositive TestType = "Positive"
	TestTypeNegative TestType = "Negative"
	TestTypeEdgeCase TestType = "Edge Case"
	TestTypeBoundary TestType = "Boundary"
)

// Valid checks the value against the known test types
func (t TestType) Valid() bool {
	switch t {
	case TestTypePositive, TestTypeNegative, TestTypeEdgeCase, TestTypeBoundary:
		return true
	}
	return false
}

// Priority ranks a test case
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Valid checks the value against the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// AutomationStatus tracks whether a test case is automated
type AutomationStatus string

const (
	AutomationAutomated     AutomationStatus = "Automated"
	AutomationManual        AutomationStatus = "Manual"
	AutomationToBeAutomated AutomationStatus = "To Be Automated"
)

// Valid checks the value against the known automation states
func (s AutomationStatus) Valid() bool {
	switch s {
	case AutomationAutomated, AutomationManual, AutomationToBeAutomated:
		return true
	}
	return false
}

// Issues lists enumerated fields holding values outside their known set.
// Absent fields are not reported. The backend owns these values, so records
// are never rejected for them.
func (r Record) Issues() []string {
	var issues []string
	if v := r.TestType.String(); v != "" && !TestType(v).Valid() {
		issues = append(issues, "unknown test_type "+quote(v))
	}
	if v := r.Priority.String(); v != "" && !Priority(v).Valid() {
		issues = append(issues, "unknown priority "+quote(v))
	}
	if v := r.AutomationStatus.String(); v != "" && !AutomationStatus(v).Valid() {
		issues = append(issues, "unknown automation_status "+quote(v))
	}
	return issues
}

func quote(s string) string {
	return "\"" + s + "\""
}
