package testcase

import (
	"fmt"
	"strings"
)

// Field names a test case attribute by its wire key
type Field string

const (
	FieldTestCaseID       Field = "testcase_id"
	FieldFeatureName      Field = "feature_name"
	FieldTestScenario     Field = "test_scenario"
	FieldTestType         Field = "test_type"
	FieldPreconditions    Field = "preconditions"
	FieldTestSteps        Field = "test_steps"
	FieldTestData         Field = "test_data"
	FieldExpectedResult   Field = "expected_result"
	FieldEditedRoute      Field = "edited_route"
	FieldMatchedRoute     Field = "matched_route"
	FieldPriority         Field = "priority"
	FieldAutomationStatus Field = "automation_status"
)

// Fields lists every record attribute in display order
var Fields = []Field{
	FieldTestCaseID,
	FieldFeatureName,
	FieldTestScenario,
	FieldTestType,
	FieldPreconditions,
	FieldTestSteps,
	FieldTestData,
	FieldExpectedResult,
	FieldEditedRoute,
	FieldMatchedRoute,
	FieldPriority,
	FieldAutomationStatus,
}

// ParseField resolves a wire key, accepting dashes and any case
func ParseField(name string) (Field, error) {
	key := Field(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, f := range Fields {
		if f == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown test case field %q", name)
}

// Editable reports whether users may change the field. The id is fixed and
// matched_route belongs to the route-matching collaborator.
func (f Field) Editable() bool {
	switch f {
	case FieldTestCaseID, FieldMatchedRoute:
		return false
	}
	for _, known := range Fields {
		if known == f {
			return true
		}
	}
	return false
}

// Record is one row of a generated test suite
type Record struct {
	TestCaseID       FieldValue `json:"testcase_id,omitzero" yaml:"testcase_id,omitempty"`
	FeatureName      FieldValue `json:"feature_name,omitzero" yaml:"feature_name,omitempty"`
	TestScenario     FieldValue `json:"test_scenario,omitzero" yaml:"test_scenario,omitempty"`
	TestType         FieldValue `json:"test_type,omitzero" yaml:"test_type,omitempty"`
	Preconditions    FieldValue `json:"preconditions,omitzero" yaml:"preconditions,omitempty"`
	TestSteps        FieldValue `json:"test_steps,omitzero" yaml:"test_steps,omitempty"`
	TestData         FieldValue `json:"test_data,omitzero" yaml:"test_data,omitempty"`
	ExpectedResult   FieldValue `json:"expected_result,omitzero" yaml:"expected_result,omitempty"`
	EditedRoute      FieldValue `json:"edited_route,omitzero" yaml:"edited_route,omitempty"`
	MatchedRoute     FieldValue `json:"matched_route,omitzero" yaml:"matched_route,omitempty"`
	Priority         FieldValue `json:"priority,omitzero" yaml:"priority,omitempty"`
	AutomationStatus FieldValue `json:"automation_status,omitzero" yaml:"automation_status,omitempty"`
}

// slot returns a pointer to the storage of a field, or nil for unknown names
func (r *Record) slot(field Field) *FieldValue {
	switch field {
	case FieldTestCaseID:
		return &r.TestCaseID
	case FieldFeatureName:
		return &r.FeatureName
	case FieldTestScenario:
		return &r.TestScenario
	case FieldTestType:
		return &r.TestType
	case FieldPreconditions:
		return &r.Preconditions
	case FieldTestSteps:
		return &r.TestSteps
	case FieldTestData:
		return &r.TestData
	case FieldExpectedResult:
		return &r.ExpectedResult
	case FieldEditedRoute:
		return &r.EditedRoute
	case FieldMatchedRoute:
		return &r.MatchedRoute
	case FieldPriority:
		return &r.Priority
	case FieldAutomationStatus:
		return &r.AutomationStatus
	default:
		return nil
	}
}

// Get returns the stored value of a field
func (r Record) Get(field Field) (FieldValue, bool) {
	p := r.slot(field)
	if p == nil {
		return FieldValue{}, false
	}
	return *p, true
}

// Normalize returns the single display/export string of a field.
// Lists are joined with "; ", absent or unknown fields yield "".
func Normalize(r Record, field Field) string {
	v, _ := r.Get(field)
	return v.String()
}

// IsMatched reports whether the record is linked to an API route, either by
// a user edit or by the route-matching collaborator
func (r Record) IsMatched() bool {
	return r.EditedRoute.String() != "" || r.MatchedRoute.String() != ""
}

// Route returns the route the record is linked to, preferring user edits
func (r Record) Route() string {
	if route := r.EditedRoute.String(); route != "" {
		return route
	}
	return r.MatchedRoute.String()
}

// clone deep-copies list storage so edits never alias between collections
func (r Record) clone() Record {
	out := r
	for _, f := range Fields {
		p := out.slot(f)
		if p.IsList() {
			*p = List(p.list...)
		}
	}
	return out
}
