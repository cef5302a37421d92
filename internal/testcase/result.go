package testcase

// Route is an API route discovered in a repository
type Route struct {
	Method     string `json:"method" yaml:"method"`
	Path       string `json:"path" yaml:"path"`
	SourceFile string `json:"source_file" yaml:"source_file"`
}

// RoutePreview is the output of the route extraction collaborator
type RoutePreview struct {
	RouteFiles       []string   `json:"routeFiles,omitempty" yaml:"routeFiles,omitempty"`
	RoutesPreview    []Route    `json:"routesPreview" yaml:"routesPreview"`
	TestCasesPreview Collection `json:"testCasesPreview" yaml:"testCasesPreview"`
}

// FeatureMapping cross-references a feature with its source documents
type FeatureMapping struct {
	FeatureName        string   `json:"feature_name" yaml:"feature_name"`
	FRDReference       string   `json:"frd_reference" yaml:"frd_reference"`
	UserStoryReference string   `json:"user_story_reference" yaml:"user_story_reference"`
	FeatureFlow        string   `json:"feature_flow" yaml:"feature_flow"`
	FunctionsCovered   []string `json:"functions_covered" yaml:"functions_covered"`
	IsComplete         bool     `json:"is_complete" yaml:"is_complete"`
}

// Extraction holds the metrics of the artifact extraction step
type Extraction struct {
	TotalFeatures    int              `json:"total_features" yaml:"total_features"`
	TotalUserStories int              `json:"total_user_stories" yaml:"total_user_stories"`
	FeaturesMapped   int              `json:"features_mapped" yaml:"features_mapped"`
	FeatureMappings  []FeatureMapping `json:"feature_mappings,omitempty" yaml:"feature_mappings,omitempty"`
}

// Suite is the generated test suite with its coverage metrics
type Suite struct {
	TotalTestCases     int        `json:"total_test_cases" yaml:"total_test_cases"`
	CoveragePercentage float64    `json:"coverage_percentage" yaml:"coverage_percentage"`
	Summary            string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	TestCases          Collection `json:"test_cases" yaml:"test_cases"`
}

// GenerationResult is the nested output of the test-case generation
// collaborator. Either part may be missing.
type GenerationResult struct {
	Extraction *Extraction `json:"extraction,omitempty" yaml:"extraction,omitempty"`
	TestCases  *Suite      `json:"test_cases,omitempty" yaml:"test_cases,omitempty"`
}

// Records returns the generated test cases, nil when absent
func (g *GenerationResult) Records() Collection {
	if g == nil || g.TestCases == nil {
		return nil
	}
	return g.TestCases.TestCases
}

// FeatureMappings returns the cross-reference rows, nil when absent
func (g *GenerationResult) FeatureMappings() []FeatureMapping {
	if g == nil || g.Extraction == nil {
		return nil
	}
	return g.Extraction.FeatureMappings
}
