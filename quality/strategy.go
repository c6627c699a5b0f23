package quality

// Strategy records which extractor families to invoke for a document.
// It is produced once per document by SelectStrategy and passed explicitly
// through the pipeline; stages never read ambient configuration to decide
// what to run.
type Strategy struct {
	UseGenerative         bool `json:"use_generative"`
	EnableEntities        bool `json:"enable_entities"`
	EnableSteps           bool `json:"enable_steps"`
	EnableModules         bool `json:"enable_modules"`
	EnableDecisions       bool `json:"enable_decisions"`
	EnableDependencyParse bool `json:"enable_dependency_parse"`
	EnableClassification  bool `json:"enable_classification"`
}

// SelectStrategy maps a quality level and its metrics to a Strategy.
// This is the single place policy changes belong; it is a total function
// with no hidden state.
func SelectStrategy(level Level, metrics Metrics) Strategy {
	return Strategy{
		// The generative extractor is reserved for text clean enough
		// to prompt with.
		UseGenerative: level == LevelHigh || level == LevelMedium,

		EnableEntities:       true,
		EnableSteps:          true,
		EnableModules:        true,
		EnableDecisions:      true,
		EnableClassification: true,

		// Dependency parsing is expensive, reserved for clean text.
		EnableDependencyParse: level == LevelHigh,
	}
}
