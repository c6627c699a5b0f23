package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"techdoc_pipeline/core"
	"techdoc_pipeline/extract"
	"techdoc_pipeline/logging"
	"techdoc_pipeline/metrics"
	"techdoc_pipeline/quality"
	"techdoc_pipeline/structuring"
	"techdoc_pipeline/textsource"
	"techdoc_pipeline/validate"
)

// Driver runs the staged pipeline for one document at a time. It is
// stateless across documents: everything it holds is read-only after
// construction, so a single Driver is safe for concurrent Process calls
// from batch workers.
type Driver struct {
	config     *core.Config
	adapter    textsource.Adapter
	rule       *extract.RuleExtractor
	nlp        *extract.NLPExtractor
	generative *extract.GenerativeExtractor
	handle     *extract.ModelHandle
	engine     *structuring.Engine
	collector  metrics.Collector
	logger     *zap.Logger
}

// NewDriver wires the extractor families around a shared model handle.
// collector may be nil when no metrics are wanted.
func NewDriver(config *core.Config, adapter textsource.Adapter, handle *extract.ModelHandle, collector metrics.Collector, logger *zap.Logger) *Driver {
	rule := extract.NewRuleExtractor()
	return &Driver{
		config:     config,
		adapter:    adapter,
		rule:       rule,
		nlp:        extract.NewNLPExtractor(config.EnableNLP, rule),
		generative: extract.NewGenerativeExtractor(handle, rule, config.MaxPromptChars, logger),
		handle:     handle,
		engine:     structuring.NewEngine(),
		collector:  collector,
		logger:     logger,
	}
}

// Process runs the six stages in order for the document at path and
// returns the canonical record. Stage failures are recorded and degraded
// around; only source extraction failure aborts. The returned error is
// reserved for contract violations (a programming error, not document
// quality).
func (d *Driver) Process(ctx context.Context, path string) (*Document, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := d.logger.With(logging.RunFields(runID, path)...)
	log.Info("processing document")

	stages := make([]StageResult, 0, 6)
	logStage := func(result StageResult) {
		log.Debug("stage complete", logging.StageResultFields(
			string(result.Stage), result.Success, result.Confidence, time.Since(start))...)
	}

	// Stage 1: source text extraction. The only fatal stage.
	source, err := d.adapter.Extract(path)
	if err != nil {
		log.Error("source extraction failed, aborting document", zap.Error(err))
		stages = append(stages, stageFailed(StagePDFExtraction, err.Error()))
		logStage(stages[0])
		doc := d.abortedDocument(path, stages, err.Error())
		d.record(runID, doc, start)
		return doc, nil
	}
	stages = append(stages, stageOK(StagePDFExtraction, extractionConfidence(source)))
	logStage(stages[0])
	text := source.Text

	// Stage 2: quality assessment over the cleaned text and strategy
	// selection. Pure functions; this stage cannot fail.
	qualityMetrics, level := quality.Assess(text)
	strategy := quality.SelectStrategy(level, qualityMetrics)
	stages = append(stages, stageOK(StageTextCleaning, min(qualityMetrics.StructureScore, 0.9)))
	logStage(stages[1])
	log.Debug("quality assessed",
		zap.String("level", string(level)),
		zap.Float64("noise_ratio", qualityMetrics.NoiseRatio),
		zap.Float64("structure_score", qualityMetrics.StructureScore))

	// Stage 3: rule and statistical extraction.
	nlpOut, err := d.runNLPAnalysis(ctx, text, strategy)
	if err != nil {
		return nil, err
	}
	stages = append(stages, nlpOut.result)
	logStage(nlpOut.result)

	// Stage 4: generative extraction, summary, complexity.
	llmOut, err := d.runLLMProcessing(ctx, text, strategy)
	if err != nil {
		return nil, err
	}
	stages = append(stages, llmOut.result)
	logStage(llmOut.result)

	// Stage 5: merge candidates under the precedence policy.
	useGenerative := strategy.UseGenerative && d.config.EnableGenerative
	merged := d.engine.Merge(nlpOut.ruleSet, nlpOut.nlpSet, llmOut.genSet, useGenerative)
	stages = append(stages, stageOK(StageStructuring, structuringConfidence(merged)))
	logStage(stages[4])

	// Stage 6: validation.
	report := validate.Validate(merged)
	stages = append(stages, StageResult{
		Stage:      StageValidation,
		Success:    report.Valid,
		Confidence: report.AggregateConfidence,
		Errors:     report.Errors,
	})
	logStage(stages[5])

	doc := &Document{
		DocumentInfo: DocumentInfo{
			Filename:            filepath.Base(path),
			ProcessingTimestamp: time.Now().UTC().Format(time.RFC3339),
			ConfidenceScore:     report.AggregateConfidence,
			ExtractionMethod:    source.Method,
			DocumentType:        inferDocumentType(text),
			PageCount:           source.PageCount,
			WordCount:           source.WordCount,
		},
		Modules:   merged.Modules,
		Steps:     merged.Steps,
		Decisions: merged.Decisions,
		Equipment: merged.Equipment,
		Summary:   llmOut.summary,
		Errors:    []string{},
		Metadata: Metadata{
			ProcessingStages:     stages,
			QualityMetrics:       qualityMetrics,
			TechnicalEntities:    nlpOut.entities,
			Classification:       nlpOut.classification,
			ComplexityAnalysis:   llmOut.complexity,
			ExtractionConfidence: meanStageConfidence(stages),
		},
	}

	d.record(runID, doc, start)
	log.Info("document processed", append(
		logging.DocumentFields(
			doc.DocumentInfo.Filename,
			doc.DocumentInfo.DocumentType,
			doc.DocumentInfo.ConfidenceScore,
			len(doc.Modules),
			len(doc.Steps)),
		zap.Duration("duration", time.Since(start)))...)
	return doc, nil
}

type nlpAnalysis struct {
	result         StageResult
	ruleSet        structuring.CandidateSet
	nlpSet         structuring.CandidateSet
	entities       []extract.Entity
	classification map[string]extract.Classification
}

func (d *Driver) runNLPAnalysis(ctx context.Context, text string, strategy quality.Strategy) (*nlpAnalysis, error) {
	out := &nlpAnalysis{}
	var ruleCands, nlpCands []extract.Candidate
	var stageErrs []string

	for _, kind := range extract.Kinds {
		if !kindEnabled(strategy, kind) {
			continue
		}
		ruleRes, err := d.rule.Extract(ctx, text, kind)
		if err != nil {
			return nil, err
		}
		ruleCands = append(ruleCands, ruleRes.Candidates...)

		nlpRes, err := d.nlp.Extract(ctx, text, kind)
		if err != nil {
			return nil, err
		}
		nlpCands = append(nlpCands, nlpRes.Candidates...)
		stageErrs = append(stageErrs, nlpRes.Errors...)
	}
	out.ruleSet = structuring.NewCandidateSet(ruleCands)
	out.nlpSet = structuring.NewCandidateSet(nlpCands)

	if strategy.EnableEntities {
		out.entities = d.nlp.ExtractEntities(text)
	}
	if strategy.EnableClassification {
		out.classification, _ = d.nlp.Classify(text)
	}
	if strategy.EnableDependencyParse {
		deps := d.nlp.ParseDependencies(text)
		d.logger.Debug("dependency parse complete", zap.Int("pairs", len(deps)))
	}

	confidence := 0.5
	if len(out.entities) > 0 {
		confidence += 0.1
	}
	if len(out.nlpSet[extract.KindStep]) > 0 {
		confidence += 0.2
	}
	if len(out.nlpSet[extract.KindModule]) > 0 {
		confidence += 0.1
	}
	if len(out.classification) > 0 {
		confidence += 0.1
	}
	out.result = stageOK(StageNLPAnalysis, confidence)
	out.result.Errors = stageErrs
	return out, nil
}

type llmProcessing struct {
	result     StageResult
	genSet     structuring.CandidateSet
	summary    string
	complexity ComplexityAnalysis
}

func (d *Driver) runLLMProcessing(ctx context.Context, text string, strategy quality.Strategy) (*llmProcessing, error) {
	out := &llmProcessing{genSet: structuring.NewCandidateSet(nil)}

	if !strategy.UseGenerative || !d.config.EnableGenerative {
		out.result = stageOK(StageLLMProcessing, 0.3)
		out.result.Errors = []string{"generative extraction skipped by strategy"}
		out.summary = fallbackSummary(text)
		out.complexity = analyzeComplexity(text)
		return out, nil
	}

	var genCands []extract.Candidate
	var stageErrs []string
	for _, kind := range extract.Kinds {
		if !kindEnabled(strategy, kind) {
			continue
		}
		res, err := d.generative.Extract(ctx, text, kind)
		if err != nil {
			return nil, err
		}
		genCands = append(genCands, res.Candidates...)
		stageErrs = append(stageErrs, res.Errors...)
	}
	out.genSet = structuring.NewCandidateSet(genCands)

	confidence := 0.3
	if d.handle.Available() {
		confidence = 0.6
		for _, kind := range []extract.Kind{extract.KindStep, extract.KindModule, extract.KindDecision} {
			if len(out.genSet[kind]) > 0 {
				confidence += 0.1
			}
		}
	}
	out.result = stageOK(StageLLMProcessing, confidence)
	out.result.Errors = stageErrs

	out.summary = d.summarize(ctx, text)
	out.complexity = d.analyzeComplexityWithModel(ctx, text)
	return out, nil
}

func (d *Driver) summarize(ctx context.Context, text string) string {
	if !d.handle.Available() {
		return fallbackSummary(text)
	}
	prompt := "Summarize the following technical text in 2-3 sentences:\n\n" +
		truncateText(text, 800) + "\n\nSummary:"
	response, err := d.handle.CompleteSummary(ctx, prompt)
	if err != nil || strings.TrimSpace(response) == "" {
		d.logger.Warn("summary generation failed, using fallback", zap.Error(err))
		return fallbackSummary(text)
	}
	return strings.TrimSpace(response)
}

func (d *Driver) analyzeComplexityWithModel(ctx context.Context, text string) ComplexityAnalysis {
	if !d.handle.Available() {
		return analyzeComplexity(text)
	}
	prompt := "Analyze the complexity of the following technical text. Return a JSON object with fields " +
		"readability_score (0-100), technical_difficulty (low/medium/high), domain_specific_terms (count), " +
		"sentence_complexity (average sentence length), overall_assessment (brief).\n\nText: " +
		truncateText(text, 500) + "\n\nJSON:"
	response, err := d.handle.CompleteSummary(ctx, prompt)
	if err != nil {
		return analyzeComplexity(text)
	}
	objStart := strings.Index(response, "{")
	objEnd := strings.LastIndex(response, "}")
	if objStart < 0 || objEnd <= objStart {
		return analyzeComplexity(text)
	}
	var analysis ComplexityAnalysis
	if err := json.Unmarshal([]byte(response[objStart:objEnd+1]), &analysis); err != nil {
		return analyzeComplexity(text)
	}
	return analysis
}

func (d *Driver) abortedDocument(path string, stages []StageResult, errMsg string) *Document {
	return &Document{
		DocumentInfo: DocumentInfo{
			Filename:            filepath.Base(path),
			ProcessingTimestamp: time.Now().UTC().Format(time.RFC3339),
			ConfidenceScore:     0,
			ExtractionMethod:    "unknown",
			DocumentType:        "technical_document",
		},
		Modules:   []structuring.Module{},
		Steps:     []structuring.Step{},
		Decisions: []structuring.DecisionPoint{},
		Equipment: []structuring.Equipment{},
		Errors:    []string{errMsg},
		Metadata: Metadata{
			ProcessingStages: stages,
		},
	}
}

func (d *Driver) record(runID string, doc *Document, start time.Time) {
	if d.collector == nil {
		return
	}
	status := metrics.StatusSuccess
	errMsg := ""
	if len(doc.Errors) > 0 {
		status = metrics.StatusError
		errMsg = doc.Errors[0]
	}
	d.collector.RecordDocument(metrics.DocumentRecord{
		ID:             runID,
		Filename:       doc.DocumentInfo.Filename,
		DocumentType:   doc.DocumentInfo.DocumentType,
		QualityLevel:   string(quality.LevelFor(doc.Metadata.QualityMetrics)),
		Status:         status,
		StartTime:      start,
		EndTime:        time.Now(),
		Duration:       time.Since(start),
		Confidence:     doc.DocumentInfo.ConfidenceScore,
		ModuleCount:    len(doc.Modules),
		StepCount:      len(doc.Steps),
		DecisionCount:  len(doc.Decisions),
		EquipmentCount: len(doc.Equipment),
		ErrorMsg:       errMsg,
	})
}

func kindEnabled(strategy quality.Strategy, kind extract.Kind) bool {
	switch kind {
	case extract.KindModule:
		return strategy.EnableModules
	case extract.KindStep:
		return strategy.EnableSteps
	case extract.KindDecision:
		return strategy.EnableDecisions
	case extract.KindEquipment:
		return strategy.EnableEntities
	}
	return false
}

func extractionConfidence(source *textsource.SourceText) float64 {
	confidence := 0.5
	switch source.Method {
	case "native_text":
		confidence += 0.3
	case "table_aware":
		confidence += 0.2
	case "ocr":
		confidence += 0.1
	}
	if len(source.Text) > 1000 {
		confidence += 0.1
	} else if len(source.Text) < 100 {
		confidence -= 0.2
	}
	return clamp(confidence)
}

func structuringConfidence(merged structuring.Merged) float64 {
	confidence := 0.5
	if len(merged.Modules) > 0 {
		confidence += 0.15
	}
	if len(merged.Steps) > 0 {
		confidence += 0.15
	}
	if len(merged.Decisions) > 0 {
		confidence += 0.15
	}
	return clamp(confidence)
}

func meanStageConfidence(stages []StageResult) float64 {
	if len(stages) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range stages {
		sum += s.Confidence
	}
	return sum / float64(len(stages))
}

func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen]
}
