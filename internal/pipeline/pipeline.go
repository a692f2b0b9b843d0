// Package pipeline runs the four coaching stages in sequence and exposes the
// standalone coaching responder.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rein-coach/internal/common/config"
	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/common/llm"
	"rein-coach/internal/common/logger"
	"rein-coach/internal/models"
	coachingresponse "rein-coach/internal/workers/coaching/coaching-response"
	createexecutionplan "rein-coach/internal/workers/coaching/create-execution-plan"
	evaluateresolution "rein-coach/internal/workers/coaching/evaluate-resolution"
	generateresolution "rein-coach/internal/workers/coaching/generate-resolution"
	preprocessgoal "rein-coach/internal/workers/coaching/preprocess-goal"
)

// DefaultGoalID is used when the profile carries no id.
const DefaultGoalID = "unknown"

// Config is everything a Pipeline needs to build its own client.
type Config struct {
	APIKey                string
	Model                 string
	Timeout               time.Duration
	Temperature           float64
	DefaultStyle          string
	DefaultAvailableHours float64
}

// ConfigFrom maps the application config onto a pipeline Config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		APIKey:                cfg.GenAI.APIKey,
		Model:                 cfg.GenAI.Model,
		Timeout:               cfg.GenAITimeout(),
		Temperature:           cfg.GenAI.Temperature,
		DefaultStyle:          cfg.Pipeline.DefaultStyle,
		DefaultAvailableHours: cfg.Pipeline.DefaultAvailableHours,
	}
}

// Pipeline owns one text-generation client shared by its stages. It keeps
// no per-run state and is safe for concurrent use.
type Pipeline struct {
	generator llm.TextGenerator
	logger    logger.Logger
	observer  Observer

	defaultStyle string
	defaultHours float64

	preprocessor *preprocessgoal.Handler
	resolutions  *generateresolution.Handler
	evaluator    *evaluateresolution.Handler
	planner      *createexecutionplan.Handler
	coach        *coachingresponse.Handler
}

// New builds a Gemini-backed pipeline. A missing API key fails here with a
// ConfigurationError and no stage is ever attempted.
func New(ctx context.Context, cfg Config, opts ...Option) (*Pipeline, error) {
	client, err := llm.NewGeminiClient(ctx, llm.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return build(client, cfg, opts...), nil
}

// NewWithGenerator builds a pipeline over an existing generator.
func NewWithGenerator(gen llm.TextGenerator, opts ...Option) (*Pipeline, error) {
	if gen == nil {
		return nil, apperrors.NewConfigurationError("text generator is nil")
	}
	return build(gen, Config{}, opts...), nil
}

func build(gen llm.TextGenerator, cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		generator:    gen,
		logger:       logger.NewNoOpLogger(),
		defaultStyle: cfg.DefaultStyle,
		defaultHours: cfg.DefaultAvailableHours,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.defaultStyle == "" {
		p.defaultStyle = generateresolution.StyleBalanced
	}
	if p.defaultHours == 0 {
		p.defaultHours = createexecutionplan.DefaultAvailableHours
	}

	genCfg := generateresolution.LoadConfig()
	genCfg.DefaultStyle = p.defaultStyle
	planCfg := createexecutionplan.LoadConfig()
	planCfg.DefaultAvailableHours = p.defaultHours

	p.preprocessor = preprocessgoal.NewHandler(preprocessgoal.LoadConfig(), gen, p.logger)
	p.resolutions = generateresolution.NewHandler(genCfg, gen, p.logger)
	p.evaluator = evaluateresolution.NewHandler(evaluateresolution.LoadConfig(), gen, p.logger)
	p.planner = createexecutionplan.NewHandler(planCfg, gen, p.logger)
	p.coach = coachingresponse.NewHandler(coachingresponse.LoadConfig(), gen, p.logger)
	return p
}

// Generator returns the shared client, for callers that run stages as job workers.
func (p *Pipeline) Generator() llm.TextGenerator {
	return p.generator
}

// Run executes preprocess, generate, evaluate and plan in order. The first
// failure stops the run; no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, goal string, profile map[string]interface{}) (*models.PipelineResult, error) {
	runID := uuid.NewString()
	log := p.logger.With(map[string]interface{}{"runId": runID})
	started := time.Now()

	log.Info("Starting end-to-end pipeline", map[string]interface{}{
		"goal": logger.Truncate(goal, 50),
	})

	result, err := p.run(ctx, runID, goal, profile)

	obs := Observation{
		Name:     OperationEndToEnd,
		RunID:    runID,
		Inputs:   map[string]interface{}{"goal": goal, "profile": profile},
		Err:      err,
		Started:  started,
		Duration: time.Since(started),
	}
	if err == nil {
		obs.Outputs = map[string]interface{}{"result": result}
	}
	p.notify(ctx, obs)

	if err != nil {
		log.Error("Pipeline failed", map[string]interface{}{
			"stage":     apperrors.StageOf(err),
			"errorCode": apperrors.CodeOf(err),
			"error":     err.Error(),
		})
		return nil, err
	}

	log.Info("Pipeline completed successfully", map[string]interface{}{
		"title":      result.Resolution.Title,
		"totalWeeks": result.Plan.TotalWeeks,
		"durationMs": time.Since(started).Milliseconds(),
	})
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, runID, goal string, profile map[string]interface{}) (*models.PipelineResult, error) {
	preprocessed, err := p.preprocess(ctx, runID, goal, profile)
	if err != nil {
		return nil, err
	}

	resolution, err := p.generate(ctx, runID, preprocessed, "")
	if err != nil {
		return nil, err
	}

	evaluation, err := p.evaluate(ctx, runID, resolution)
	if err != nil {
		return nil, err
	}

	hours, ok := profileHours(profile)
	var hoursPtr *float64
	if ok {
		hoursPtr = &hours
	}
	plan, err := p.plan(ctx, runID, profileGoalID(profile), resolution, hoursPtr)
	if err != nil {
		return nil, err
	}

	return &models.PipelineResult{
		PreprocessedGoal: preprocessed,
		Resolution:       resolution,
		Evaluation:       evaluation,
		Plan:             plan,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Preprocess runs the goal preprocessing stage on its own.
func (p *Pipeline) Preprocess(ctx context.Context, goal string, userContext map[string]interface{}) (*models.GoalPreprocessingResult, error) {
	return p.preprocess(ctx, uuid.NewString(), goal, userContext)
}

// GenerateResolution runs the resolution stage on its own. An empty style
// uses the configured default.
func (p *Pipeline) GenerateResolution(ctx context.Context, goal *models.GoalPreprocessingResult, style string) (*models.GeneratedResolution, error) {
	return p.generate(ctx, uuid.NewString(), goal, style)
}

// EvaluateResolution runs the quality evaluator on its own.
func (p *Pipeline) EvaluateResolution(ctx context.Context, resolution *models.GeneratedResolution) (models.QualityEvaluation, error) {
	return p.evaluate(ctx, uuid.NewString(), resolution)
}

// CreateExecutionPlan runs the planner on its own. A nil hours uses the default.
func (p *Pipeline) CreateExecutionPlan(ctx context.Context, goalID string, resolution *models.GeneratedResolution, hours *float64) (*models.GeneratedPlan, error) {
	return p.plan(ctx, uuid.NewString(), goalID, resolution, hours)
}

// Coach answers a check-in question and returns the model's text unchanged.
func (p *Pipeline) Coach(ctx context.Context, query string, goalContext map[string]interface{}, recentProgress []string) (string, error) {
	inputs := map[string]interface{}{
		"query":           query,
		"goal_context":    goalContext,
		"recent_progress": recentProgress,
	}
	return observed(ctx, p, uuid.NewString(), OperationCoach, inputs, func() (string, error) {
		return p.coach.Execute(ctx, &coachingresponse.Input{
			Query:          query,
			GoalContext:    goalContext,
			RecentProgress: recentProgress,
		})
	})
}

func (p *Pipeline) preprocess(ctx context.Context, runID, goal string, userContext map[string]interface{}) (*models.GoalPreprocessingResult, error) {
	inputs := map[string]interface{}{"user_input": goal, "user_context": userContext}
	return observed(ctx, p, runID, OperationPreprocess, inputs, func() (*models.GoalPreprocessingResult, error) {
		return p.preprocessor.Execute(ctx, &preprocessgoal.Input{Goal: goal, UserContext: userContext})
	})
}

func (p *Pipeline) generate(ctx context.Context, runID string, goal *models.GoalPreprocessingResult, style string) (*models.GeneratedResolution, error) {
	if style == "" {
		style = p.defaultStyle
	}
	inputs := map[string]interface{}{"preprocessed_goal": goal, "style": style}
	return observed(ctx, p, runID, OperationGenerate, inputs, func() (*models.GeneratedResolution, error) {
		return p.resolutions.Execute(ctx, &generateresolution.Input{PreprocessedGoal: goal, Style: style})
	})
}

func (p *Pipeline) evaluate(ctx context.Context, runID string, resolution *models.GeneratedResolution) (models.QualityEvaluation, error) {
	inputs := map[string]interface{}{"resolution": resolution}
	return observed(ctx, p, runID, OperationEvaluate, inputs, func() (models.QualityEvaluation, error) {
		return p.evaluator.Execute(ctx, &evaluateresolution.Input{Resolution: resolution})
	})
}

func (p *Pipeline) plan(ctx context.Context, runID, goalID string, resolution *models.GeneratedResolution, hours *float64) (*models.GeneratedPlan, error) {
	used := p.defaultHours
	if hours != nil {
		used = *hours
	}
	inputs := map[string]interface{}{"goal_id": goalID, "resolution": resolution, "available_hours": used}
	return observed(ctx, p, runID, OperationPlan, inputs, func() (*models.GeneratedPlan, error) {
		return p.planner.Execute(ctx, &createexecutionplan.Input{GoalID: goalID, Resolution: resolution, AvailableHours: hours})
	})
}

// observed runs fn and reports it to the pipeline's observer.
func observed[T any](ctx context.Context, p *Pipeline, runID, name string, inputs map[string]interface{}, fn func() (T, error)) (T, error) {
	started := time.Now()
	out, err := fn()

	obs := Observation{
		Name:     name,
		RunID:    runID,
		Inputs:   inputs,
		Err:      err,
		Started:  started,
		Duration: time.Since(started),
	}
	if err == nil {
		obs.Outputs = map[string]interface{}{"result": out}
	}
	p.notify(ctx, obs)
	return out, err
}

// notify delivers obs to the observer. A panicking observer is logged and ignored.
func (p *Pipeline) notify(ctx context.Context, obs Observation) {
	if p.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("observer panicked", map[string]interface{}{
				"operation": obs.Name,
				"panic":     r,
			})
		}
	}()
	p.observer.Observe(ctx, obs)
}

func profileGoalID(profile map[string]interface{}) string {
	if id, ok := profile["id"].(string); ok && id != "" {
		return id
	}
	return DefaultGoalID
}

// profileHours reads available_hours, falling back to available_hours_per_week.
func profileHours(profile map[string]interface{}) (float64, bool) {
	for _, key := range []string{"available_hours", "available_hours_per_week"} {
		if h, ok := number(profile[key]); ok {
			return h, true
		}
	}
	return 0, false
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
