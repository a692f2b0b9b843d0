package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	coachingresponse "rein-coach/internal/workers/coaching/coaching-response"
)

const demoGoal = "I want to get fit and run a 5K by the end of Q1"

var (
	runGoal        string
	runProfileFile string
	runExperience  string
	runHours       float64
	runConstraints []string
	runOutput      string

	askGoal      string
	askTimeline  string
	askWeek      int
	askProgress  []string
	askChallenge []string
)

// runCmd executes the whole pipeline once
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run preprocess, generate, evaluate and plan for one goal",
	Long: `Runs the four coaching stages in order and prints the aggregate result.

With no flags the demo goal and profile are used. A profile file may be JSON
or YAML; individual flags override its fields.

Example:
  coach run --goal "Learn Spanish to B1 by December" --hours 4 --output yaml`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

// askCmd sends one check-in question to the coach
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the coach a check-in question",
	Long: `Sends a question together with the goal context and recent progress
notes and prints the coach's reply unchanged.

Example:
  coach ask "I missed two runs this week, what now?" --week 3 --progress "ran 2K on Monday"`,
	Args: cobra.MinimumNArgs(1),
	RunE: askCoach,
}

func init() {
	runCmd.Flags().StringVarP(&runGoal, "goal", "g", demoGoal, "goal statement")
	runCmd.Flags().StringVar(&runProfileFile, "profile-file", "", "JSON or YAML file holding the user profile")
	runCmd.Flags().StringVar(&runExperience, "experience", "", "experience level (beginner, intermediate, advanced)")
	runCmd.Flags().Float64Var(&runHours, "hours", 0, "available hours per week")
	runCmd.Flags().StringSliceVar(&runConstraints, "constraint", nil, "constraint, repeatable")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", outputJSON, "output format: json or yaml")

	askCmd.Flags().StringVarP(&askGoal, "goal", "g", demoGoal, "goal the question is about")
	askCmd.Flags().StringVar(&askTimeline, "timeline", "", "goal timeline")
	askCmd.Flags().IntVar(&askWeek, "week", 0, "current week of the plan")
	askCmd.Flags().StringSliceVar(&askProgress, "progress", nil, "recent progress note, repeatable")
	askCmd.Flags().StringSliceVar(&askChallenge, "challenge", nil, "known challenge, repeatable")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	profile, err := buildProfile(cmd)
	if err != nil {
		return err
	}

	observer, shutdown, err := setupObservers(ctx, false)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	p, err := newPipeline(ctx, observer)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, runGoal, profile)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), runOutput, result)
}

func askCoach(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	observer, shutdown, err := setupObservers(ctx, false)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	p, err := newPipeline(ctx, observer)
	if err != nil {
		return err
	}

	goalContext := map[string]interface{}{
		coachingresponse.ContextGoal: askGoal,
	}
	if askTimeline != "" {
		goalContext[coachingresponse.ContextTimeline] = askTimeline
	}
	if askWeek > 0 {
		goalContext[coachingresponse.ContextCurrentWeek] = askWeek
	}
	if len(askChallenge) > 0 {
		goalContext[coachingresponse.ContextChallenges] = askChallenge
	}

	reply, err := p.Coach(ctx, strings.Join(args, " "), goalContext, askProgress)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
	return err
}

// demoProfile is the profile used when no profile file is given.
func demoProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":               "user_123",
		"experience_level": "beginner",
		"available_hours":  5.0,
		"constraints":      []interface{}{"full-time job", "family responsibilities"},
		"previous_goals":   []interface{}{},
	}
}

// buildProfile loads the profile file, or the demo profile, and applies
// the flags that were set explicitly.
func buildProfile(cmd *cobra.Command) (map[string]interface{}, error) {
	profile := demoProfile()
	if runProfileFile != "" {
		loaded, err := loadProfile(runProfileFile)
		if err != nil {
			return nil, err
		}
		profile = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("experience") {
		profile["experience_level"] = runExperience
	}
	if flags.Changed("hours") {
		profile["available_hours"] = runHours
	}
	if flags.Changed("constraint") {
		constraints := make([]interface{}, len(runConstraints))
		for i, c := range runConstraints {
			constraints[i] = c
		}
		profile["constraints"] = constraints
	}
	return profile, nil
}

// loadProfile reads a profile document. JSON is valid YAML, so one decoder
// covers both.
func loadProfile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	profile := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}
