package main

import (
	"github.com/spf13/cobra"

	"rein-coach/pkg/registry"
)

var (
	registryPath     string
	activitiesOutput string
)

// activitiesCmd lists and checks the activity registry
var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Validate and print the coaching activity registry",
	Long: `Loads the activity registry, checks that every coaching task type is
registered once with zero retries, and prints it.

Example:
  coach activities --registry configs/activity-registry.json --output yaml`,
	Args: cobra.NoArgs,
	RunE: listActivities,
}

func init() {
	activitiesCmd.Flags().StringVar(&registryPath, "registry", "configs/activity-registry.json", "path to the activity registry")
	activitiesCmd.Flags().StringVarP(&activitiesOutput, "output", "o", outputJSON, "output format: json or yaml")
}

func listActivities(cmd *cobra.Command, args []string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return err
	}
	if err := reg.Validate(coachingTaskTypes); err != nil {
		return err
	}
	log.Info("Activity registry is valid", map[string]interface{}{
		"version":    reg.Version,
		"activities": len(reg.Activities),
	})
	return writeResult(cmd.OutOrStdout(), activitiesOutput, reg)
}
