// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"rein-coach/internal/common/config"
	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/common/logger"
	"rein-coach/internal/common/metrics"
	"rein-coach/internal/common/validation"
)

// StartWorker opens a job worker for taskType unless it is disabled in config.
// The returned worker is nil when disabled.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(func(c worker.JobClient, job entities.Job) {
			done := metrics.TrackJob(taskType)
			defer done()
			handler(c, job)
		}).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// DecodeVariables parses the job variables into out after checking them
// against schema. Both failures are INVALID_INPUT.
func DecodeVariables(job entities.Job, schema validation.Schema, out interface{}) error {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &raw); err != nil {
		return apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	if err := validation.Check(schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(job.Variables), out); err != nil {
		return apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// CompleteJob sends the output as the job's variables.
func CompleteJob(client worker.JobClient, job entities.Job, taskType string, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := cmd.Send(ctx); err != nil {
		log.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.RecordCompleted(taskType)
}

// FailJob fails the job with no retries left. Stage failures are not retried.
func FailJob(client worker.JobClient, job entities.Job, taskType string, err error, log logger.Logger) {
	code := apperrors.CodeOf(err)
	log.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": code,
		"category":  apperrors.GetErrorCategory(code),
	})
	metrics.RecordFailed(taskType, string(code))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, sendErr := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(0).
		ErrorMessage(FailureMessage(err)).
		Send(ctx); sendErr != nil {
		log.Error("Failed to send fail job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  sendErr.Error(),
		})
	}
}

// FailureMessage renders err as "CODE: message" for the incident shown in Operate.
func FailureMessage(err error) string {
	var stdErr *apperrors.StandardError
	if !stderrors.As(err, &stdErr) {
		return fmt.Sprintf("%s: %s", apperrors.ErrCodeInternal, err.Error())
	}
	msg := stdErr.Message
	if stdErr.Details != "" {
		msg += ": " + stdErr.Details
	}
	if stdErr.Stage != "" {
		msg = stdErr.Stage + ": " + msg
	}
	return fmt.Sprintf("%s: %s", stdErr.Code, msg)
}
