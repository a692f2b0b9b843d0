package main

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/spf13/cobra"

	"rein-coach/internal/common/camunda"
	"rein-coach/internal/common/config"
	"rein-coach/internal/common/llm"
	"rein-coach/internal/server"
	coachingresponse "rein-coach/internal/workers/coaching/coaching-response"
	createexecutionplan "rein-coach/internal/workers/coaching/create-execution-plan"
	evaluateresolution "rein-coach/internal/workers/coaching/evaluate-resolution"
	generateresolution "rein-coach/internal/workers/coaching/generate-resolution"
	preprocessgoal "rein-coach/internal/workers/coaching/preprocess-goal"
)

var workerHealthAddress string

// coachingTaskTypes lists every task type this binary can serve.
var coachingTaskTypes = []string{
	preprocessgoal.TaskType,
	generateresolution.TaskType,
	evaluateresolution.TaskType,
	createexecutionplan.TaskType,
	coachingresponse.TaskType,
}

// workerCmd runs every coaching stage as a Zeebe job worker
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the coaching stages as Zeebe job workers",
	Long: `Connects to the Zeebe gateway at camunda.broker_address and opens one
job worker per enabled task type:
  preprocess-goal, generate-resolution, evaluate-resolution,
  create-execution-plan, generate-coaching-response

Failed jobs are failed with no retries and a "CODE: message" error.
Health, readiness and metrics are served on --health-addr.`,
	Args: cobra.NoArgs,
	RunE: runWorkers,
}

func init() {
	workerCmd.Flags().StringVar(&workerHealthAddress, "health-addr", ":8081", "listen address for /health, /ready and /metrics")
}

func runWorkers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := cfg.RequireBroker(); err != nil {
		return err
	}

	p, err := newPipeline(ctx, nil)
	if err != nil {
		return err
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(ctx, func() error {
		var err error
		zeebe, err = camunda.NewClient(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.Plaintext,
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		return err
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected successfully", map[string]interface{}{
		"gateway": cfg.Camunda.BrokerAddress,
	})

	workers := startCoachingWorkers(zeebe, p.Generator())
	defer func() {
		for _, w := range workers {
			w.Close()
			w.AwaitClose()
		}
		log.Info("All workers stopped", nil)
	}()
	log.Info("All workers started", map[string]interface{}{"count": len(workers)})

	router := server.NewRouter(server.RouterConfig{
		ServiceName:   cfg.Observability.ServiceName,
		Logger:        log,
		HealthHandler: server.NewHealthHandler(zeebe.HealthCheck),
	})
	return runServer(ctx, server.NewServer(workerHealthAddress, router, log))
}

// startCoachingWorkers opens a job worker for each enabled task type. Each
// handler's call deadline is the worker's configured job timeout.
func startCoachingWorkers(zeebe *camunda.Client, gen llm.TextGenerator) []worker.JobWorker {
	client := zeebe.GetClient()
	var workers []worker.JobWorker

	start := func(taskType string, handler worker.JobHandler) {
		if w := camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	{
		c := preprocessgoal.LoadConfig()
		c.Timeout = timeout(preprocessgoal.TaskType)
		start(preprocessgoal.TaskType, preprocessgoal.NewHandler(c, gen, log).Handle)
	}
	{
		c := generateresolution.LoadConfig()
		c.Timeout = timeout(generateresolution.TaskType)
		c.DefaultStyle = cfg.Pipeline.DefaultStyle
		start(generateresolution.TaskType, generateresolution.NewHandler(c, gen, log).Handle)
	}
	{
		c := evaluateresolution.LoadConfig()
		c.Timeout = timeout(evaluateresolution.TaskType)
		start(evaluateresolution.TaskType, evaluateresolution.NewHandler(c, gen, log).Handle)
	}
	{
		c := createexecutionplan.LoadConfig()
		c.Timeout = timeout(createexecutionplan.TaskType)
		c.DefaultAvailableHours = cfg.Pipeline.DefaultAvailableHours
		start(createexecutionplan.TaskType, createexecutionplan.NewHandler(c, gen, log).Handle)
	}
	{
		c := coachingresponse.LoadConfig()
		c.Timeout = timeout(coachingresponse.TaskType)
		start(coachingresponse.TaskType, coachingresponse.NewHandler(c, gen, log).Handle)
	}

	return workers
}
