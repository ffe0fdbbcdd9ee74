// File: cron/worker.go
package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"slotwise/config"
	"slotwise/models"
	"slotwise/services/generation"
	"slotwise/services/reconciler"

	"github.com/hibiken/asynq"
	cronlib "github.com/robfig/cron/v3"
)

const (
	TypeGenerateSlots   = "slots:generate"
	TypeRegenerateSlots = "slots:regenerate"
)

var queueClient *asynq.Client

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// GetQueueClient returns the shared asynq client for enqueueing
// generation tasks.
func GetQueueClient() *asynq.Client {
	if queueClient == nil {
		queueClient = asynq.NewClient(redisOpts())
	}
	return queueClient
}

// NewGenerationTask wraps a generation request as an asynq task.
func NewGenerationTask(taskType string, req models.GenerateSlotsRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}
	return asynq.NewTask(taskType, payload), nil
}

// InitGenerationWorker runs the async worker for slot generation tasks
// in the background.
func InitGenerationWorker(genSvc generation.GenerationService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeGenerateSlots, handleGenerationTask(genSvc, false))
	mux.HandleFunc(TypeRegenerateSlots, handleGenerationTask(genSvc, true))

	// Start async worker with retry logic
	go func() {
		log.Println("[GenerationWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[GenerationWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[GenerationWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleGenerationTask(genSvc generation.GenerationService, regenerate bool) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var req models.GenerateSlotsRequest
		if err := json.Unmarshal(task.Payload(), &req); err != nil {
			log.Printf("[GenerationWorker] Invalid payload: %v", err)
			return err
		}

		startDate, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			log.Printf("[GenerationWorker] Invalid start date %q: %v", req.StartDate, err)
			return err
		}
		endDate, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			log.Printf("[GenerationWorker] Invalid end date %q: %v", req.EndDate, err)
			return err
		}

		var generated int
		if regenerate {
			generated, err = genSvc.Regenerate(ctx, req.ResourceType, req.ResourceID, startDate, endDate, req.TenantID)
		} else {
			generated, err = genSvc.Generate(ctx, req.ResourceType, req.ResourceID, startDate, endDate, req.TenantID)
		}
		if err != nil {
			log.Printf("[GenerationWorker] Generation failed for resource %d: %v", req.ResourceID, err)
			return err
		}

		log.Printf("[GenerationWorker] Generated %d slots for resource %s/%d", generated, req.ResourceType, req.ResourceID)
		return nil
	}
}

// StartReconcilerCron schedules the occupancy summary sweep on a fixed
// interval. Returns the started scheduler so main can stop it on
// shutdown.
func StartReconcilerCron(rec *reconciler.Reconciler) *cronlib.Cron {
	c := cronlib.New()
	spec := fmt.Sprintf("@every %dm", config.AppConfig.ReconcileIntervalMin)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		rec.Sweep(ctx)
	})
	if err != nil {
		log.Fatalf("[ReconcilerCron] Failed to schedule sweep: %v", err)
	}
	c.Start()
	log.Printf("[ReconcilerCron] Sweep scheduled %s", spec)
	return c
}
