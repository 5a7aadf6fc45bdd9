package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/qaunion/portal/database"
	"github.com/qaunion/portal/model"
	"github.com/robfig/cron/v3"
)

// JobLogKey is where the most recent job runs are kept
const JobLogKey = "cron_job_log"

// maxJobLogs bounds the stored run history
const maxJobLogs = 50

// LookupRefresher reloads cached reference data
type LookupRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Snapshotter backs up a stored collection
type Snapshotter interface {
	Snapshot(ctx context.Context) (bool, error)
}

// Schedules are six-field cron specs (with seconds)
type Schedules struct {
	LookupRefresh string
	Snapshot      string
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	kv        database.KeyValue
	lookups   LookupRefresher
	snapshots Snapshotter
	schedules Schedules
	now       func() time.Time

	mu sync.Mutex
}

// NewCronManager creates a new cron manager
func NewCronManager(kv database.KeyValue, lookups LookupRefresher, snapshots Snapshotter, schedules Schedules) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		kv:        kv,
		lookups:   lookups,
		snapshots: snapshots,
		schedules: schedules,
		now:       time.Now,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	// Register all jobs
	if err := m.registerJobs(); err != nil {
		return err
	}

	// Start the cron scheduler
	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Refresh the public lookup cache used by signup
	if m.lookups != nil {
		if _, err := m.cron.AddFunc(m.schedules.LookupRefresh, m.RefreshLookups); err != nil {
			return err
		}
	}

	// 2. Daily backup of the universities collection
	if m.snapshots != nil {
		if _, err := m.cron.AddFunc(m.schedules.Snapshot, m.SnapshotUniversities); err != nil {
			return err
		}
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// RefreshLookups reloads user types and universities from the backend
func (m *CronManager) RefreshLookups() {
	const jobName = "refresh_lookups"
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	run := m.logJobStart(jobName)
	n, err := m.lookups.Refresh(ctx)
	if err != nil {
		m.logJobError(run, err)
		return
	}
	m.logJobComplete(run, fmt.Sprintf("Cached %d lookup records", n))
}

// SnapshotUniversities copies the stored universities to their backup key
func (m *CronManager) SnapshotUniversities() {
	const jobName = "snapshot_universities"
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	run := m.logJobStart(jobName)
	ok, err := m.snapshots.Snapshot(ctx)
	if err != nil {
		m.logJobError(run, err)
		return
	}
	if !ok {
		m.logJobComplete(run, "Nothing to snapshot")
		return
	}
	m.logJobComplete(run, "Snapshot written")
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	started := m.now()
	log.Printf("[CRON] Starting job: %s at %s", jobName, started.Format(time.RFC3339))
	return &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronStatusRunning,
		StartedAt: started,
	}
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(run *model.CronJobLog, message string) {
	log.Printf("[CRON] Completed job: %s - %s", run.JobName, message)
	run.Status = model.CronStatusCompleted
	run.Message = message
	m.finish(run)
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(run *model.CronJobLog, err error) {
	log.Printf("[CRON] Error in job: %s - %v", run.JobName, err)
	run.Status = model.CronStatusFailed
	run.ErrorMsg = err.Error()
	m.finish(run)
}

func (m *CronManager) finish(run *model.CronJobLog) {
	done := m.now()
	run.CompletedAt = &done
	run.Duration = done.Sub(run.StartedAt).Milliseconds()

	if m.kv == nil {
		return
	}
	if err := m.appendLog(context.Background(), *run); err != nil {
		log.Printf("[CRON] Failed to store job log for %s: %v", run.JobName, err)
	}
}

func (m *CronManager) appendLog(ctx context.Context, run model.CronJobLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	logs, err := m.jobLogs(ctx)
	if err != nil {
		return err
	}
	logs = append(logs, run)
	if len(logs) > maxJobLogs {
		logs = logs[len(logs)-maxJobLogs:]
	}
	b, err := json.Marshal(logs)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, JobLogKey, string(b))
}

// JobLogs returns the stored run history, oldest first
func (m *CronManager) JobLogs(ctx context.Context) ([]model.CronJobLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobLogs(ctx)
}

func (m *CronManager) jobLogs(ctx context.Context) ([]model.CronJobLog, error) {
	logs := []model.CronJobLog{}
	if m.kv == nil {
		return logs, nil
	}
	raw, ok, err := m.kv.Get(ctx, JobLogKey)
	if err != nil || !ok {
		return logs, err
	}
	if err := json.Unmarshal([]byte(raw), &logs); err != nil {
		log.Printf("[CRON] Ignoring unreadable job log: %v", err)
		return []model.CronJobLog{}, nil
	}
	return logs, nil
}
