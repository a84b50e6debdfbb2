package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/notify"
)

// Trigger identifies what started an ingestion run. Its value is the job type.
type Trigger string

const (
	TriggerScheduled Trigger = domain.JobTypeScheduledFetch
	TriggerManual    Trigger = domain.JobTypeManualFetch
)

// ContentFetcher runs the two halves of an ingestion run.
type ContentFetcher interface {
	FetchLatestNews(ctx context.Context) int
	FetchLatestTenders(ctx context.Context) int
}

// JobLogStore records one audit row per run.
type JobLogStore interface {
	Start(ctx context.Context, jobType string, startedAt time.Time) (*domain.JobLog, error)
	Finish(ctx context.Context, id uint, status domain.JobStatus, itemsProcessed int, errMsg string, completedAt time.Time) error
}

// RunResult holds the per-kind insert counts of a run.
type RunResult struct {
	NewsCount   int `json:"newsCount"`
	TenderCount int `json:"tenderCount"`
}

// Total returns NewsCount + TenderCount.
func (r RunResult) Total() int {
	return r.NewsCount + r.TenderCount
}

// IngestRunner is the single ingestion routine behind both the timer and
// the admin trigger.
type IngestRunner struct {
	fetcher  ContentFetcher
	jobs     JobLogStore
	notifier notify.Notifier
	now      func() time.Time
}

// NewIngestRunner creates a runner. A nil notifier logs notifications.
func NewIngestRunner(fetcher ContentFetcher, jobs JobLogStore, notifier notify.Notifier, now func() time.Time) *IngestRunner {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &IngestRunner{fetcher: fetcher, jobs: jobs, notifier: notifier, now: now}
}

// Run executes one ingestion run and records it in the job log. The error
// is non-nil only when the run itself failed (panic or cancelled context).
func (r *IngestRunner) Run(ctx context.Context, trigger Trigger) (result RunResult, err error) {
	ctx = logger.SetRunID(ctx, uuid.New().String())
	ctx = logger.SetComponent(ctx, "ingest")
	start := time.Now()

	job, jobErr := r.jobs.Start(ctx, string(trigger), r.now())
	if jobErr != nil {
		logger.CtxWarn(ctx, "Failed to create job log, continuing without it: %v", jobErr)
		job = nil
	} else {
		ctx = logger.WithField(ctx, logger.FieldJobID, job.ID)
	}
	logger.CtxInfo(ctx, "Ingestion run started (%s)", trigger)

	defer func() {
		if p := recover(); p != nil {
			logger.CtxError(ctx, "Ingestion run panicked: %v\n%s", p, debug.Stack())
			err = fmt.Errorf("ingestion run panicked: %v", p)
		}
		if err != nil {
			r.fail(ctx, job, trigger, err)
			return
		}
		r.succeed(ctx, job, trigger, result)
		logger.With(logger.Fields{"news": result.NewsCount, "tenders": result.TenderCount}).
			WithCount(result.Total()).Since(start).
			Info(ctx, "Ingestion run finished")
	}()

	result, err = r.fetchBoth(ctx)
	return result, err
}

func (r *IngestRunner) fetchBoth(ctx context.Context) (RunResult, error) {
	var (
		result RunResult
		wg     sync.WaitGroup
		mu     sync.Mutex
		panics []interface{}
	)
	guard := func(fn func()) {
		defer wg.Done()
		defer func() {
			if p := recover(); p != nil {
				mu.Lock()
				panics = append(panics, p)
				mu.Unlock()
			}
		}()
		fn()
	}

	wg.Add(2)
	go guard(func() { result.NewsCount = r.fetcher.FetchLatestNews(ctx) })
	go guard(func() { result.TenderCount = r.fetcher.FetchLatestTenders(ctx) })
	wg.Wait()

	if len(panics) > 0 {
		return result, fmt.Errorf("ingestion panicked: %v", panics[0])
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("ingestion interrupted: %w", err)
	}
	return result, nil
}

func (r *IngestRunner) succeed(ctx context.Context, job *domain.JobLog, trigger Trigger, result RunResult) {
	if job != nil {
		if err := r.jobs.Finish(ctx, job.ID, domain.JobStatusSuccess, result.Total(), "", r.now()); err != nil {
			logger.CtxWarn(ctx, "Failed to update job log: %v", err)
		}
	}
	if result.Total() == 0 {
		return
	}

	title, content := successMessage(trigger, result)
	if err := r.notifier.NotifyOwner(ctx, title, content); err != nil {
		logger.CtxWarn(ctx, "Failed to notify owner: %v", err)
	}
}

func (r *IngestRunner) fail(ctx context.Context, job *domain.JobLog, trigger Trigger, cause error) {
	logger.CtxError(ctx, "Ingestion run failed: %v", cause)

	// job log and notification use a fresh context: ctx may be the reason we failed
	bg := logger.FromContext(ctx).WithContext(context.Background())
	if job != nil {
		if err := r.jobs.Finish(bg, job.ID, domain.JobStatusFailed, 0, cause.Error(), r.now()); err != nil {
			logger.CtxWarn(ctx, "Failed to update job log: %v", err)
		}
	}
	title, content := failureMessage(trigger, cause)
	if err := r.notifier.NotifyOwner(bg, title, content); err != nil {
		logger.CtxWarn(ctx, "Failed to send failure notification: %v", err)
	}
}

func successMessage(trigger Trigger, result RunResult) (title, content string) {
	if trigger == TriggerManual {
		return "数据更新完成",
			fmt.Sprintf("手动触发数据更新完成：新增新闻 %d 条，招投标信息 %d 条", result.NewsCount, result.TenderCount)
	}
	return "每日数据更新完成",
		fmt.Sprintf("今日自动更新完成：新增行业资讯 %d 条，招投标信息 %d 条。", result.NewsCount, result.TenderCount)
}

func failureMessage(trigger Trigger, cause error) (title, content string) {
	if trigger == TriggerManual {
		return "数据更新失败", fmt.Sprintf("手动触发数据更新失败：%s", cause.Error())
	}
	return "每日数据更新失败", fmt.Sprintf("自动更新任务失败：%s", cause.Error())
}
