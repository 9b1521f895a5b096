package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is one periodically executed panel refresh.
type Task struct {
	// Name identifies the task; it must be unique within a scheduler.
	Name string

	// Interval is the custom refresh interval for this task.
	// If 0, the scheduler's global interval is used.
	Interval time.Duration

	// Refresh performs one fetch-and-render cycle.
	Refresh func(ctx context.Context) error
}

// Result holds the outcome of running a single [Task] once.
type Result struct {
	// TaskName is the name of the task that ran.
	TaskName string

	// Duration is the wall time the refresh took.
	Duration time.Duration

	// FinishedAt is when the refresh returned.
	FinishedAt time.Time

	// Error is the error returned by the refresh, or a recovered panic.
	Error error
}

// Scheduler runs refresh tasks periodically on a bounded worker pool.
//
// All tasks run immediately on start. After that the scheduler ticks at the
// GCD of all task intervals and runs only the tasks that are due. Results
// are emitted on a channel that the caller must drain.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	tasks          []Task
	interval       time.Duration // global default interval
	maxConcurrency int
	results        chan Result
	logger         *slog.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once

	lastRunAt    map[string]time.Time
	baseInterval time.Duration
}

// NewScheduler creates a new [Scheduler].
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop]. Results are available via [Scheduler.Results].
func NewScheduler(tasks []Task, interval time.Duration, maxConcurrency int, logger *slog.Logger) *Scheduler {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Scheduler{
		tasks:          tasks,
		interval:       interval,
		maxConcurrency: maxConcurrency,
		results:        make(chan Result, len(tasks)),
		logger:         logger,
	}
}

// Results returns the channel of task results. It is closed when the
// scheduler stops.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// calculateBaseInterval returns the GCD of all task intervals, floored at 1s.
func (s *Scheduler) calculateBaseInterval() time.Duration {
	if len(s.tasks) == 0 {
		return s.interval
	}

	result := s.intervalOf(s.tasks[0])
	for _, t := range s.tasks[1:] {
		result = gcdDuration(result, s.intervalOf(t))
	}

	// floor at 1 second to prevent CPU thrashing
	if result < time.Second {
		result = time.Second
	}

	return result
}

func (s *Scheduler) intervalOf(t Task) time.Duration {
	if t.Interval > 0 {
		return t.Interval
	}
	return s.interval
}

// gcdDuration calculates the greatest common divisor of two durations.
func gcdDuration(a, b time.Duration) time.Duration {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Start begins the refresh loop in a background goroutine.
//
// Start is non-blocking and idempotent. If Stop was called before Start,
// Start is a no-op. A nil ctx is treated as context.Background().
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.lastRunAt = make(map[string]time.Time, len(s.tasks))
	s.baseInterval = s.calculateBaseInterval()

	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	runCtx := s.ctx // capture under lock to avoid race
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.closeOnce.Do(func() { close(s.results) })

		s.runDueTasks(runCtx, true)

		ticker := time.NewTicker(s.baseInterval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.runDueTasks(runCtx, false)
			}
		}
	}()
}

// Stop cancels the scheduler and blocks until the loop and all in-flight
// refreshes have returned and the results channel is closed.
//
// Stop is idempotent; calling it before Start is a safe no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	// ensure channel is closed even if Start() was never called
	s.closeOnce.Do(func() { close(s.results) })
}

// runDueTasks runs the tasks whose interval has elapsed. If immediate is
// true every task runs.
//
// lastRunAt is updated when a refresh STARTS, so a slow task's effective
// interval is its configured interval plus its refresh time. A task is never
// run concurrently with itself because a cycle waits for all its workers.
func (s *Scheduler) runDueTasks(ctx context.Context, immediate bool) {
	now := time.Now()
	due := make([]Task, 0, len(s.tasks))

	s.mu.Lock()
	for _, t := range s.tasks {
		if immediate {
			due = append(due, t)
			s.lastRunAt[t.Name] = now
			continue
		}

		last, exists := s.lastRunAt[t.Name]
		if !exists || now.Sub(last) >= s.intervalOf(t) {
			due = append(due, t)
			s.lastRunAt[t.Name] = now
		}
	}
	s.mu.Unlock()

	if len(due) == 0 {
		return
	}

	s.runTasks(ctx, due)
}

// runTasks runs a batch of tasks concurrently, respecting maxConcurrency.
func (s *Scheduler) runTasks(ctx context.Context, tasks []Task) {
	jobs := make(chan Task, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < s.maxConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				result := s.runTask(ctx, t)
				select {
				case s.results <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for _, t := range tasks {
		select {
		case jobs <- t:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)

	wg.Wait()
}

// runTask runs a single task and returns its result.
func (s *Scheduler) runTask(ctx context.Context, t Task) Result {
	start := time.Now()
	err := s.safeRefresh(ctx, t)
	return Result{
		TaskName:   t.Name,
		Duration:   time.Since(start),
		FinishedAt: time.Now(),
		Error:      err,
	}
}

// safeRefresh calls the task's refresh with panic recovery.
// A panic is logged with its stack under a correlation ID and returned as
// an error carrying that ID.
func (s *Scheduler) safeRefresh(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			s.logger.Error("refresh panic",
				"correlation_id", correlationID,
				"panel", t.Name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			err = fmt.Errorf("refresh panic (correlation_id: %s)", correlationID)
		}
	}()
	if t.Refresh == nil {
		return fmt.Errorf("task %q has no refresh function", t.Name)
	}
	return t.Refresh(ctx)
}
