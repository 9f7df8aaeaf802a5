package ttl

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"memocache/internal/logs"
)

// cronScheduler runs fn as a cron job. Overlapping runs are skipped and a
// panicking run is recovered by the job chain.
type cronScheduler struct {
	spec     string
	schedule cron.Schedule
	logger   cron.Logger
}

// Cron returns a Scheduler that calls fn on a cron schedule, either a
// standard five-field expression or a descriptor such as "@every 10s".
func Cron(spec string, logger *logs.Logger) (Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("ttl: parse cron spec %q: %w", spec, err)
	}
	return &cronScheduler{
		spec:     spec,
		schedule: schedule,
		logger:   cronLogger{l: logger},
	}, nil
}

func (s *cronScheduler) Run(ctx context.Context, fn func()) {
	c := cron.New(
		cron.WithLogger(s.logger),
		cron.WithChain(cron.Recover(s.logger), cron.SkipIfStillRunning(s.logger)),
	)
	c.Schedule(notBefore(s.schedule, time.Now()), cron.FuncJob(fn))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
}

func (s *cronScheduler) String() string {
	return "cron " + s.spec
}

// firstRunSchedule holds back activations that would land less than one
// period after start. cron rounds "@every" down to the whole second and
// fires standard expressions on wall-clock boundaries, so either can come
// due almost immediately.
type firstRunSchedule struct {
	inner    cron.Schedule
	earliest time.Time
}

// notBefore wraps schedule so that its first activation is at least one
// period after start. For "@every" the period is its delay; for any other
// schedule it is the gap between its first two activations.
func notBefore(schedule cron.Schedule, start time.Time) cron.Schedule {
	return firstRunSchedule{
		inner:    schedule,
		earliest: start.Add(period(schedule, start)),
	}
}

func period(schedule cron.Schedule, start time.Time) time.Duration {
	if every, ok := schedule.(cron.ConstantDelaySchedule); ok {
		return every.Delay
	}
	first := schedule.Next(start)
	if first.IsZero() {
		return 0
	}
	return schedule.Next(first).Sub(first)
}

func (s firstRunSchedule) Next(t time.Time) time.Time {
	next := s.inner.Next(t)
	if next.IsZero() || !next.Before(s.earliest) {
		return next
	}
	// Fixed delays fire exactly one period after start; calendar schedules
	// stay on their boundaries and move to the first one past it.
	if _, ok := s.inner.(cron.ConstantDelaySchedule); ok {
		return s.earliest
	}
	for !next.IsZero() && next.Before(s.earliest) {
		next = s.inner.Next(next)
	}
	return next
}

// cronLogger adapts logs.Logger to cron.Logger.
type cronLogger struct {
	l *logs.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
