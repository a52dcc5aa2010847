// Package scheduler runs a Task once a delay has passed. Until then, the Job can be canceled.
package scheduler

import (
	"context"
	"time"
)

// Task is the work performed by a Job.
type Task interface {
	Run(ctx context.Context)
}

// TaskFunc adapts a function to a Task.
type TaskFunc func(ctx context.Context)

func (f TaskFunc) Run(ctx context.Context) {
	f(ctx)
}

// Schedule runs the task after waitTime. The task's context is canceled when the Job is canceled or ctx is done.
func Schedule(ctx context.Context, task Task, waitTime time.Duration) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		cancel: cancel,
		due:    time.Now().Add(waitTime),
		done:   make(chan struct{}),
	}
	go j.run(ctx, task, waitTime)
	return j
}

// A Job is a scheduled Task.
type Job struct {
	cancel context.CancelFunc
	due    time.Time
	done   chan struct{}
}

func (j *Job) run(ctx context.Context, task Task, waitTime time.Duration) {
	defer close(j.done)
	defer j.cancel()
	timer := time.NewTimer(waitTime)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	task.Run(ctx)
}

// Cancel cancels the Job. If the task is already running, its context is canceled.
func (j *Job) Cancel() {
	j.cancel()
}

// Wait blocks until the task has run or the Job has been canceled.
func (j *Job) Wait() {
	<-j.done
}

// Due returns the time the Job fires.
func (j *Job) Due() time.Time {
	return j.due
}
