package scheduler

import (
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

type Task struct {
	Name    string
	Execute func() error
}

type Scheduler struct {
	taskQueue    chan Task
	periodicLock sync.Mutex
	stopChan     chan struct{}
	wg           sync.WaitGroup
	log          commonlog.Logger
}

// NewScheduler creates a new Scheduler with the specified queue size
func NewScheduler(queueSize int) *Scheduler {
	return &Scheduler{
		taskQueue: make(chan Task, queueSize),
		stopChan:  make(chan struct{}),
		log:       commonlog.GetLogger("coedit.scheduler"),
	}
}

// Run starts the scheduler loop
func (s *Scheduler) Run() {
	go func() {
		for {
			select {
			case task, ok := <-s.taskQueue:
				if !ok {
					// Channel closed, exit the loop
					return
				}
				s.runTask(task)
			case <-s.stopChan:
				// Stop signal received, drain the taskQueue and exit
				for task := range s.taskQueue {
					s.log.Debugf("draining task: %s", task.Name)
					s.runTask(task)
				}
				return
			}
		}
	}()
}

func (s *Scheduler) runTask(task Task) {
	defer s.wg.Done()
	if err := task.Execute(); err != nil {
		s.log.Errorf("%s task failed: %v", task.Name, err)
	}
}

// SchedulePeriodic runs a low-priority task on a fixed interval. It
// blocks until Stop is called, so run it from its own goroutine.
func (s *Scheduler) SchedulePeriodic(interval time.Duration, task Task) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Never let a periodic task displace queued work
			s.periodicLock.Lock()
			s.wg.Add(1)
			select {
			case s.taskQueue <- task:
			default:
				s.wg.Done()
				s.log.Infof("skipped periodic %s task due to full queue", task.Name)
			}
			s.periodicLock.Unlock()
		case <-s.stopChan:
			return
		}
	}
}

// ScheduleTask queues a task to run as soon as possible
func (s *Scheduler) ScheduleTask(task Task) {
	s.wg.Add(1)
	s.taskQueue <- task
}

// Stop waits for all queued tasks to complete and stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)  // Signal the scheduler to stop
	close(s.taskQueue) // Close the task queue to prevent further submissions
	s.wg.Wait()        // Wait for all tasks to complete
}
