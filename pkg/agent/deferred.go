package agent

import "sync"

// DeferredJob is a completed exchange waiting for fact extraction.
// Autonomous utterances carry an empty UserText.
type DeferredJob struct {
	UserText      string
	AssistantText string
}

// DeferredQueue is an unbounded FIFO of DeferredJobs.
type DeferredQueue struct {
	mu   sync.Mutex
	jobs []DeferredJob
}

func (q *DeferredQueue) Push(j DeferredJob) {
	q.mu.Lock()
	q.jobs = append(q.jobs, j)
	q.mu.Unlock()
}

// Pop removes the oldest job.
func (q *DeferredQueue) Pop() (DeferredJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return DeferredJob{}, false
	}
	j := q.jobs[0]
	q.jobs[0] = DeferredJob{}
	q.jobs = q.jobs[1:]
	return j, true
}

func (q *DeferredQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
