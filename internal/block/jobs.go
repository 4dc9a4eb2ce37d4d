package block

// Job is one deferred pass-2 action enqueued by pass 1 (spec.md §3
// "deferred-job queue", §9 "Deferred queue"). A Job is a closure
// capturing exactly the (by-id) references it needs — never a live
// pointer into the trail stack (spec.md §9 "Trail = immutable snapshot at
// job-enqueue time") — so jobs can be drained strictly in enqueue order
// independently of how pass 1's recursion unwound.
type Job func() error

// Queue is the ordered backlog of deferred jobs. Because pass 1 enqueues
// a node's job on exit from that node (after its children have already
// enqueued theirs), the queue naturally orders leaves before parents
// (spec.md invariant 6: "Pass 2 never visits the tree except via deferred
// jobs enqueued by pass 1; consequently jobs execute in post-order").
type Queue struct {
	jobs []Job
}

// Enqueue appends a job to the end of the queue.
func (q *Queue) Enqueue(j Job) { q.jobs = append(q.jobs, j) }

// Drain runs every job strictly in enqueue order, stopping at the first
// error (spec.md §4.10: "Errors thrown by a job are re-thrown with
// location info derived from the job's AST node" — wrapping with location
// is the caller's responsibility, since only the caller has the node a
// given job closed over available for the error message).
func (q *Queue) Drain() error {
	for _, j := range q.jobs {
		if err := j(); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of jobs currently queued.
func (q *Queue) Len() int { return len(q.jobs) }
