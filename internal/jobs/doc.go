// Package jobs owns the process-wide registry of batch jobs.
//
// Manager is the only component allowed to mutate a job. Completion is
// derived: a job completes once the number of recorded outcomes reaches a
// non-zero expected total, so callers never need to know which item is
// the last one. Mutations against unknown job ids are silently ignored,
// because the background batch driver has nobody to report them to.
package jobs
