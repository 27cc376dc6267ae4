// Package task runs word batches in the background.
//
// A BatchTask drives one job: it reads the uploaded word list, records the
// job's total, and runs the ItemProcessor over each word in order, reporting
// every outcome to the job manager. Tasks are submitted to a TaskRunner,
// which holds them in a bounded TaskQueue and executes them on a fixed pool
// of worker goroutines. Submission never blocks; a full queue is reported as
// ErrQueueFull.
package task
