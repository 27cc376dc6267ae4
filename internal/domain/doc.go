// Package domain contains the core business entities of the application:
// batch jobs, their per-word results, and the structured word records
// produced by the language model. It has no dependencies on infrastructure
// or delivery mechanisms.
package domain
