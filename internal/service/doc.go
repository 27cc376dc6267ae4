// Package service contains the application use cases of the deck generator.
//
// BatchService is the single entry point for the HTTP layer: it accepts
// uploads and turns them into jobs, answers status and download lookups, and
// builds single-word records for the synchronous endpoint. Background work is
// requested through an events.EventEmitter so the service never depends on
// the task runner directly.
package service
