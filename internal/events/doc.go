// Package events decouples batch submission from batch execution.
//
// The batch service emits a BatchRequested event when an upload is accepted;
// a handler registered at startup turns it into a background task. Neither
// side imports the other.
//
// The primary components are:
// - Event: a typed request with a JSON payload
// - BatchRequest: the payload of a BatchRequested event
// - EventHandler / EventEmitter: the two ends of the dispatch
package events
