// Package generation fetches structured word data from a language model.
//
// It hides provider differences behind the Generator interface: callers name
// a provider (openrouter, gemini or ollama), optionally a credential and a
// model, and receive a validated domain.WordRecord. Concrete transports live
// in internal/platform and plug in as Backends.
package generation
