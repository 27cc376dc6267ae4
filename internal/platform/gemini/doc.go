// Package gemini provides a generation.Backend that uses Google's Gemini API.
//
// This package is an infrastructure adapter: it translates a generation.Request
// into a GenerateContent call through the google.golang.org/genai client and
// classifies the API's failures into the generation error taxonomy
// (transient, blocked, invalid). Retries are left to the generation package.
package gemini
