// Package openai is a minimal client for OpenAI-compatible chat completion
// endpoints. It serves both OpenRouter and the /v1 surface of a local
// Ollama server as a generation.Backend.
package openai
