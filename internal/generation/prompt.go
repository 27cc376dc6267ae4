package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

//go:embed prompt.tmpl
var defaultPromptTemplate string

// SystemPrompt is sent as the system message to chat-style backends.
const SystemPrompt = "You are a helpful educational assistant. Output only valid JSON."

// promptData represents the data passed to the prompt template
type promptData struct {
	Word string
}

// Prompt renders the user prompt for a word.
type Prompt struct {
	tmpl *template.Template
}

// NewPrompt parses a prompt template. The template receives {{.Word}}.
func NewPrompt(text string) (*Prompt, error) {
	tmpl, err := template.New("word").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

// LoadPrompt reads the template at path, or uses the built-in template when
// path is empty.
func LoadPrompt(path string) (*Prompt, error) {
	if path == "" {
		return NewPrompt(defaultPromptTemplate)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template: %v", ErrInvalidConfig, err)
	}
	return NewPrompt(string(content))
}

// Render produces the prompt for word.
func (p *Prompt) Render(word string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrEmptyWord
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, promptData{Word: word}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
