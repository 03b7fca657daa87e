// Package textai post-processes recognized text with a hosted language
// model: OCR error correction, keyword extraction, analysis and document
// classification.
package textai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTask = errors.New("invalid task")

type Task string

const (
	TaskEnhance  Task = "enhance"
	TaskKeywords Task = "keywords"
	TaskAnalyze  Task = "analyze"
	TaskClassify Task = "classify"
)

// Categories are the document classes a classify task chooses from.
var Categories = []string{"Receipt", "Invoice", "Handwritten Note", "Letter", "Article", "Other"}

// Generator produces a free-form completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Prompt builds the model prompt for task over text.
func Prompt(task Task, text string) (string, error) {
	switch task {
	case TaskEnhance:
		return fmt.Sprintf("Please enhance and correct any OCR errors in the following text while maintaining its original meaning: \"%s\"", text), nil
	case TaskKeywords:
		return fmt.Sprintf(`Extract the main keywords and key phrases from the following text. Format your response as a simple JSON array of strings, like this: ["keyword1", "keyword2"]. Text: "%s"`, text), nil
	case TaskAnalyze:
		return fmt.Sprintf("Analyze the following text and provide key insights, main topics, and a brief summary. Keep it concise: \"%s\"", text), nil
	case TaskClassify:
		return fmt.Sprintf(`Classify the following text into one of these categories: %s. Return a JSON object with exactly this format: {"category": "category_name", "explanation": "your explanation"}. Text: "%s"`,
			categoryList(), text), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTask, task)
}

// categoryList renders Categories as "A, B, or C".
func categoryList() string {
	last := len(Categories) - 1
	return strings.Join(Categories[:last], ", ") + ", or " + Categories[last]
}

// ExtractJSON trims a model reply down to its outermost JSON array, or object
// when there is no array. Replies without a bracket pair are returned as is.
func ExtractJSON(reply string) string {
	start := strings.Index(reply, "[")
	if start == -1 {
		start = strings.Index(reply, "{")
	}
	end := -1
	if i := strings.LastIndex(reply, "]"); i != -1 {
		end = i + 1
	} else if i := strings.LastIndex(reply, "}"); i != -1 {
		end = i + 1
	}

	if start == -1 || end <= start {
		return reply
	}
	return reply[start:end]
}

type Processor struct {
	gen Generator
}

func NewProcessor(gen Generator) *Processor {
	return &Processor{gen: gen}
}

// Run executes task over text and returns the model reply, reduced to its
// JSON payload for keywords and classify.
func (p *Processor) Run(ctx context.Context, task Task, text string) (string, error) {
	prompt, err := Prompt(task, text)
	if err != nil {
		return "", err
	}

	reply, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("could not run %s task: %w", task, err)
	}

	switch task {
	case TaskKeywords, TaskClassify:
		return ExtractJSON(reply), nil
	}
	return reply, nil
}
