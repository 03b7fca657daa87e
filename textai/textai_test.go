package textai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestPrompt(t *testing.T) {
	for _, task := range []Task{TaskEnhance, TaskKeywords, TaskAnalyze, TaskClassify} {
		t.Run(string(task), func(t *testing.T) {
			p, err := Prompt(task, "Totai: 12.50")
			require.NoError(t, err)
			assert.Contains(t, p, `"Totai: 12.50"`)
		})
	}

	p, err := Prompt(TaskClassify, "x")
	require.NoError(t, err)
	assert.Contains(t, p, "categories: Receipt, Invoice, Handwritten Note, Letter, Article, or Other. Return")

	_, err = Prompt("summarize", "x")
	assert.ErrorIs(t, err, ErrInvalidTask)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"array in fence", "```json\n[\"a\", \"b\"]\n```", `["a", "b"]`},
		{"object with prose", `Sure! {"category": "Receipt", "explanation": "totals"} Hope this helps`, `{"category": "Receipt", "explanation": "totals"}`},
		{"array wins over object", `{"x": ["a"]}`, `["a"]`},
		{"plain text", "no json here", "no json here"},
		{"unbalanced", "] then [", "] then ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.reply))
		})
	}
}

func TestProcessorRun(t *testing.T) {
	gen := &fakeGenerator{reply: "Keywords: [\"invoice\", \"total\"]"}
	p := NewProcessor(gen)

	got, err := p.Run(context.Background(), TaskKeywords, "Invoice total 40")
	require.NoError(t, err)
	assert.Equal(t, `["invoice", "total"]`, got)
	assert.Contains(t, gen.prompt, "Invoice total 40")

	gen.reply = "Corrected [sic] text"
	got, err = p.Run(context.Background(), TaskEnhance, "Corected text")
	require.NoError(t, err)
	assert.Equal(t, "Corrected [sic] text", got, "free-form tasks are not trimmed")
}

func TestProcessorRunErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	p := NewProcessor(gen)

	_, err := p.Run(context.Background(), TaskAnalyze, "x")
	require.ErrorContains(t, err, "quota exceeded")

	unused := &fakeGenerator{}
	_, err = NewProcessor(unused).Run(context.Background(), "translate", "x")
	require.ErrorIs(t, err, ErrInvalidTask)
	assert.Empty(t, unused.prompt, "invalid tasks never reach the model")
}
