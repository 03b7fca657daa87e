package server

import (
	"context"
	"fmt"
	"log/slog"

	"ocrprep/ocr"
	"ocrprep/textai"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Addr        string   `help:"Listen address" default:":8080" env:"OCRPREP_ADDR"`
	Origins     []string `help:"Allowed CORS origins" default:"*" env:"OCRPREP_ORIGINS"`
	MaxUpload   int64    `help:"Maximum upload size in bytes" default:"20971520"`
	MaxPixels   int      `help:"Maximum decoded image size in pixels, 0 for the built-in limit"`
	OCR         bool     `name:"ocr" help:"Serve /recognize with the Tesseract engine" group:"ocr"`
	Lang        []string `help:"Default OCR languages" default:"eng" group:"ocr"`
	GeminiKey   string   `help:"Gemini API key, enables /text" env:"GEMINI_API_KEY" group:"ai"`
	GeminiModel string   `help:"Gemini model used for text tasks" default:"gemini-2.5-flash" env:"GEMINI_MODEL" group:"ai"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.MaxUpload <= 0 {
		return fmt.Errorf("invalid upload limit: %d", c.MaxUpload)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("invalid pixel limit: %d", c.MaxPixels)
	}
	return nil
}

func (c *CLICmd) Run(ctx context.Context) error {
	h := &Handler{
		Languages: c.Lang,
		MaxUpload: c.MaxUpload,
		MaxPixels: c.MaxPixels,
		Logger:    slog.Default(),
	}

	if c.OCR {
		engine, err := ocr.NewTesseract()
		if err != nil {
			return err
		}
		h.Engine = engine
	}

	if c.GeminiKey != "" {
		gen, err := textai.NewGemini(ctx, c.GeminiKey, c.GeminiModel)
		if err != nil {
			return err
		}
		h.Processor = textai.NewProcessor(gen)
	} else {
		slog.Info("no Gemini API key, text tasks disabled")
	}

	return ListenAndServe(ctx, c.Addr, h.Router(c.Origins))
}
