package enhance

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"ocrprep/convert"
	"ocrprep/ocr"
	"ocrprep/parallel"
	"ocrprep/raster"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan          string   `help:"Source folder to scan" default:"."`
	Dest          string   `help:"Destination folder for enhanced pictures. Relative to scan dir if not absolute." default:"enhanced"`
	Preset        string   `help:"YAML file with enhancement options. Flags given on the command line take precedence." type:"existingfile"`
	Grayscale     bool     `help:"Convert to gray using the channel mean" group:"filters"`
	Contrast      float64  `help:"Contrast adjustment in [-255, 255]" group:"filters"`
	Brightness    float64  `help:"Offset added to every color channel" group:"filters"`
	Sharpen       bool     `help:"Apply a 3x3 sharpening kernel" group:"filters"`
	Denoise       bool     `help:"Reserved, currently has no effect" group:"filters"`
	AutoRotate    bool     `help:"Reserved, currently has no effect" group:"filters"`
	PreserveAlpha bool     `help:"Keep source transparency when sharpening" group:"filters"`
	Format        string   `help:"Output format" enum:"png,bmp,tiff" default:"png"`
	MaxPixels     int      `help:"Skip pictures larger than this many pixels, 0 for the built-in limit"`
	OCR           bool     `name:"ocr" help:"Also write recognized text next to each enhanced picture" group:"ocr"`
	Lang          []string `help:"OCR languages" default:"eng" group:"ocr"`
	PSM           int      `name:"psm" help:"Tesseract page segmentation mode, 0 keeps the engine default" group:"ocr"`
	Whitelist     string   `help:"Only recognize these characters" group:"ocr"`
	PDF           bool     `name:"pdf" help:"Also export recognized text as PDF, requires --ocr" group:"ocr"`

	Options Options    `kong:"-"`
	Engine  ocr.Engine `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	var preset Options
	if c.Preset != "" {
		if preset, err = LoadOptions(c.Preset); err != nil {
			return err
		}
	}
	c.Options = preset.Merge(Options{
		Grayscale:     c.Grayscale,
		Contrast:      c.Contrast,
		Brightness:    c.Brightness,
		Sharpen:       c.Sharpen,
		Denoise:       c.Denoise,
		AutoRotate:    c.AutoRotate,
		PreserveAlpha: c.PreserveAlpha,
		MaxPixels:     c.MaxPixels,
	})
	if err := c.Options.Validate(); err != nil {
		return err
	}

	if c.PDF && !c.OCR && c.Engine == nil {
		return fmt.Errorf("--pdf requires --ocr")
	}
	if c.OCR && c.Engine == nil {
		if c.Engine, err = ocr.NewTesseract(); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLICmd) Run(ctx context.Context, pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	format, err := raster.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	slog.Info("enhancing", "scan", c.Scan, "dest", c.Dest, "workers", pool.Workers(), "options", c.Options)

	var processedCount, errCount, skippedCount atomic.Uint64
	claimed := make(map[string]string)
	for _, file := range files {
		if !file.Type().IsRegular() {
			continue
		}
		if ctx.Err() != nil {
			skippedCount.Add(1)
			continue
		}

		// a.jpg and a.png would both be written as a.png
		destName := replaceExt(file.Name(), format.Ext())
		if other, ok := claimed[destName]; ok {
			errCount.Add(1)
			slog.Error("destination already used by another picture",
				"file", filepath.Join(c.Scan, file.Name()), "other", other, "dest", destName)
			continue
		}
		claimed[destName] = file.Name()

		pool.Go(func() {
			if ctx.Err() != nil {
				skippedCount.Add(1)
				return
			}
			logger := slog.Default().With("file", filepath.Join(c.Scan, file.Name()))
			if err := c.process(ctx, logger, file.Name(), destName, format); err != nil {
				errCount.Add(1)
				logger.Error("could not enhance image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}

	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	skipped := skippedCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors, "skipped", skipped,
		"total", processed+errors+skipped)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted with %d files left: %w", skipped, err)
	}
	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) process(ctx context.Context, logger *slog.Logger, fileName, destName string, format raster.Format) error {
	imgFile, err := os.Open(filepath.Join(c.Scan, fileName))
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	defer imgFile.Close()

	img, imgType, err := raster.Decode(imgFile, c.Options.pixelLimit())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	logger.Debug("decoded", "type", imgType, "width", img.Width, "height", img.Height)

	out, err := Apply(logger, img, c.Options)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := raster.Encode(&buf, out, format); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := saveFile(c.Dest, destName, buf.Bytes()); err != nil {
		return err
	}

	if c.Engine == nil {
		return nil
	}

	res, err := c.Engine.Recognize(ctx, ocr.NewInput(destName, buf.Bytes(), c.ocrOptions()...))
	if err != nil {
		return fmt.Errorf("could not recognize text with %s: %w", c.Engine.Name(), err)
	}
	logger.Info("recognized", "engine", c.Engine.Name(), "chars", len(res.Text), "confidence", res.Confidence)

	if err := saveFile(c.Dest, replaceExt(fileName, "txt"), []byte(res.Text+"\n")); err != nil {
		return err
	}
	if !c.PDF {
		return nil
	}

	var doc bytes.Buffer
	if err := convert.ExportPDF(ctx, &doc, fileName, res.Text); err != nil {
		return err
	}
	return saveFile(c.Dest, replaceExt(fileName, "pdf"), doc.Bytes())
}

func (c *CLICmd) ocrOptions() []ocr.Option {
	opts := []ocr.Option{ocr.WithLanguages(c.Lang...)}
	if c.PSM != 0 {
		opts = append(opts, ocr.WithPageSegMode(c.PSM))
	}
	if c.Whitelist != "" {
		opts = append(opts, ocr.WithWhitelist(c.Whitelist))
	}
	return opts
}

func replaceExt(name, ext string) string {
	oldExt := filepath.Ext(name)
	return fmt.Sprintf("%s.%s", name[:len(name)-len(oldExt)], ext)
}

// saveFile writes data to a temporary file in destDir and renames it into
// place once it has been flushed.
func saveFile(destDir, destName string, data []byte) (err error) {
	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		} else {
			os.Remove(outFile.Name())
		}
	}()

	if _, err = outFile.Write(data); err != nil {
		return fmt.Errorf("could not write temporary destination %q: %w", destName, err)
	}

	canRename = true
	return nil
}
