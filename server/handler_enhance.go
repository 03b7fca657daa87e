package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ocrprep/enhance"
	"ocrprep/ocr"
	"ocrprep/raster"
)

const defaultMaxUpload = 20 << 20

type recognizeResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language,omitempty"`
}

func (h *Handler) handleEnhance(w http.ResponseWriter, r *http.Request) {
	_, data, err := h.enhanceUpload(w, r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", raster.PNG.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *Handler) handleRecognize(w http.ResponseWriter, r *http.Request) {
	if h.Engine == nil {
		writeError(w, http.StatusNotImplemented, errors.New("no OCR engine configured"))
		return
	}

	name, data, err := h.enhanceUpload(w, r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	langs := h.Languages
	if val := r.FormValue("lang"); val != "" {
		langs = strings.Split(val, "+")
	}
	opts := []ocr.Option{ocr.WithLanguages(langs...)}
	if val := r.FormValue("psm"); val != "" {
		mode, err := strconv.Atoi(val)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("psm: %q is not a number", val))
			return
		}
		opts = append(opts, ocr.WithPageSegMode(mode))
	}
	if val := r.FormValue("whitelist"); val != "" {
		opts = append(opts, ocr.WithWhitelist(val))
	}

	res, err := h.Engine.Recognize(r.Context(), ocr.NewInput(name, data, opts...))
	if err != nil {
		h.logger().Error("could not recognize text", "engine", h.Engine.Name(), "file", name, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("text recognition failed"))
		return
	}

	writeJson(w, http.StatusOK, recognizeResponse{
		Text:       res.Text,
		Confidence: res.Confidence,
		Language:   res.Language,
	})
}

// enhanceUpload reads the multipart "file" field and returns its name with
// the enhanced PNG.
func (h *Handler) enhanceUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	name, src, err := h.readUpload(w, r)
	if err != nil {
		return "", nil, err
	}

	opts, err := parseOptions(r)
	if err != nil {
		return "", nil, err
	}
	opts.MaxPixels = h.MaxPixels

	data, err := enhance.EnhanceBytes(h.logger().With("file", name), src, opts)
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}

func parseOptions(r *http.Request) (enhance.Options, error) {
	var opts enhance.Options

	bools := []struct {
		key string
		dst *bool
	}{
		{"grayscale", &opts.Grayscale},
		{"sharpen", &opts.Sharpen},
		{"denoise", &opts.Denoise},
		{"autoRotate", &opts.AutoRotate},
		{"preserveAlpha", &opts.PreserveAlpha},
	}
	for _, b := range bools {
		val := r.FormValue(b.key)
		if val == "" {
			continue
		}
		v, err := strconv.ParseBool(val)
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %q is not a boolean", enhance.ErrInvalidOptions, b.key, val)
		}
		*b.dst = v
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"contrast", &opts.Contrast},
		{"brightness", &opts.Brightness},
	}
	for _, f := range floats {
		val := r.FormValue(f.key)
		if val == "" {
			continue
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return opts, fmt.Errorf("%w: %s: %q is not a number", enhance.ErrInvalidOptions, f.key, val)
		}
		*f.dst = v
	}

	return opts, opts.Validate()
}

type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

func statusFor(err error) int {
	var reqErr *requestError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, raster.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr),
		errors.Is(err, enhance.ErrDecode),
		errors.Is(err, enhance.ErrInvalidOptions):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
