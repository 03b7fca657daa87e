package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"ocrprep/convert"
)

type exportRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	doc, err := convert.ExtractPDF(r.Context(), bytes.NewReader(data))
	if err != nil {
		h.logger().Error("could not process pdf", "file", name, "error", err)
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process PDF"})
		return
	}

	writeJson(w, http.StatusOK, doc)
}

func (h *Handler) handleDOCX(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	text, err := convert.ExtractDOCX(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		h.logger().Error("could not convert docx", "file", name, "error", err)
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": "Failed to convert DOCX"})
		return
	}

	writeJson(w, http.StatusOK, map[string]string{"text": text})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload())).Decode(&req); err != nil {
		err = badRequest(fmt.Errorf("invalid request body: %w", err))
		writeError(w, statusFor(err), err)
		return
	}

	title := strings.TrimSuffix(path.Base(req.Filename), path.Ext(req.Filename))
	if title == "" || title == "." || title == "/" {
		title = "document"
	}

	var buf bytes.Buffer
	if err := convert.ExportPDF(r.Context(), &buf, title, req.Text); err != nil {
		h.logger().Error("could not export pdf", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("pdf export failed"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": title + ".pdf"}))
	w.Write(buf.Bytes())
}

// readUpload reads the multipart "file" field as is.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	limit := h.maxUpload()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		return "", nil, badRequest(fmt.Errorf("could not parse upload: %w", err))
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, badRequest(fmt.Errorf("missing file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, badRequest(fmt.Errorf("could not read upload: %w", err))
	}
	return header.Filename, data, nil
}
