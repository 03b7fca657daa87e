package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"ocrprep/textai"
)

type textRequest struct {
	Text string      `json:"text"`
	Task textai.Task `json:"task"`
}

type textResponse struct {
	Result string `json:"result"`
}

func (h *Handler) handleText(w http.ResponseWriter, r *http.Request) {
	if h.Processor == nil {
		writeError(w, http.StatusNotImplemented, errors.New("no language model configured"))
		return
	}

	var req textRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, defaultMaxUpload)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Processor.Run(r.Context(), req.Task, req.Text)
	if err != nil {
		if errors.Is(err, textai.ErrInvalidTask) {
			writeJson(w, http.StatusBadRequest, map[string]string{"error": "Invalid task"})
			return
		}

		h.logger().Error("could not process text", "task", req.Task, "error", err)
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": "AI processing failed"})
		return
	}

	writeJson(w, http.StatusOK, textResponse{Result: result})
}
