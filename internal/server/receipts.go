package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/tallyup-dev/tallyup/internal/logger"
	"github.com/tallyup-dev/tallyup/internal/ocr"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

type scanResponse struct {
	Text  string    `json:"text"`
	Draft draftJSON `json:"draft"`
}

func (s *Server) analyzeReceipt(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	writeJSON(w, http.StatusOK, toDraftJSON(s.deps.Receipts.Run(req.Text)))
}

func (s *Server) scanReceipt(w http.ResponseWriter, r *http.Request) {
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}
	if len(image) == 0 {
		writeError(w, http.StatusBadRequest, "image body is required")
		return
	}

	ctx := r.Context()
	if s.deps.OCRTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deps.OCRTimeout)
		defer cancel()
	}

	text, err := s.deps.OCR.ExtractText(ctx, image)
	switch {
	case errors.Is(err, ocr.ErrNoText):
		writeError(w, http.StatusUnprocessableEntity, "no text found in image")
		return
	case err != nil:
		l := logger.FromContext(r.Context())
		l.Warn().Err(err).Msg("ocr failed")
		writeError(w, http.StatusBadGateway, "ocr failed")
		return
	}

	writeJSON(w, http.StatusOK, scanResponse{Text: text, Draft: toDraftJSON(s.deps.Receipts.Run(text))})
}
