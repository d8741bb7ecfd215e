// Package server exposes invoice generation over HTTP.
package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/invoicegen/pkg/invoice"
	"github.com/invoicegen/pkg/render"
	"github.com/invoicegen/pkg/storage"
)

const maxBodyBytes = 1 << 20

// Handler renders invoices on request and stores every invoice it serves.
type Handler struct {
	generator *invoice.Generator
	sink      storage.Sink
	logger    *zap.Logger
}

// NewRouter wires the invoice routes.
func NewRouter(generator *invoice.Generator, sink storage.Sink, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = storage.LocalSink{Dir: "invoices"}
	}
	h := &Handler{generator: generator, sink: sink, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/generate-invoice", h.generateInvoice).Methods(http.MethodPost)
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (h *Handler) generateInvoice(w http.ResponseWriter, r *http.Request) {
	daysOff := 0
	if raw := r.URL.Query().Get("days_off"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "days_off must be a non-negative integer", http.StatusBadRequest)
			return
		}
		daysOff = n
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}
	vars, err := invoice.ParseVariables(body)
	if err != nil {
		http.Error(w, "Error decoding invoice variables", http.StatusBadRequest)
		return
	}

	result, err := h.generator.Build(r.Context(), vars, daysOff)
	if err != nil {
		if errors.Is(err, render.ErrInvalidAmount) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("invoice generation failed", zap.Error(err))
		http.Error(w, "Error generating invoice", http.StatusInternalServerError)
		return
	}

	location, err := h.sink.Store(r.Context(), result.FileName, result.PDF)
	if err != nil {
		h.logger.Error("storing invoice failed", zap.String("number", result.Number), zap.Error(err))
		http.Error(w, "Error storing invoice", http.StatusInternalServerError)
		return
	}

	h.logger.Info("invoice served",
		zap.String("number", result.Number),
		zap.String("location", location),
		zap.Int("business_days", result.BusinessDays))

	w.Header().Set("Content-Disposition", "attachment; filename="+result.FileName)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.Header().Set("X-Invoice-Number", result.Number)
	_, _ = w.Write(result.PDF)
}
