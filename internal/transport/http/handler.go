// Package httptransport implements the HTTP transport layer
// for order processing.
package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/iliamunaev/barrier-pipeline/internal/apperr"
	"github.com/iliamunaev/barrier-pipeline/internal/model"
)

type orderProcessor interface {
	Process(ctx context.Context, req model.OrderRequest) ([]model.StepResult, error)
}

type runningCounter interface {
	Running() int64
	Waiting() int
}

type slotCounter interface {
	Size() int
}

// Handler handles HTTP requests to order orchestration.
type Handler struct {
	orderProcessor orderProcessor
	running        runningCounter
	slots          slotCounter
	requestTimeout time.Duration
}

// New returns a Handler. It panics if orderProcessor, running or slots is nil.
// A non-positive requestTimeout is replaced by 2s.
func New(orderProcessor orderProcessor, running runningCounter, slots slotCounter, requestTimeout time.Duration) *Handler {
	if orderProcessor == nil {
		panic("httptransport.New: nil order processor")
	}
	if running == nil {
		panic("httptransport.New: nil running counter")
	}
	if slots == nil {
		panic("httptransport.New: nil slot counter")
	}
	if requestTimeout <= 0 {
		requestTimeout = 2 * time.Second
	}
	return &Handler{
		orderProcessor: orderProcessor,
		running:        running,
		slots:          slots,
		requestTimeout: requestTimeout,
	}
}

// Routes registers the handler endpoints on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/order", h.HandleOrder)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/stats", h.HandleStats)
	return mux
}

// HandleOrder processes an order request.
//
// The request must be a POST with a single JSON object body.
// Processing is bounded by the request timeout.
func (h *Handler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req model.OrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	steps, err := h.orderProcessor.Process(ctx, req)

	resp := model.OrderResponse{
		Status:  "ok",
		OrderID: req.OrderID,
		Steps:   steps,
	}
	if err != nil {
		resp.Status = "error"
		resp.Error = &model.ErrorPayload{
			Kind:    apperr.Kind(err),
			Message: "order failed",
		}
	}

	writeJSON(w, apperr.HTTPStatus(err), resp)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleStats reports the number of steps in flight and the courier capacity.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	n := h.running.Running()
	writeJSON(w, http.StatusOK, model.StatsResponse{
		Running:      n,
		Busy:         n > 0,
		IdleWaiters:  h.running.Waiting(),
		CourierSlots: h.slots.Size(),
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.OrderResponse{
		Status: "error",
		Error:  &model.ErrorPayload{Kind: "bad_request", Message: msg},
	})
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
