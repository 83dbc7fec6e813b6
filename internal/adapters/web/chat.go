package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"stockmaster/internal/app"
)

// ── SSE helpers ───────────────────────────────────────────────────────────────

// sendSSE writes one SSE event and flushes. data is JSON-marshalled.
func sendSSE(w http.ResponseWriter, f http.Flusher, event string, data any) {
	b, _ := json.Marshal(data)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(b))
	f.Flush()
}

// ── Team chat ─────────────────────────────────────────────────────────────────

type postChatRequest struct {
	Content string `json:"content"`
}

// listChat handles GET /api/chat?limit=N, oldest first.
func (h *Handler) listChat(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	msgs, err := h.svc.ListChat(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"messages": msgs})
}

// postChat handles POST /api/chat.
func (h *Handler) postChat(w http.ResponseWriter, r *http.Request) {
	var req postChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.PostChat(r.Context(), userEmail(r), req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, msg)
}

// ── AI assistant ──────────────────────────────────────────────────────────────

type assistantRequest struct {
	Question    string `json:"question"`
	WarehouseID string `json:"warehouseId"`
}

// askAssistant handles POST /api/assistant as an SSE stream.
//
// Event sequence:
//
//	status      {"status": "thinking"}
//	answer      {"text": ...}
//	item_added  {"item": ...}      (only when an add directive was executed)
//	error       {"message": ..., "code": ...}
//	done        {}
func (h *Handler) askAssistant(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Question == "" {
		writeError(w, r, "question is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, "streaming not supported", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering if present

	sendSSE(w, flusher, "status", map[string]any{"status": "thinking"})

	result, err := h.svc.AskAssistant(r.Context(), app.AssistantRequest{
		Question:    req.Question,
		WarehouseID: req.WarehouseID,
		UserEmail:   userEmail(r),
	})
	if err != nil {
		sendSSE(w, flusher, "error", map[string]any{"message": err.Error(), "code": "ASSISTANT_ERROR"})
		sendSSE(w, flusher, "done", map[string]any{})
		return
	}

	sendSSE(w, flusher, "answer", map[string]any{"text": result.Answer})
	if result.AddedItem != nil {
		sendSSE(w, flusher, "item_added", map[string]any{"item": result.AddedItem})
	}
	sendSSE(w, flusher, "done", map[string]any{})
}
