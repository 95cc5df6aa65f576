// Package assistant exposes the chat copilot, report generation and
// document upload endpoints.
package assistant

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	coreAssistant "scenario_valuation/pkg/core/assistant"

	"scenario_valuation/pkg/core/docs"
)

// Handler holds the copilot the endpoints run against.
type Handler struct {
	assistant *coreAssistant.Assistant
}

func NewHandler(a *coreAssistant.Assistant) *Handler {
	return &Handler{assistant: a}
}

type chatRequest struct {
	Message string `json:"message"`
}

type reportRequest struct {
	ScenarioID string `json:"scenarioId"`
}

type researchRequest struct {
	Company string `json:"company"`
	Topic   string `json:"topic"`
}

type documentResponse struct {
	Characters int    `json:"characters"`
	Text       string `json:"text"`
}

func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleChat runs one copilot turn. Tool calls happen server-side; the
// response carries the final text plus the tool trace for the UI log.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	reply, err := h.assistant.Chat(r.Context(), req.Message)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fmt.Printf("[ASSISTANT] Chat turn took %v (%d tool calls)\n", time.Since(start), len(reply.ToolTrace))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

// HandleReport generates a narrative valuation memo for one scenario.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.assistant.GenerateReport(r.Context(), req.ScenarioID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Report generation failed: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// HandleResearch answers a one-shot research question with search-grounded
// sources. The researcher is built per request; it holds a live API client
// that should not outlive the call.
func (h *Handler) HandleResearch(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	researcher, err := coreAssistant.NewResearcher(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer researcher.Close()

	note, err := researcher.Research(r.Context(), req.Company, req.Topic)
	if err != nil {
		http.Error(w, fmt.Sprintf("Research failed: %v", err), http.StatusBadGateway)
		return
	}
	fmt.Printf("[ASSISTANT] Research %q / %q returned %d sources\n", req.Company, req.Topic, len(note.Sources))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(note)
}

// HandleDocument accepts an HTML document body and returns the extracted
// text the assistant would reason over. The frontend shows this as a
// preview before attaching it to a chat turn.
func (h *Handler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "Empty document", http.StatusBadRequest)
		return
	}

	text, err := docs.ExtractText(string(body))
	if err != nil {
		http.Error(w, fmt.Sprintf("Extraction failed: %v", err), http.StatusUnprocessableEntity)
		return
	}
	fmt.Printf("[ASSISTANT] Extracted %d chars from uploaded document\n", len(text))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(documentResponse{Characters: len(text), Text: text})
}
