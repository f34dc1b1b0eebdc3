package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/chat"
	"github.com/lmercier/careerchat/internal/storage"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	answerer, _, _ := s.current()
	if answerer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "knowledge base not built yet")
		return
	}

	s.logger.Debug("chat request", zap.String("query", query))
	answer, err := answerer.Answer(r.Context(), query)
	if err != nil {
		s.logger.Error("answer failed", zap.Error(err))
		if errors.Is(err, chat.ErrGeneration) {
			s.respondError(w, http.StatusInternalServerError, "answer generation failed")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	answerer, index, _ := s.current()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"has_index": index != nil,
		"has_chat":  answerer != nil,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	answerer, index, buildID := s.current()

	resp := map[string]interface{}{
		"ready":    answerer != nil,
		"build_id": buildID,
	}
	if index != nil {
		resp["chunks"] = index.Size()
		resp["dimensions"] = index.Dimensions()
	}
	if answerer != nil {
		resp["top_k"] = answerer.TopK()
	}

	llmProvider := s.config.LLM.Provider
	if llmProvider == "" {
		if s.config.LLM.APIKey != "" {
			llmProvider = "openai"
		} else {
			llmProvider = "ollama"
		}
	}
	configInfo := map[string]interface{}{
		"embedding_provider": s.config.Embedding.Provider,
		"llm_provider":       llmProvider,
		"llm_model":          s.config.LLM.Model,
		"snapshot_path":      s.config.Storage.SnapshotPath,
		"chunk_max_chars":    s.config.Chunking.MaxChars,
		"chunk_min_chars":    s.config.Chunking.MinChars,
	}
	if bytes := storage.DiskUsageBytes(s.config.Storage.SnapshotPath); bytes > 0 {
		resp["snapshot_bytes"] = bytes
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
