package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Backland-Labs/rosterdesk/internal/logger"
)

const (
	contentTypeJSON = "application/json"
	serviceName     = "rosterdesk"
)

// healthHandler reports liveness
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// askHandler runs one conversational turn
func (s *Server) askHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondWithError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	var req AskRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		logger.WithError(err).Debug("Rejecting malformed ask body")
		s.respondWithError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondWithError(w, http.StatusBadRequest, MsgMessageRequired)
		return
	}

	role := strings.TrimSpace(r.Header.Get(roleHeader))
	reply, err := s.assistant.Ask(r.Context(), req.ThreadID, role, req.Message)
	if err != nil {
		status := mapAssistantError(err)
		logger.WithFields(map[string]interface{}{
			"thread_id":   reply.ThreadID,
			"run_id":      reply.RunID,
			"status_code": status.StatusCode,
		}).WithError(err).Warn("Ask failed")
		s.respondWithJSON(w, status.StatusCode, ErrorResponse{Error: status.Message, ThreadID: reply.ThreadID})
		return
	}

	s.respondWithJSON(w, http.StatusOK, reply)
}

// endThreadHandler discards a conversation on logout
func (s *Server) endThreadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.respondWithError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	threadID := strings.TrimSpace(r.PathValue("id"))
	if threadID == "" {
		s.respondWithError(w, http.StatusBadRequest, MsgThreadRequired)
		return
	}

	if err := s.assistant.EndConversation(r.Context(), threadID); err != nil {
		status := mapAssistantError(err)
		logger.WithField("thread_id", threadID).WithError(err).Warn("Failed to end conversation")
		s.respondWithError(w, status.StatusCode, status.Message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toolsHandler lists the tools exposed to the agent
func (s *Server) toolsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	defs := s.catalog.Definitions()
	response := ToolsResponse{Tools: make([]ToolInfo, 0, len(defs)), Count: len(defs)}
	for _, d := range defs {
		response.Tools = append(response.Tools, ToolInfo{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	s.respondWithJSON(w, http.StatusOK, response)
}

func (s *Server) respondWithJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithFields(map[string]interface{}{
			"error":       err.Error(),
			"status_code": statusCode,
		}).Error("Failed to encode response")
	}
}

func (s *Server) respondWithError(w http.ResponseWriter, statusCode int, message string) {
	logger.WithFields(map[string]interface{}{
		"status_code":   statusCode,
		"error_message": message,
	}).Debug("Sending error response")

	s.respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}
