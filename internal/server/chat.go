package server

import (
	"net/http"
)

func (s server) chat(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /chat Chat Chat
	//
	// Sends a message to the training assistant.
	//
	// ---
	// security:
	// - bearer: []
	// parameters:
	// - name: request
	//   in: body
	//   required: true
	//   schema:
	//     "$ref": "#/definitions/ChatRequest"
	// responses:
	//   '200':
	//     description: Assistant's reply
	//     schema:
	//       "$ref": "#/definitions/ChatResponse"
	//   '501':
	//     description: assistant is not configured
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '502':
	//     description: assistant returned empty response
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := s.s.Chat(r.Context(), viewer(r), req.Message)
	if err != nil {
		writeServiceError(w, r, "failed to chat", err)
		return
	}

	writeOK(w, http.StatusOK, ChatResponse{Reply: reply})
}
