package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/edopt/chatbot/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

const (
	maxChatBodyBytes   = 64 << 10
	maxSessionIDLength = 128
)

type chatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

type chatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceName,
	})
}

func greetHandler(chat ChatUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := chat.Greet()
		writeJSON(w, r, http.StatusOK, chatResponse{
			Answer:    out.Answer,
			SessionID: out.SessionID.String(),
		})
	}
}

func chatHandler(chat ChatUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req chatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		var sessionID model.SessionID
		if req.SessionID != nil {
			if len(*req.SessionID) > maxSessionIDLength {
				errutil.HandleHTTP(ctx, w, goerr.New("session_id is too long",
					goerr.V("length", len(*req.SessionID))), http.StatusBadRequest)
				return
			}
			sessionID = model.SessionID(*req.SessionID)
		}

		out, err := chat.Process(ctx, usecase.ChatInput{
			SessionID:     sessionID,
			Message:       req.Message,
			ClientAddress: clientAddress(r),
		})
		if err != nil {
			if errors.Is(err, usecase.ErrEmptyMessage) {
				errutil.HandleHTTP(ctx, w, goerr.New("message is required"), http.StatusBadRequest)
				return
			}
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "chat failed", goerr.V(usecase.SessionIDKey, sessionID)),
				http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, http.StatusOK, chatResponse{
			Answer:    out.Answer,
			SessionID: out.SessionID.String(),
		})
	}
}
