package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/edopt/chatbot/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

type conversationMessage struct {
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	CreatedAt *string                `json:"created_at"`
	ToolCalls []model.ToolCallRecord `json:"tool_calls"`
}

type conversationSession struct {
	ID         string                `json:"id"`
	CreatedAt  *string               `json:"created_at"`
	LastActive *string               `json:"last_active"`
	IPAddress  string                `json:"ip_address"`
	Messages   []conversationMessage `json:"messages"`
}

type conversationsResponse struct {
	TotalSessions int                   `json:"total_sessions"`
	TotalMessages int                   `json:"total_messages"`
	Sessions      []conversationSession `json:"sessions"`
}

func isoTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func conversationsHandler(conversation ConversationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit := usecase.DefaultConversationLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				errutil.HandleHTTP(ctx, w, goerr.New("limit must be a positive integer", goerr.V("limit", v)), http.StatusBadRequest)
				return
			}
			limit = min(n, usecase.DefaultConversationLimit)
		}

		list, err := conversation.List(ctx, limit)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to list conversations"), http.StatusInternalServerError)
			return
		}

		resp := conversationsResponse{
			TotalSessions: list.TotalSessions,
			TotalMessages: list.TotalMessages,
			Sessions:      make([]conversationSession, 0, len(list.Sessions)),
		}
		for _, c := range list.Sessions {
			session := conversationSession{
				ID:         c.Session.ID.String(),
				CreatedAt:  isoTime(c.Session.CreatedAt),
				LastActive: isoTime(c.Session.LastActive),
				IPAddress:  c.Session.ClientAddress,
				Messages:   make([]conversationMessage, 0, len(c.Messages)),
			}
			for _, m := range c.Messages {
				msg := conversationMessage{
					Role:      m.Role.String(),
					Content:   m.Content,
					CreatedAt: isoTime(m.CreatedAt),
				}
				if len(m.ToolCalls) > 0 {
					msg.ToolCalls = m.ToolCalls
				}
				session.Messages = append(session.Messages, msg)
			}
			resp.Sessions = append(resp.Sessions, session)
		}

		writeJSON(w, r, http.StatusOK, resp)
	}
}
