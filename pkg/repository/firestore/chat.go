package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type sessionDoc struct {
	ID            string    `firestore:"ID"`
	ClientAddress string    `firestore:"ClientAddress"`
	CreatedAt     time.Time `firestore:"CreatedAt"`
	LastActive    time.Time `firestore:"LastActive"`
	MessageSeq    int64     `firestore:"MessageSeq"`
}

func (d *sessionDoc) toModel() *model.ChatSession {
	return &model.ChatSession{
		ID:            model.SessionID(d.ID),
		ClientAddress: d.ClientAddress,
		CreatedAt:     d.CreatedAt,
		LastActive:    d.LastActive,
	}
}

type messageDoc struct {
	Seq       int64                  `firestore:"Seq"`
	SessionID string                 `firestore:"SessionID"`
	Role      string                 `firestore:"Role"`
	Content   string                 `firestore:"Content"`
	ToolCalls []model.ToolCallRecord `firestore:"ToolCalls"`
	CreatedAt time.Time              `firestore:"CreatedAt"`
}

func (d *messageDoc) toModel() *model.ChatMessage {
	return &model.ChatMessage{
		Seq:       d.Seq,
		SessionID: model.SessionID(d.SessionID),
		Role:      types.Role(d.Role),
		Content:   d.Content,
		ToolCalls: d.ToolCalls,
		CreatedAt: d.CreatedAt,
	}
}

type chatRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ChatRepository = &chatRepository{}

func (r *chatRepository) sessions() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, collectionSessions))
}

func (r *chatRepository) messages(id model.SessionID) *firestore.CollectionRef {
	return r.sessions().Doc(string(id)).Collection(collectionName(r.collectionPrefix, collectionMessages))
}

func messageDocID(seq int64) string {
	return fmt.Sprintf("%020d", seq)
}

func (r *chatRepository) GetOrCreate(ctx context.Context, id model.SessionID, clientAddress string) (*model.ChatSession, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrInvalidArgument, "session ID is required")
	}

	ref := r.sessions().Doc(string(id))
	var session *model.ChatSession
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := time.Now().UTC()
		doc, err := tx.Get(ref)
		if err != nil {
			if !isNotFound(err) {
				return goerr.Wrap(err, "failed to get session")
			}
			d := &sessionDoc{
				ID:            string(id),
				ClientAddress: clientAddress,
				CreatedAt:     now,
				LastActive:    now,
			}
			session = d.toModel()
			return tx.Set(ref, d)
		}

		var d sessionDoc
		if err := doc.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal session")
		}
		d.LastActive = now
		session = d.toModel()
		return tx.Update(ref, []firestore.Update{{Path: "LastActive", Value: now}})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get or create session", goerr.V("sessionID", id))
	}
	return session, nil
}

func (r *chatRepository) queryMessages(ctx context.Context, q firestore.Query) ([]*model.ChatMessage, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	msgs := make([]*model.ChatMessage, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages")
		}

		var d messageDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message", goerr.V("docID", doc.Ref.ID))
		}
		msgs = append(msgs, d.toModel())
	}
	return msgs, nil
}

func (r *chatRepository) RecentHistory(ctx context.Context, id model.SessionID, maxTurns int) ([]*model.ChatMessage, error) {
	if maxTurns <= 0 {
		return []*model.ChatMessage{}, nil
	}

	msgs, err := r.queryMessages(ctx, r.messages(id).
		OrderBy("CreatedAt", firestore.Desc).
		OrderBy("Seq", firestore.Desc).
		Limit(maxTurns*2))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get history", goerr.V("sessionID", id))
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *model.ChatMessage) error {
	if msg == nil || msg.SessionID == "" {
		return goerr.Wrap(ErrInvalidArgument, "session ID is required")
	}
	if !msg.Role.IsValid() {
		return goerr.Wrap(ErrInvalidArgument, "invalid message role", goerr.V("role", msg.Role))
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	sessionRef := r.sessions().Doc(string(msg.SessionID))
	var seq int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(sessionRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(ErrNotFound, "session not found")
			}
			return goerr.Wrap(err, "failed to get session")
		}

		var s sessionDoc
		if err := doc.DataTo(&s); err != nil {
			return goerr.Wrap(err, "failed to unmarshal session")
		}

		seq = s.MessageSeq + 1
		updates := []firestore.Update{{Path: "MessageSeq", Value: seq}}
		if msg.CreatedAt.After(s.LastActive) {
			updates = append(updates, firestore.Update{Path: "LastActive", Value: msg.CreatedAt})
		}
		if err := tx.Update(sessionRef, updates); err != nil {
			return err
		}

		return tx.Set(r.messages(msg.SessionID).Doc(messageDocID(seq)), &messageDoc{
			Seq:       seq,
			SessionID: string(msg.SessionID),
			Role:      string(msg.Role),
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
			CreatedAt: msg.CreatedAt,
		})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to append message", goerr.V("sessionID", msg.SessionID))
	}

	msg.Seq = seq
	return nil
}

func (r *chatRepository) ListSessions(ctx context.Context, limit int) ([]*model.ChatSession, error) {
	q := r.sessions().OrderBy("LastActive", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	sessions := make([]*model.ChatSession, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions")
		}

		var d sessionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("docID", doc.Ref.ID))
		}
		sessions = append(sessions, d.toModel())
	}
	return sessions, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, id model.SessionID) ([]*model.ChatMessage, error) {
	msgs, err := r.queryMessages(ctx, r.messages(id).
		OrderBy("CreatedAt", firestore.Asc).
		OrderBy("Seq", firestore.Asc))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list messages", goerr.V("sessionID", id))
	}
	return msgs, nil
}

func (r *chatRepository) CountMessages(ctx context.Context) (int, error) {
	results, err := r.client.CollectionGroup(collectionName(r.collectionPrefix, collectionMessages)).NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count messages")
	}

	v, ok := results["count"]
	if !ok {
		return 0, goerr.New("count aggregation missing")
	}
	switch n := v.(type) {
	case *firestorepb.Value:
		return int(n.GetIntegerValue()), nil
	case int64:
		return int(n), nil
	default:
		return 0, goerr.New("unexpected count aggregation type", goerr.V("value", v))
	}
}
