package http

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/utils/async"
	"github.com/edopt/chatbot/pkg/utils/errutil"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// reindexState allows one rebuild at a time
type reindexState struct {
	running atomic.Bool
}

type reindexResponse struct {
	Status string   `json:"status"`
	Types  []string `json:"types"`
}

// reindexHandler starts a rebuild of the requested content types in the
// background and answers 202 right away. Types come from repeated ?type= parameters.
func reindexHandler(index IndexUseCase, state *reindexState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var contentTypes []types.ContentType
		for _, v := range r.URL.Query()["type"] {
			ct, err := types.ParseContentType(v)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid content type", goerr.V("type", v)), http.StatusBadRequest)
				return
			}
			contentTypes = append(contentTypes, ct)
		}
		if len(contentTypes) == 0 {
			contentTypes = types.AllContentTypes()
		}

		if !state.running.CompareAndSwap(false, true) {
			writeJSON(w, r, http.StatusConflict, errorResponse{Detail: "reindex already running"})
			return
		}

		async.Dispatch(ctx, "reindex", func(ctx context.Context) error {
			defer state.running.Store(false)

			counts, err := index.Rebuild(ctx, contentTypes...)
			if err != nil {
				return err
			}
			logging.From(ctx).Info("reindex finished", "counts", counts)
			return nil
		})

		names := make([]string, len(contentTypes))
		for i, ct := range contentTypes {
			names[i] = ct.String()
		}
		writeJSON(w, r, http.StatusAccepted, reindexResponse{Status: "accepted", Types: names})
	}
}
