package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/edopt/chatbot/pkg/utils/metrics"
	"github.com/m-mizutani/gt"
)

func TestHandlerExposesMetrics(t *testing.T) {
	metrics.ChatRequest(metrics.OutcomeSuccess)
	metrics.ToolDispatch("lookup_rsa", metrics.OutcomeSuccess)
	metrics.SetIndexRecords(map[string]int{"rsa": 3})

	srv := httptest.NewServer(metrics.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	gt.NoError(t, err).Required()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	gt.NoError(t, err).Required()

	gt.String(t, string(body)).Contains(`edopt_chat_requests_total{outcome="success"}`)
	gt.String(t, string(body)).Contains(`edopt_tool_dispatch_total{outcome="success",tool="lookup_rsa"}`)
	gt.String(t, string(body)).Contains(`edopt_index_records{content_type="rsa"} 3`)
}
