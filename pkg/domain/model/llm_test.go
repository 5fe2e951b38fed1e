package model_test

import (
	"testing"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestChatResponse_Text(t *testing.T) {
	resp := &model.ChatResponse{Texts: []string{"Hello, ", "world"}}
	gt.Value(t, resp.Text()).Equal("Hello, world")

	var nilResp *model.ChatResponse
	gt.Value(t, nilResp.Text()).Equal("")
}

func TestChatResponse_RequestsTools(t *testing.T) {
	call := model.ToolCall{ID: "toolu_1", Name: "lookup_rsa"}

	gt.Bool(t, (&model.ChatResponse{StopReason: model.StopReasonToolUse, ToolCalls: []model.ToolCall{call}}).RequestsTools()).True()
	gt.Bool(t, (&model.ChatResponse{StopReason: model.StopReasonToolUse}).RequestsTools()).False()
	gt.Bool(t, (&model.ChatResponse{StopReason: model.StopReasonEndTurn, ToolCalls: []model.ToolCall{call}}).RequestsTools()).False()
}
