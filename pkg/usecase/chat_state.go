package usecase

import "github.com/m-mizutani/goerr/v2"

// ChatState is a state of the conversation loop
type ChatState int

const (
	ChatStateAwaitingModelResponse ChatState = iota
	ChatStateExecutingTools
	ChatStateDone
	ChatStateFailed
)

func (s ChatState) String() string {
	switch s {
	case ChatStateAwaitingModelResponse:
		return "AwaitingModelResponse"
	case ChatStateExecutingTools:
		return "ExecutingTools"
	case ChatStateDone:
		return "Done"
	case ChatStateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (s ChatState) terminal() bool {
	return s == ChatStateDone || s == ChatStateFailed
}

type chatEvent int

const (
	eventModelAnswered chatEvent = iota
	eventModelRequestedTools
	eventModelFailed
	eventToolsExecuted
	eventIterationCapReached
)

func (e chatEvent) String() string {
	switch e {
	case eventModelAnswered:
		return "modelAnswered"
	case eventModelRequestedTools:
		return "modelRequestedTools"
	case eventModelFailed:
		return "modelFailed"
	case eventToolsExecuted:
		return "toolsExecuted"
	case eventIterationCapReached:
		return "iterationCapReached"
	default:
		return "unknown"
	}
}

type stateEvent struct {
	state ChatState
	event chatEvent
}

var chatTransitions = map[stateEvent]ChatState{
	{ChatStateAwaitingModelResponse, eventModelAnswered}:       ChatStateDone,
	{ChatStateAwaitingModelResponse, eventModelRequestedTools}: ChatStateExecutingTools,
	{ChatStateAwaitingModelResponse, eventModelFailed}:         ChatStateFailed,
	{ChatStateAwaitingModelResponse, eventIterationCapReached}: ChatStateDone,
	{ChatStateExecutingTools, eventToolsExecuted}:              ChatStateAwaitingModelResponse,
}

func transition(from ChatState, ev chatEvent) (ChatState, error) {
	to, ok := chatTransitions[stateEvent{state: from, event: ev}]
	if !ok {
		return from, goerr.Wrap(ErrInvalidTransition, "no transition for event",
			goerr.V("state", from.String()),
			goerr.V("event", ev.String()),
		)
	}
	return to, nil
}
