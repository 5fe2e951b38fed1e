package usecase

// ChatEvent is exported for testing the transition table
type ChatEvent = chatEvent

const (
	EventModelAnswered       = eventModelAnswered
	EventModelRequestedTools = eventModelRequestedTools
	EventModelFailed         = eventModelFailed
	EventToolsExecuted       = eventToolsExecuted
	EventIterationCapReached = eventIterationCapReached
)

// Transition is exported for testing
var Transition = transition

// ComposeEmbeddingTexts is exported for testing
var ComposeEmbeddingTexts = (*IndexUseCase).compose
