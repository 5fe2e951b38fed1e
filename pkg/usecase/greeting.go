package usecase

import "github.com/edopt/chatbot/pkg/domain/model"

// Greeting is the opening message shown before the first user turn
const Greeting = "Hi there! I'm the EdOpt Assistant, here to help you explore " +
	"education options in New Hampshire.\n\n" +
	"I can help you:\n" +
	"- **Find schools and programs** near you\n" +
	"- **Learn about Education Freedom Accounts** (EFAs)\n" +
	"- **Understand NH education laws** and requirements\n" +
	"- **Track education legislation** in the current session\n\n" +
	"What can I help you with today?"

// Greet starts a new session and returns the greeting for it. Nothing is
// stored until the first user message arrives.
func (uc *ChatUseCase) Greet() *ChatOutput {
	return &ChatOutput{
		Answer:    Greeting,
		SessionID: model.NewSessionID(),
	}
}
