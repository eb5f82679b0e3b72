package assistant

import "context"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one prior conversation turn handed to the model.
type ChatMessage struct {
	Role    string
	Content string
}

// TokenUsage reports the token counts for one completion.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest asks the model for one reply given the system prompt and the
// conversation so far. The last message is the turn being answered.
type LLMRequest struct {
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

type LLMResponse struct {
	Text  string
	Usage TokenUsage
}

// LLMClient produces one model reply per call. Implementations hold their own
// model selection and credentials.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}
