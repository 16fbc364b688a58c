package agent

import (
	"appointment-ivr/internal/agent/tools"
	"appointment-ivr/internal/config"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/scheduling"
	"appointment-ivr/internal/sessions"
	"context"
	"errors"
	"fmt"
	"time"
)

// MaxToolRounds bounds how many times the model may call tools before it
// must answer the caller.
const MaxToolRounds = 5

var (
	ErrNoHistory         = errors.New("conversation has no messages")
	ErrTooManyToolRounds = errors.New("model kept calling tools without answering")
	ErrEmptyReply        = errors.New("model returned an empty reply")
)

// Agent produces the next assistant turn for a conversation.
type Agent interface {
	Reply(ctx context.Context, history []sessions.Message) (string, error)
}

// Dispatcher executes a named tool with JSON arguments.
type Dispatcher interface {
	Dispatch(ctx context.Context, name, arguments string) (string, error)
}

// New builds the agent for the configured provider. A positive cfg.Timeout
// bounds each Reply, tool calls included.
func New(cfg config.LLMConfig, dispatcher Dispatcher, hours scheduling.Hours, logger *observability.Logger) (Agent, error) {
	prompt := NewPromptBuilder(hours, time.Now)

	var a Agent
	switch cfg.Provider {
	case config.LLMProviderOpenAI:
		a = NewOpenAIAgent(cfg.OpenAIAPIKey, cfg.OpenAIModel, dispatcher, prompt, logger)
	case config.LLMProviderGemini:
		a = NewGeminiAgent(cfg.GoogleAIAPIKey, cfg.GeminiModel, dispatcher, prompt, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}

	if cfg.Timeout > 0 {
		a = WithTimeout(a, cfg.Timeout)
	}
	return a, nil
}

type timeoutAgent struct {
	next    Agent
	timeout time.Duration
}

// WithTimeout limits every Reply of next to d.
func WithTimeout(next Agent, d time.Duration) Agent {
	return &timeoutAgent{next: next, timeout: d}
}

func (t *timeoutAgent) Reply(ctx context.Context, history []sessions.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Reply(ctx, history)
}

// dispatchResult runs a tool call and always yields text for the model.
func dispatchResult(ctx context.Context, dispatcher Dispatcher, logger *observability.Logger, name, arguments string) string {
	ctx = observability.WithFields(ctx, observability.Field{Key: "tool", Value: name})
	result, err := dispatcher.Dispatch(ctx, name, arguments)
	if err != nil {
		switch {
		case errors.Is(err, tools.ErrUnknownTool), errors.Is(err, tools.ErrInvalidArguments):
			logger.Warn(ctx, "model sent an unusable tool call")
		default:
			logger.Error(ctx, "tool call failed", err)
		}
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}
