package agent

import (
	"appointment-ivr/internal/agent/tools"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/sessions"
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

type OpenAIAgent struct {
	model      string
	options    []openaiOption.RequestOption
	dispatcher Dispatcher
	prompt     PromptBuilder
	logger     *observability.Logger
}

// NewOpenAIAgent builds an agent on the chat completions API. Extra request
// options are appended after the API key.
func NewOpenAIAgent(apiKey, model string, dispatcher Dispatcher, prompt PromptBuilder, logger *observability.Logger, extra ...openaiOption.RequestOption) *OpenAIAgent {
	options := []openaiOption.RequestOption{
		openaiOption.WithAPIKey(apiKey),
	}
	options = append(options, extra...)

	return &OpenAIAgent{
		model:      model,
		options:    options,
		dispatcher: dispatcher,
		prompt:     prompt,
		logger:     logger,
	}
}

func (a *OpenAIAgent) Reply(ctx context.Context, history []sessions.Message) (string, error) {
	if len(history) == 0 {
		return "", ErrNoHistory
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "llm_model", Value: a.model})

	client := openai.NewClient(a.options...)
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: toOpenAIMessages(a.prompt.Build(), history),
		Tools:    openAITools(),
	}

	for round := 0; round <= MaxToolRounds; round++ {
		completion, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			a.logger.Error(ctx, "chat completion failed", err)
			return "", fmt.Errorf("failed to get chat completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", ErrEmptyReply
		}

		message := completion.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			reply := strings.TrimSpace(message.Content)
			if reply == "" {
				return "", ErrEmptyReply
			}
			return reply, nil
		}

		params.Messages = append(params.Messages, message.ToParam())
		for _, call := range message.ToolCalls {
			result := dispatchResult(ctx, a.dispatcher, a.logger, call.Function.Name, call.Function.Arguments)
			params.Messages = append(params.Messages, openai.ToolMessage(result, call.ID))
		}
	}

	a.logger.Warn(ctx, "tool round limit reached")
	return "", ErrTooManyToolRounds
}

func toOpenAIMessages(systemPrompt string, history []sessions.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, msg := range history {
		switch msg.Role {
		case sessions.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return messages
}

func openAITools() []openai.ChatCompletionToolParam {
	definitions := tools.Definitions()
	out := make([]openai.ChatCompletionToolParam, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.JSONSchema()),
			},
		})
	}
	return out
}
