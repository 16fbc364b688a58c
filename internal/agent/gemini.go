package agent

import (
	"appointment-ivr/internal/agent/tools"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/sessions"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiAgent struct {
	apiKey     string
	model      string
	dispatcher Dispatcher
	prompt     PromptBuilder
	logger     *observability.Logger
}

func NewGeminiAgent(apiKey, model string, dispatcher Dispatcher, prompt PromptBuilder, logger *observability.Logger) *GeminiAgent {
	return &GeminiAgent{
		apiKey:     apiKey,
		model:      model,
		dispatcher: dispatcher,
		prompt:     prompt,
		logger:     logger,
	}
}

func (g *GeminiAgent) Reply(ctx context.Context, history []sessions.Message) (string, error) {
	if len(history) == 0 {
		return "", ErrNoHistory
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "llm_model", Value: g.model})

	c, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		g.logger.Error(ctx, "failed to create gemini client", err)
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer c.Close()

	model := c.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(g.prompt.Build())}}
	model.Tools = geminiTools()

	chat := model.StartChat()
	chat.History = toGeminiHistory(history[:len(history)-1])
	parts := []genai.Part{genai.Text(history[len(history)-1].Content)}

	for round := 0; round <= MaxToolRounds; round++ {
		resp, err := chat.SendMessage(ctx, parts...)
		if err != nil {
			g.logger.Error(ctx, "gemini request failed", err)
			return "", fmt.Errorf("failed to send gemini message: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", ErrEmptyReply
		}

		calls, text := splitGeminiParts(resp.Candidates[0].Content.Parts)
		if len(calls) == 0 {
			if text == "" {
				return "", ErrEmptyReply
			}
			return text, nil
		}

		parts = make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			args, err := json.Marshal(call.Args)
			if err != nil {
				args = []byte("{}")
			}
			result := dispatchResult(ctx, g.dispatcher, g.logger, call.Name, string(args))
			parts = append(parts, genai.FunctionResponse{
				Name:     call.Name,
				Response: map[string]any{"result": result},
			})
		}
	}

	g.logger.Warn(ctx, "tool round limit reached")
	return "", ErrTooManyToolRounds
}

func splitGeminiParts(parts []genai.Part) ([]genai.FunctionCall, string) {
	var calls []genai.FunctionCall
	var text strings.Builder
	for _, part := range parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			calls = append(calls, p)
		case genai.Text:
			text.WriteString(string(p))
		}
	}
	return calls, strings.TrimSpace(text.String())
}

// toGeminiHistory maps prior turns; Gemini names the assistant role "model".
func toGeminiHistory(history []sessions.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == sessions.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

func geminiTools() []*genai.Tool {
	definitions := tools.Definitions()
	declarations := make([]*genai.FunctionDeclaration, 0, len(definitions))
	for _, def := range definitions {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  geminiSchema(def.Params),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

func geminiSchema(params []tools.Param) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(params)),
	}
	for _, p := range params {
		t := genai.TypeString
		if p.Type == tools.ParamInteger {
			t = genai.TypeInteger
		}
		schema.Properties[p.Name] = &genai.Schema{Type: t, Description: p.Description}
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}
