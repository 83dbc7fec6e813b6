package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"stockmaster/internal/core"
)

// ApologyMessage is the fixed reply when the model call fails. The caller
// logs the underlying error; the user only ever sees this.
const ApologyMessage = "Sorry, I'm having trouble responding right now. Please try again."

// contextItemLimit caps how many ledger rows go into the prompt.
const contextItemLimit = 50

// Reply is one assistant turn: the conversational answer plus an optional
// structured action extracted from it.
type Reply struct {
	Answer    string
	Directive *Directive
}

// AssistantService answers inventory questions grounded in a ledger snapshot
// and may propose adding an item via an embedded directive.
type AssistantService interface {
	Ask(ctx context.Context, question string, items []core.StockItem, history []core.ChatMessage) (*Reply, error)
}

// Disabled is the AssistantService used when no API key is configured.
// Every question fails, which surfaces to users as the standard apology.
type Disabled struct{}

func (Disabled) Ask(ctx context.Context, question string, items []core.StockItem, history []core.ChatMessage) (*Reply, error) {
	return nil, fmt.Errorf("assistant is not configured")
}

type Assistant struct {
	client *openai.Client
	model  shared.ResponsesModel
}

// NewAssistant builds an assistant against the OpenAI Responses API. model
// may be empty, in which case gpt-4o is used.
func NewAssistant(apiKey, model string) *Assistant {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	m := shared.ResponsesModel(model)
	if model == "" {
		m = shared.ResponsesModel(shared.ChatModelGPT4o)
	}
	return &Assistant{client: &client, model: m}
}

func (a *Assistant) Ask(ctx context.Context, question string, items []core.StockItem, history []core.ChatMessage) (*Reply, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty: %w", core.ErrMissingField)
	}

	prompt := buildPrompt(question, items, history)

	resp, err := a.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: a.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	answer, directive, err := ParseDirective(content)
	if err != nil {
		// Keep the visible answer; the directive alone is discarded.
		return &Reply{Answer: answer}, nil
	}
	return &Reply{Answer: answer, Directive: directive}, nil
}

func buildPrompt(question string, items []core.StockItem, history []core.ChatMessage) string {
	var b strings.Builder
	b.WriteString(`You are an inventory management assistant for a multi-warehouse stock system.
Answer questions about the inventory below concisely and accurately.

When the user clearly asks you to ADD a new item to stock, append an action block
to your answer in exactly this form:
`)
	b.WriteString(directiveOpen)
	b.WriteString(` {"action":"add","item":{"name":"...","category":"...","quantity":1,"price":"0.00","minThreshold":5}} `)
	b.WriteString(directiveClose)
	b.WriteString("\nThe block must match this JSON schema:\n")
	b.WriteString(DirectiveSchemaJSON())
	b.WriteString(`
Rules:
1. Emit at most one action block, and only for explicit add requests.
2. Never invent stock numbers; use only the inventory listed below.
3. Prices are decimal strings.

Current inventory:
`)

	shown := items
	if len(shown) > contextItemLimit {
		shown = shown[:contextItemLimit]
	}
	if len(shown) == 0 {
		b.WriteString("(no items)\n")
	}
	for _, it := range shown {
		fmt.Fprintf(&b, "- %s | category %s | qty %d | unit price %s | low-stock threshold %d\n",
			it.Name, it.Category, it.Quantity, it.Price.String(), it.MinThreshold)
	}
	if len(items) > contextItemLimit {
		fmt.Fprintf(&b, "(%d more items omitted)\n", len(items)-contextItemLimit)
	}

	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
