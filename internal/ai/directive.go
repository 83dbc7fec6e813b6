package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"stockmaster/internal/core"
)

// Directive markers. The model embeds an action block between these inside an
// otherwise plain-text answer; everything outside the markers is shown to the
// user verbatim.
const (
	directiveOpen  = "||JSON||"
	directiveClose = "||END||"
)

// ActionAddItem is the only directive action the assistant may issue.
const ActionAddItem = "add"

// DirectiveItem is the item payload of an add directive. Price is a string so
// the model cannot introduce float artifacts.
type DirectiveItem struct {
	Name         string `json:"name" jsonschema_description:"Item name"`
	Category     string `json:"category" jsonschema_description:"Item category, e.g. Electronics"`
	Quantity     int64  `json:"quantity" jsonschema_description:"Opening quantity, must be positive"`
	Price        string `json:"price" jsonschema_description:"Unit cost as a decimal string, e.g. \"49.90\""`
	MinThreshold int64  `json:"minThreshold,omitempty" jsonschema_description:"Low-stock threshold, defaults to 5"`
}

// Directive is a structured action the assistant embeds in its answer.
type Directive struct {
	Action string        `json:"action" jsonschema:"enum=add" jsonschema_description:"Action to perform"`
	Item   DirectiveItem `json:"item"`
}

// Validate checks the directive is executable before any service call.
func (d *Directive) Validate() error {
	if d.Action != ActionAddItem {
		return fmt.Errorf("unsupported directive action %q", d.Action)
	}
	if strings.TrimSpace(d.Item.Name) == "" {
		return fmt.Errorf("directive item has no name")
	}
	if d.Item.Quantity <= 0 {
		return fmt.Errorf("directive quantity %d must be positive", d.Item.Quantity)
	}
	if _, err := d.Price(); err != nil {
		return err
	}
	return nil
}

// Price parses the item price.
func (d *Directive) Price() (decimal.Decimal, error) {
	p, err := decimal.NewFromString(d.Item.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad directive price %q: %w", d.Item.Price, err)
	}
	if p.IsNegative() {
		return decimal.Zero, fmt.Errorf("directive price %s is negative", d.Item.Price)
	}
	return p, nil
}

// CreateInput converts the directive into a stock service input.
func (d *Directive) CreateInput(warehouseID, userEmail string) (core.CreateItemInput, error) {
	price, err := d.Price()
	if err != nil {
		return core.CreateItemInput{}, err
	}
	return core.CreateItemInput{
		WarehouseID:  warehouseID,
		Name:         strings.TrimSpace(d.Item.Name),
		Category:     d.Item.Category,
		Quantity:     d.Item.Quantity,
		Price:        price,
		MinThreshold: d.Item.MinThreshold,
		Source:       "AI Assistant",
		UserEmail:    userEmail,
	}, nil
}

// ParseDirective splits a model answer into the user-visible reply and an
// optional embedded directive. A malformed block is treated as absent: the
// reply keeps the raw text and err describes the problem, so a bad directive
// never blocks the conversational answer.
func ParseDirective(content string) (reply string, d *Directive, err error) {
	start := strings.Index(content, directiveOpen)
	if start < 0 {
		return strings.TrimSpace(content), nil, nil
	}
	rest := content[start+len(directiveOpen):]
	end := strings.Index(rest, directiveClose)
	if end < 0 {
		return strings.TrimSpace(content), nil, fmt.Errorf("directive block not terminated")
	}

	payload := strings.TrimSpace(rest[:end])
	reply = strings.TrimSpace(content[:start] + rest[end+len(directiveClose):])

	var parsed Directive
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return reply, nil, fmt.Errorf("failed to parse directive: %w", err)
	}
	if err := parsed.Validate(); err != nil {
		return reply, nil, err
	}
	return reply, &parsed, nil
}

// DirectiveSchemaJSON renders the directive JSON schema for embedding in the
// system prompt, so the model sees the exact shape it must produce.
func DirectiveSchemaJSON() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema, err := json.Marshal(reflector.Reflect(Directive{}))
	if err != nil {
		// Reflection over a static struct cannot fail at runtime.
		panic(fmt.Sprintf("directive schema: %v", err))
	}
	return string(schema)
}
