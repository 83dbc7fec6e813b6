package ai

import (
	"strings"
	"testing"
)

func TestParseDirective_NoBlock(t *testing.T) {
	reply, d, err := ParseDirective("You have 12 cement bags in stock.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != nil {
		t.Errorf("no block should yield no directive")
	}
	if reply != "You have 12 cement bags in stock." {
		t.Errorf("reply altered: %q", reply)
	}
}

func TestParseDirective_AddItem(t *testing.T) {
	content := `Sure, I'll add that.
||JSON|| {"action":"add","item":{"name":"Steel Rod","category":"Construction","quantity":50,"price":"35.50","minThreshold":10}} ||END||
Anything else?`

	reply, d, err := ParseDirective(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil {
		t.Fatal("expected a directive")
	}
	if d.Action != ActionAddItem || d.Item.Name != "Steel Rod" || d.Item.Quantity != 50 {
		t.Errorf("directive = %+v", d)
	}
	price, err := d.Price()
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if price.String() != "35.5" {
		t.Errorf("price = %s, want 35.5", price)
	}
	if strings.Contains(reply, "||") {
		t.Errorf("markers leaked into reply: %q", reply)
	}
	if !strings.Contains(reply, "Sure, I'll add that.") || !strings.Contains(reply, "Anything else?") {
		t.Errorf("surrounding text lost: %q", reply)
	}
}

func TestParseDirective_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unterminated", `Answer ||JSON|| {"action":"add"}`},
		{"bad json", `Answer ||JSON|| {action: add} ||END||`},
		{"unknown action", `Answer ||JSON|| {"action":"remove","item":{"name":"X","quantity":1,"price":"1"}} ||END||`},
		{"zero quantity", `Answer ||JSON|| {"action":"add","item":{"name":"X","quantity":0,"price":"1"}} ||END||`},
		{"negative price", `Answer ||JSON|| {"action":"add","item":{"name":"X","quantity":1,"price":"-5"}} ||END||`},
		{"empty name", `Answer ||JSON|| {"action":"add","item":{"name":"  ","quantity":1,"price":"1"}} ||END||`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, d, err := ParseDirective(tt.content)
			if err == nil {
				t.Errorf("expected an error")
			}
			if d != nil {
				t.Errorf("malformed block must not yield a directive")
			}
			if !strings.Contains(reply, "Answer") {
				t.Errorf("visible answer lost: %q", reply)
			}
		})
	}
}

func TestDirective_CreateInput(t *testing.T) {
	d := &Directive{
		Action: ActionAddItem,
		Item: DirectiveItem{
			Name:     "  Hammer ",
			Category: "Tools",
			Quantity: 5,
			Price:    "199.99",
		},
	}
	in, err := d.CreateInput("wh-1", "user@example.com")
	if err != nil {
		t.Fatalf("CreateInput: %v", err)
	}
	if in.Name != "Hammer" || in.WarehouseID != "wh-1" || in.Source != "AI Assistant" {
		t.Errorf("input = %+v", in)
	}
}

func TestDirectiveSchemaJSON(t *testing.T) {
	schema := DirectiveSchemaJSON()
	for _, want := range []string{`"action"`, `"item"`, `"quantity"`, `"price"`} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %s: %s", want, schema)
		}
	}
}
