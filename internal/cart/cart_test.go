package cart

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tastehub/api/internal/pricing"
)

func kottu(price string) Product {
	return Product{
		ID:      uuid.New(),
		Name:    "Chicken Kottu",
		Pricing: pricing.Item{BasePrice: decimal.RequireFromString(price), SubCategory: "kottu"},
	}
}

func TestAdd_SameCustomizationMerges(t *testing.T) {
	c := New()
	p := kottu("1000")
	cust := pricing.Customization{Variant: "chicken full", SpecialItems: []string{"Extra Cheese"}}

	if _, err := c.Add(p, cust, 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := c.Add(p, cust, 1); err != nil {
		t.Fatalf("second add: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", lines[0].Quantity)
	}
	if !lines[0].UnitPrice.Equal(decimal.NewFromInt(1550)) {
		t.Errorf("unit price: got %s, want 1550", lines[0].UnitPrice)
	}
	if !c.Total().Equal(decimal.NewFromInt(3100)) {
		t.Errorf("total: got %s, want 3100", c.Total())
	}
	if c.Count() != 2 {
		t.Errorf("count: got %d, want 2", c.Count())
	}
}

func TestAdd_SpecialItemOrderDoesNotMatter(t *testing.T) {
	c := New()
	p := kottu("1000")

	c.Add(p, pricing.Customization{SpecialItems: []string{"Extra Meat", "Extra Cheese"}}, 1)
	c.Add(p, pricing.Customization{SpecialItems: []string{"Extra Cheese", "Extra Meat"}}, 1)

	if n := len(c.Lines()); n != 1 {
		t.Fatalf("lines: got %d, want 1", n)
	}
}

func TestAdd_DifferentCustomizationSplits(t *testing.T) {
	c := New()
	p := kottu("1000")

	c.Add(p, pricing.Customization{Variant: "chicken full"}, 1)
	c.Add(p, pricing.Customization{Variant: "chicken half"}, 1)
	c.Add(p, pricing.Customization{Variant: "chicken full", SpecialInstructions: "extra spicy"}, 1)

	lines := c.Lines()
	if len(lines) != 3 {
		t.Fatalf("lines: got %d, want 3", len(lines))
	}
	want := decimal.NewFromInt(1450 + 1200 + 1450)
	if !c.Total().Equal(want) {
		t.Errorf("total: got %s, want %s", c.Total(), want)
	}
}

func TestAdd_InvalidCustomization(t *testing.T) {
	c := New()

	_, err := c.Add(kottu("1000"), pricing.Customization{Variant: "lobster full"}, 1)
	if !errors.Is(err, pricing.ErrInvalidCustomization) {
		t.Fatalf("got %v, want ErrInvalidCustomization", err)
	}
	if c.Count() != 0 {
		t.Errorf("count: got %d, want 0", c.Count())
	}
}

func TestAdd_PriceFixedAtInsertion(t *testing.T) {
	c := New()
	p := kottu("1000")

	line, _ := c.Add(p, pricing.Customization{}, 1)
	p.Pricing.BasePrice = decimal.NewFromInt(5000)
	c.Add(p, pricing.Customization{}, 1)

	if !line.UnitPrice.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unit price: got %s, want 1000", line.UnitPrice)
	}
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	line, _ := c.Add(kottu("1000"), pricing.Customization{}, 1)

	c.UpdateQuantity(line.Key, 4)
	if c.Count() != 4 {
		t.Errorf("count after update: got %d, want 4", c.Count())
	}

	c.UpdateQuantity(line.Key, 0)
	if len(c.Lines()) != 0 {
		t.Errorf("lines after zero quantity: got %d, want 0", len(c.Lines()))
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	a, _ := c.Add(kottu("1000"), pricing.Customization{}, 1)
	c.Add(kottu("800"), pricing.Customization{}, 2)

	c.Remove(a.Key)
	c.Remove("missing")
	if len(c.Lines()) != 1 || c.Count() != 2 {
		t.Fatalf("after remove: lines=%d count=%d", len(c.Lines()), c.Count())
	}

	c.Clear()
	if len(c.Lines()) != 0 || !c.Total().IsZero() {
		t.Errorf("after clear: lines=%d total=%s", len(c.Lines()), c.Total())
	}
}

func TestKey_Format(t *testing.T) {
	id := uuid.MustParse("7f1c1a52-3f4e-4a55-9a77-3a2f3c1d0b9e")
	got := Key(id, pricing.Customization{
		Size:                "large",
		Variant:             "mix full",
		SpecialInstructions: "no onion",
		SpecialItems:        []string{"Extra Cheese", "Extra Meat"},
	})
	want := `7f1c1a52-3f4e-4a55-9a77-3a2f3c1d0b9e_size:"large"_ingredient:"mix full"_instructions:"no onion"_specialItems:["Extra Cheese","Extra Meat"]`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestAdd_SeparatorTextInCustomizationSplits(t *testing.T) {
	c := New()
	p := Product{
		ID:      uuid.New(),
		Name:    "Iced Coffee",
		Pricing: pricing.Item{BasePrice: decimal.RequireFromString("450")},
	}

	first := pricing.Customization{Ingredient: "x_instructions:y"}
	second := pricing.Customization{Ingredient: "x", SpecialInstructions: "y_instructions:"}
	if Key(p.ID, first) == Key(p.ID, second) {
		t.Fatalf("distinct customizations share key %q", Key(p.ID, first))
	}

	if _, err := c.Add(p, first, 1); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if _, err := c.Add(p, second, 1); err != nil {
		t.Fatalf("add second: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(lines))
	}
	if lines[1].Customization.SpecialInstructions != "y_instructions:" {
		t.Errorf("second line instructions: got %q", lines[1].Customization.SpecialInstructions)
	}
}
