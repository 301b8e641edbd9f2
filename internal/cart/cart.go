// Package cart aggregates customized menu selections before checkout.
package cart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tastehub/api/internal/pricing"
)

// Product is a menu item as the cart sees it.
type Product struct {
	ID      uuid.UUID
	Name    string
	Pricing pricing.Item
}

// Line is one cart entry. UnitPrice is fixed when the line is first added.
type Line struct {
	Key           string
	MenuItemID    uuid.UUID
	Name          string
	Customization pricing.Customization
	UnitPrice     decimal.Decimal
	Quantity      int
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return pricing.LineTotal(l.UnitPrice, l.Quantity)
}

// Cart is not safe for concurrent use.
type Cart struct {
	lines []*Line
	index map[string]*Line
}

func New() *Cart {
	return &Cart{index: make(map[string]*Line)}
}

// Key identifies a line by item and normalized customization. Every
// free-form part is quoted so no two customizations share a key.
func Key(menuItemID uuid.UUID, c pricing.Customization) string {
	variant := c.Variant
	if variant == "" {
		variant = c.Ingredient
	}
	specials := make([]string, len(c.SpecialItems))
	for i, s := range c.SpecialItems {
		specials[i] = strconv.Quote(s)
	}
	return fmt.Sprintf("%s_size:%s_ingredient:%s_instructions:%s_specialItems:[%s]",
		menuItemID, strconv.Quote(c.Size), strconv.Quote(variant),
		strconv.Quote(c.SpecialInstructions), strings.Join(specials, ","))
}

// Add prices the selection and merges it into an existing line with the
// same key, or appends a new line.
func (c *Cart) Add(p Product, cust pricing.Customization, quantity int) (*Line, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be >= 1")
	}

	sel, err := pricing.Resolve(p.Pricing, cust)
	if err != nil {
		return nil, err
	}
	normalized := sel.Customization()
	key := Key(p.ID, normalized)

	if line, ok := c.index[key]; ok {
		line.Quantity += quantity
		return line, nil
	}

	line := &Line{
		Key:           key,
		MenuItemID:    p.ID,
		Name:          p.Name,
		Customization: normalized,
		UnitPrice:     sel.UnitPrice(p.Pricing),
		Quantity:      quantity,
	}
	c.lines = append(c.lines, line)
	c.index[key] = line
	return line, nil
}

// Remove deletes the line with key. Unknown keys are ignored.
func (c *Cart) Remove(key string) {
	if _, ok := c.index[key]; !ok {
		return
	}
	delete(c.index, key)
	for i, line := range c.lines {
		if line.Key == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
}

// UpdateQuantity sets the quantity of a line; values below 1 remove it.
func (c *Cart) UpdateQuantity(key string, quantity int) {
	if quantity < 1 {
		c.Remove(key)
		return
	}
	if line, ok := c.index[key]; ok {
		line.Quantity = quantity
	}
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, line := range c.lines {
		out[i] = *line
	}
	return out
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]*Line)
}
