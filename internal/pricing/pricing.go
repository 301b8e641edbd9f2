// Package pricing computes the unit price of a customized menu item.
//
// The same rules back the cart quote endpoint and order creation, so a
// displayed cart total and a persisted order total always agree.
package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tastehub/api/internal/enum"
)

// Errors returned by the pricing engine.
var (
	ErrInvalidCustomization = errors.New("invalid customization")
	ErrInvalidPrice         = errors.New("price must be a non-negative number")
)

var (
	// GenericIngredientSurcharge is added once per unit when an ingredient is
	// chosen on an item without a variant table.
	GenericIngredientSurcharge = decimal.NewFromInt(50)

	// SpecialItemSurcharge is added once per unit for every selected add-on.
	SpecialItemSurcharge = decimal.NewFromInt(100)
)

// Kind tags what an ingredient selection means for a given item.
type Kind int

const (
	KindNone Kind = iota
	KindIngredientVariant
	KindGenericIngredient
)

func (k Kind) String() string {
	switch k {
	case KindIngredientVariant:
		return "ingredient_variant"
	case KindGenericIngredient:
		return "generic_ingredient"
	}
	return "none"
}

// SizeOption is one entry of an item's size price map.
type SizeOption struct {
	Price     decimal.Decimal
	Available bool
}

// Item is the part of a menu item the engine prices against.
type Item struct {
	BasePrice   decimal.Decimal
	SubCategory string
	Sizes       map[string]SizeOption
}

// Customization is the raw selection submitted for one line.
// Variant names a row of the item's variant table; Ingredient is a free-form
// choice and is looked up in the variant table when the item has one.
type Customization struct {
	Size                string   `json:"size,omitempty"`
	Variant             string   `json:"variant,omitempty"`
	Ingredient          string   `json:"ingredient,omitempty"`
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
	SpecialItems        []string `json:"specialItems,omitempty"`
}

// IsZero reports whether no customization was selected.
func (c Customization) IsZero() bool {
	return c.Size == "" && c.Variant == "" && c.Ingredient == "" &&
		c.SpecialInstructions == "" && len(c.SpecialItems) == 0
}

// Selection is a Customization validated against a specific item.
type Selection struct {
	Kind                Kind
	Name                string
	VariantPrice        decimal.Decimal
	Size                string
	SizePrice           decimal.Decimal
	SpecialInstructions string
	// SpecialItems is sorted and deduplicated. It is always empty for items
	// that do not take add-ons.
	SpecialItems []string
}

// Resolve validates c against item and returns the tagged selection.
func Resolve(item Item, c Customization) (Selection, error) {
	sel := Selection{
		SpecialInstructions: strings.TrimSpace(c.SpecialInstructions),
	}

	if c.Size != "" {
		opt, ok := item.Sizes[c.Size]
		if !ok || !opt.Available {
			return Selection{}, fmt.Errorf("%w: size %q is not offered", ErrInvalidCustomization, c.Size)
		}
		sel.Size = c.Size
		sel.SizePrice = opt.Price
	}

	table := VariantTable(item.SubCategory)
	name := strings.TrimSpace(c.Variant)
	explicit := name != ""
	if !explicit {
		name = strings.TrimSpace(c.Ingredient)
	}

	switch {
	case name == "":
		sel.Kind = KindNone
	case len(table) > 0:
		price, ok := lookupVariant(table, name)
		if !ok {
			return Selection{}, fmt.Errorf("%w: unknown variant %q for %s", ErrInvalidCustomization, name, item.SubCategory)
		}
		sel.Kind = KindIngredientVariant
		sel.Name = name
		sel.VariantPrice = price
	case explicit:
		return Selection{}, fmt.Errorf("%w: item has no variants", ErrInvalidCustomization)
	default:
		sel.Kind = KindGenericIngredient
		sel.Name = name
	}

	if AllowsSpecialItems(item.SubCategory) {
		specials, err := normalizeSpecialItems(c.SpecialItems)
		if err != nil {
			return Selection{}, err
		}
		sel.SpecialItems = specials
	}

	return sel, nil
}

// UnitPrice is the per-unit price of the selection on item.
func (s Selection) UnitPrice(item Item) decimal.Decimal {
	price := item.BasePrice
	if s.Size != "" {
		price = s.SizePrice
	}

	switch s.Kind {
	case KindIngredientVariant:
		price = s.VariantPrice
	case KindGenericIngredient:
		price = price.Add(GenericIngredientSurcharge)
	}

	n := int64(len(s.SpecialItems))
	return price.Add(SpecialItemSurcharge.Mul(decimal.NewFromInt(n)))
}

// Customization returns the normalized form of the selection, suitable for
// persisting and for computing cart keys.
func (s Selection) Customization() Customization {
	c := Customization{
		Size:                s.Size,
		SpecialInstructions: s.SpecialInstructions,
		SpecialItems:        s.SpecialItems,
	}
	switch s.Kind {
	case KindIngredientVariant:
		c.Variant = s.Name
	case KindGenericIngredient:
		c.Ingredient = s.Name
	}
	return c
}

// UnitPrice resolves c against item and returns the per-unit price.
func UnitPrice(item Item, c Customization) (decimal.Decimal, error) {
	sel, err := Resolve(item, c)
	if err != nil {
		return decimal.Zero, err
	}
	return sel.UnitPrice(item), nil
}

// LineTotal is unit × quantity.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// ParsePrice parses a menu price. It rejects negatives, NaN and anything
// that is not a plain decimal number.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}

func normalizeSpecialItems(items []string) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, raw := range items {
		name := strings.TrimSpace(raw)
		if !isSpecialItem(name) {
			return nil, fmt.Errorf("%w: unknown special item %q", ErrInvalidCustomization, raw)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func lookupVariant(table []Variant, name string) (decimal.Decimal, bool) {
	for _, v := range table {
		if strings.EqualFold(v.Name, name) {
			return v.Price, true
		}
	}
	return decimal.Zero, false
}

// AllowsSpecialItems reports whether the subcategory prices special add-ons.
func AllowsSpecialItems(subCategory string) bool {
	return subCategory == enum.SubCategoryKottu || subCategory == enum.SubCategoryPesta
}
