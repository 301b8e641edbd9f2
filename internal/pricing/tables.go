package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/tastehub/api/internal/enum"
)

// Variant is a named configuration whose price replaces the base price.
type Variant struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func v(name string, price int64) Variant {
	return Variant{Name: name, Price: decimal.NewFromInt(price)}
}

var riceVariants = []Variant{
	v("chicken half", 1200),
	v("chicken full", 1450),
	v("mix half", 1650),
	v("mix full", 1800),
	v("seafood half", 2100),
	v("seafood full", 2500),
	v("vegetable half", 650),
	v("vegetable full", 800),
}

var kottuVariants = append([]Variant{
	v("cheese half", 1800),
	v("cheese full", 2000),
}, riceVariants...)

var noodleVariants = []Variant{
	v("chicken half", 800),
	v("chicken full", 1000),
	v("mix half", 1200),
	v("mix full", 1800),
	v("seafood half", 1600),
	v("seafood full", 1800),
	v("vegetable half", 500),
	v("vegetable full", 700),
}

var pestaVariants = append([]Variant{
	v("cheese half", 1400),
	v("cheese full", 1600),
}, noodleVariants...)

var variantTables = map[string][]Variant{
	enum.SubCategoryRice:    riceVariants,
	enum.SubCategoryKottu:   kottuVariants,
	enum.SubCategoryPesta:   pestaVariants,
	enum.SubCategoryNoodles: noodleVariants,
}

// SpecialItems lists the add-ons offered on kottu and pesta.
var SpecialItems = []string{"Extra Meat", "Extra Seafood", "Extra Cheese"}

// VariantTable returns the variant table for a subcategory, or nil when the
// subcategory has none. The returned slice must not be modified.
func VariantTable(subCategory string) []Variant {
	return variantTables[subCategory]
}

func isSpecialItem(name string) bool {
	for _, s := range SpecialItems {
		if s == name {
			return true
		}
	}
	return false
}
