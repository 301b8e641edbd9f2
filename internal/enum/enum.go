package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out-for-delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	ReservationStatusPending   = "Pending"
	ReservationStatusConfirmed = "Confirmed"
	ReservationStatusCancelled = "Cancelled"
)

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleCustomer = "customer"
	UserRoleAdmin    = "admin"
)

const (
	PaymentMethodCreditCard     = "credit-card"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodCashOnDelivery = "cash-on-delivery"
)

const (
	CategoryStarter = "starter"
	CategoryMain    = "main"
	CategoryDessert = "dessert"
	CategoryDrink   = "drink"
)

// ── Group B: Configurable labels (no DB constraint) ──

const (
	SubCategoryRice      = "rice"
	SubCategoryKottu     = "kottu"
	SubCategoryPesta     = "pesta"
	SubCategoryNoodles   = "noodles"
	SubCategoryChicken   = "chicken"
	SubCategoryMix       = "mix"
	SubCategorySeafood   = "seafood"
	SubCategoryVegetable = "vegetable"
	SubCategoryCheese    = "cheese"
)

const (
	SizeSmall = "small"
	SizeLarge = "large"
)

// IsCategory reports whether s is a known menu category.
func IsCategory(s string) bool {
	switch s {
	case CategoryStarter, CategoryMain, CategoryDessert, CategoryDrink:
		return true
	}
	return false
}

// IsSubCategory reports whether s is a known menu subcategory.
func IsSubCategory(s string) bool {
	switch s {
	case SubCategoryRice, SubCategoryKottu, SubCategoryPesta, SubCategoryNoodles,
		SubCategoryChicken, SubCategoryMix, SubCategorySeafood,
		SubCategoryVegetable, SubCategoryCheese:
		return true
	}
	return false
}

func IsOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func IsPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCreditCard, PaymentMethodPaypal, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

func IsPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

func IsReservationStatus(s string) bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	}
	return false
}

func IsContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusArchived:
		return true
	}
	return false
}
