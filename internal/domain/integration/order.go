package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Remote Order Value Objects
// ---------------------------------------------------------------------------

// Money is a marketplace monetary amount with its currency code.
type Money struct {
	// Amount is the monetary value
	Amount decimal.Decimal
	// CurrencyCode is the ISO 4217 currency code
	CurrencyCode string
}

// AmountOrZero returns the amount, treating a nil Money as zero. The
// marketplace omits price components that do not apply to an item.
func (m *Money) AmountOrZero() decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	return m.Amount
}

// RemoteAddress is the shipping address attached to a marketplace order.
type RemoteAddress struct {
	Name          string
	AddressLine1  string
	AddressLine2  string
	City          string
	PostalCode    string
	StateOrRegion string
	CountryCode   string
	Phone         string
}

// RemoteBuyer carries the buyer information the marketplace exposes.
type RemoteBuyer struct {
	Email string
}

// RemoteOrder is an immutable snapshot of a marketplace order, fetched once
// per order during an import pass.
type RemoteOrder struct {
	// RemoteOrderID is the marketplace order identifier
	RemoteOrderID string
	// Status is the marketplace order status, e.g. "Unshipped"
	Status string
	// PurchaseDate is when the order was placed
	PurchaseDate time.Time
	// Buyer carries buyer contact information
	Buyer RemoteBuyer
	// ShippingAddress is the delivery address
	ShippingAddress RemoteAddress
}

// RemoteOrderItem is one line of a marketplace order. Price components are
// nil when the marketplace omits them.
type RemoteOrderItem struct {
	// SellerSKU is the merchant SKU listed on the marketplace
	SellerSKU string
	// Title is the listing title
	Title string
	// QuantityOrdered is the ordered quantity
	QuantityOrdered int64

	ItemPrice            *Money
	ItemTax              *Money
	ShippingPrice        *Money
	ShippingTax          *Money
	ShippingDiscount     *Money
	ShippingDiscountTax  *Money
	PromotionDiscount    *Money
	PromotionDiscountTax *Money
}

// ---------------------------------------------------------------------------
// Local Order Shape
// ---------------------------------------------------------------------------

// OrderLineType distinguishes product lines from the synthetic shipping and
// discount lines appended during mapping.
type OrderLineType string

const (
	// OrderLineTypeProduct is a regular product line
	OrderLineTypeProduct OrderLineType = "product"
	// OrderLineTypeShipping is the accumulated net shipping line
	OrderLineTypeShipping OrderLineType = "shipping"
	// OrderLineTypeDiscount is the accumulated net promotion discount line
	OrderLineTypeDiscount OrderLineType = "discount"
)

// LocalOrderLine is one line of a mapped local order.
type LocalOrderLine struct {
	// Type classifies the line
	Type OrderLineType
	// Name is the display name of the line
	Name string
	// Quantity is the line quantity
	Quantity int64
	// UnitPrice is the gross unit price, rounded to 4 decimal places
	UnitPrice decimal.Decimal
	// TaxRate is the whole-percent tax rate derived from unit price and tax
	TaxRate decimal.Decimal
	// ProductID references the paired local product, when known
	ProductID *uuid.UUID
	// Model is the local product model code, when known
	Model string
}

// OrderAddress is a billing or shipping address on the local order.
type OrderAddress struct {
	Name      string
	Address   string
	Address2  string
	City      string
	PostCode  string
	StateName string
	CountryID *uuid.UUID
}

// LocalOrder is the local entity shape a remote order maps to. It is
// write-once: the engine never updates an order it already imported.
type LocalOrder struct {
	// RemoteOrderID is the marketplace order identifier
	RemoteOrderID string
	// RemoteStatus is the marketplace order status at import time
	RemoteStatus string

	CustomerEmail string
	CustomerPhone string

	Billing  OrderAddress
	Shipping OrderAddress

	// Locale is the storefront locale assigned to imported orders
	Locale string
	// LanguageID is the storefront language assigned to imported orders
	LanguageID int
	// CurrencyCode is the order currency, taken from the first line item
	CurrencyCode string
	// CurrencyID references the local currency, when resolvable
	CurrencyID *uuid.UUID

	// SuppressNotifications keeps the shop from emailing the customer about
	// an order that already exists on the marketplace
	SuppressNotifications bool
	// AllowDuplicateNumber permits order numbers colliding with shop orders
	AllowDuplicateNumber bool

	// Lines are the order lines, product lines first, synthetic lines last
	Lines []LocalOrderLine
}
