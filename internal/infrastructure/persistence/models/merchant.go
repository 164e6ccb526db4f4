package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/integration"
)

// ProductModel is the slice of the merchant product table the engine reads
// and writes.
type ProductModel struct {
	ID    uuid.UUID       `gorm:"type:uuid;primary_key"`
	Model string          `gorm:"type:varchar(100)"`
	EAN   string          `gorm:"type:varchar(20);index:idx_products_ean"`
	Stock decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	// AmazonAvailability is the stock value last published to the
	// marketplace, stored as text; empty when never published
	AmazonAvailability string    `gorm:"type:varchar(20);not null;default:''"`
	Active             bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain CatalogProduct.
func (m *ProductModel) ToDomain() *integration.CatalogProduct {
	return &integration.CatalogProduct{
		ID:                      m.ID,
		Model:                   m.Model,
		EAN:                     m.EAN,
		Stock:                   m.Stock,
		MarketplaceAvailability: m.AmazonAvailability,
	}
}

// OrderModel is the persistence model for imported marketplace orders.
type OrderModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	RemoteOrderID string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_orders_remote_order"`
	RemoteStatus  string    `gorm:"type:varchar(40);not null"`

	CustomerEmail string `gorm:"type:varchar(255)"`
	CustomerPhone string `gorm:"type:varchar(40)"`

	BillingName      string     `gorm:"type:varchar(255)"`
	BillingAddress   string     `gorm:"type:varchar(255)"`
	BillingAddress2  string     `gorm:"type:varchar(255)"`
	BillingCity      string     `gorm:"type:varchar(100)"`
	BillingPostCode  string     `gorm:"type:varchar(20)"`
	BillingState     string     `gorm:"type:varchar(100)"`
	BillingCountryID *uuid.UUID `gorm:"type:uuid"`

	ShippingName      string     `gorm:"type:varchar(255)"`
	ShippingAddress   string     `gorm:"type:varchar(255)"`
	ShippingAddress2  string     `gorm:"type:varchar(255)"`
	ShippingCity      string     `gorm:"type:varchar(100)"`
	ShippingPostCode  string     `gorm:"type:varchar(20)"`
	ShippingState     string     `gorm:"type:varchar(100)"`
	ShippingCountryID *uuid.UUID `gorm:"type:uuid"`

	Locale       string     `gorm:"type:varchar(10)"`
	LanguageID   int        `gorm:"not null;default:0"`
	CurrencyCode string     `gorm:"type:varchar(3);not null"`
	CurrencyID   *uuid.UUID `gorm:"type:uuid"`

	SuppressNotifications bool `gorm:"not null;default:false"`
	AllowDuplicateNumber  bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Lines []OrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// FromDomain populates the persistence model from a mapped local order.
// Line models are filled in collection order.
func (m *OrderModel) FromDomain(order *integration.LocalOrder) {
	m.RemoteOrderID = order.RemoteOrderID
	m.RemoteStatus = order.RemoteStatus
	m.CustomerEmail = order.CustomerEmail
	m.CustomerPhone = order.CustomerPhone

	m.BillingName = order.Billing.Name
	m.BillingAddress = order.Billing.Address
	m.BillingAddress2 = order.Billing.Address2
	m.BillingCity = order.Billing.City
	m.BillingPostCode = order.Billing.PostCode
	m.BillingState = order.Billing.StateName
	m.BillingCountryID = order.Billing.CountryID

	m.ShippingName = order.Shipping.Name
	m.ShippingAddress = order.Shipping.Address
	m.ShippingAddress2 = order.Shipping.Address2
	m.ShippingCity = order.Shipping.City
	m.ShippingPostCode = order.Shipping.PostCode
	m.ShippingState = order.Shipping.StateName
	m.ShippingCountryID = order.Shipping.CountryID

	m.Locale = order.Locale
	m.LanguageID = order.LanguageID
	m.CurrencyCode = order.CurrencyCode
	m.CurrencyID = order.CurrencyID
	m.SuppressNotifications = order.SuppressNotifications
	m.AllowDuplicateNumber = order.AllowDuplicateNumber

	m.Lines = make([]OrderLineModel, 0, len(order.Lines))
	for i, line := range order.Lines {
		m.Lines = append(m.Lines, OrderLineModel{
			Position:  i + 1,
			Type:      string(line.Type),
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.TaxRate,
			ProductID: line.ProductID,
			Model:     line.Model,
		})
	}
}

// OrderLineModel is one line of an imported order.
type OrderLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_order_lines_order"`
	Position  int             `gorm:"not null"`
	Type      string          `gorm:"type:varchar(20);not null"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	ProductID *uuid.UUID      `gorm:"type:uuid"`
	Model     string          `gorm:"type:varchar(100)"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// CurrencyModel is the shop currency table.
type CurrencyModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Code string    `gorm:"type:varchar(3);not null;uniqueIndex:idx_currencies_code"`
	Name string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// CountryModel is the shop country table.
type CountryModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	ISO2 string    `gorm:"type:varchar(2);not null;uniqueIndex:idx_countries_iso2;column:iso2"`
	Name string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CountryModel) TableName() string {
	return "countries"
}
