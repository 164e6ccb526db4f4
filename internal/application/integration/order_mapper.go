package integration

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/integration"
)

// unitPriceScale is the rounding precision for per-unit amounts.
const unitPriceScale = 4

// fallbackCurrencyCode is used when the marketplace omits the item currency.
const fallbackCurrencyCode = "EUR"

// Synthetic line display names.
const (
	shippingLineName = "Shipping"
	discountLineName = "Discount"
)

// ---------------------------------------------------------------------------
// OrderMapper
// ---------------------------------------------------------------------------

// OrderMapper transforms a remote order with its line items into the local
// order shape. It is pure apart from lookups against the entity
// collaborators; it performs no writes.
type OrderMapper struct {
	keys       integration.RemoteKeyStore
	catalog    integration.ProductCatalog
	currencies integration.CurrencyLookup
	countries  integration.CountryLookup

	locale     string
	languageID int
}

// NewOrderMapper creates a new OrderMapper. Imported orders carry the given
// storefront locale and language.
func NewOrderMapper(
	keys integration.RemoteKeyStore,
	catalog integration.ProductCatalog,
	currencies integration.CurrencyLookup,
	countries integration.CountryLookup,
	locale string,
	languageID int,
) *OrderMapper {
	return &OrderMapper{
		keys:       keys,
		catalog:    catalog,
		currencies: currencies,
		countries:  countries,
		locale:     locale,
		languageID: languageID,
	}
}

// MapOrder maps a remote order and its items to a local order. Currency and
// country lookups may miss without failing the mapping; the corresponding
// IDs stay nil.
func (m *OrderMapper) MapOrder(ctx context.Context, order *integration.RemoteOrder, items []integration.RemoteOrderItem) (*integration.LocalOrder, error) {
	addr := order.ShippingAddress

	countryID, err := m.resolveCountry(ctx, addr.CountryCode)
	if err != nil {
		return nil, err
	}

	orderAddr := integration.OrderAddress{
		Name:      addr.Name,
		Address:   addr.AddressLine1,
		Address2:  addr.AddressLine2,
		City:      addr.City,
		PostCode:  addr.PostalCode,
		StateName: addr.StateOrRegion,
		CountryID: countryID,
	}

	currencyCode := fallbackCurrencyCode
	if len(items) > 0 && items[0].ItemPrice != nil && items[0].ItemPrice.CurrencyCode != "" {
		currencyCode = items[0].ItemPrice.CurrencyCode
	}
	currencyID, err := m.resolveCurrency(ctx, currencyCode)
	if err != nil {
		return nil, err
	}

	local := &integration.LocalOrder{
		RemoteOrderID:         order.RemoteOrderID,
		RemoteStatus:          order.Status,
		CustomerEmail:         order.Buyer.Email,
		CustomerPhone:         addr.Phone,
		Billing:               orderAddr,
		Shipping:              orderAddr,
		Locale:                m.locale,
		LanguageID:            m.languageID,
		CurrencyCode:          currencyCode,
		CurrencyID:            currencyID,
		SuppressNotifications: true,
		AllowDuplicateNumber:  true,
	}

	var shippingPrice, shippingTax decimal.Decimal
	var shippingDiscount, shippingDiscountTax decimal.Decimal
	var promotionDiscount, promotionDiscountTax decimal.Decimal

	for i := range items {
		item := &items[i]

		line, err := m.mapProductLine(ctx, item)
		if err != nil {
			return nil, err
		}
		local.Lines = append(local.Lines, *line)

		shippingPrice = shippingPrice.Add(item.ShippingPrice.AmountOrZero())
		shippingTax = shippingTax.Add(item.ShippingTax.AmountOrZero())
		shippingDiscount = shippingDiscount.Add(item.ShippingDiscount.AmountOrZero())
		shippingDiscountTax = shippingDiscountTax.Add(item.ShippingDiscountTax.AmountOrZero())
		promotionDiscount = promotionDiscount.Add(item.PromotionDiscount.AmountOrZero())
		promotionDiscountTax = promotionDiscountTax.Add(item.PromotionDiscountTax.AmountOrZero())
	}

	// Shipping is accumulated net of its discount and appended as a
	// synthetic line only when the net amount is positive.
	shippingPrice = shippingPrice.Sub(shippingDiscount)
	shippingTax = shippingTax.Sub(shippingDiscountTax)

	if shippingPrice.IsPositive() {
		local.Lines = append(local.Lines, integration.LocalOrderLine{
			Type:      integration.OrderLineTypeShipping,
			Name:      shippingLineName,
			Quantity:  1,
			UnitPrice: shippingPrice,
			TaxRate:   taxRate(shippingPrice, shippingTax),
		})
	}

	if promotionDiscount.IsPositive() {
		local.Lines = append(local.Lines, integration.LocalOrderLine{
			Type:      integration.OrderLineTypeDiscount,
			Name:      discountLineName,
			Quantity:  1,
			UnitPrice: promotionDiscount,
			TaxRate:   taxRate(promotionDiscount, promotionDiscountTax),
		})
	}

	return local, nil
}

// mapProductLine maps a single remote order item to a product line,
// enriching it with the paired local product when a mapping exists.
func (m *OrderMapper) mapProductLine(ctx context.Context, item *integration.RemoteOrderItem) (*integration.LocalOrderLine, error) {
	qty := decimal.NewFromInt(item.QuantityOrdered)

	var unitPrice, unitTax decimal.Decimal
	if item.QuantityOrdered > 0 {
		unitPrice = item.ItemPrice.AmountOrZero().Div(qty).Round(unitPriceScale)
		unitTax = item.ItemTax.AmountOrZero().Div(qty).Round(unitPriceScale)
	}

	line := &integration.LocalOrderLine{
		Type:      integration.OrderLineTypeProduct,
		Name:      item.Title,
		Quantity:  item.QuantityOrdered,
		UnitPrice: unitPrice,
		TaxRate:   taxRate(unitPrice, unitTax),
	}

	localID, err := m.keys.GetLocal(ctx, integration.EntityTypeProducts, item.SellerSKU)
	if err != nil {
		if errors.Is(err, integration.ErrRemoteKeyNotFound) {
			return line, nil
		}
		return nil, err
	}

	product, err := m.catalog.FindByID(ctx, localID)
	if err != nil {
		if errors.Is(err, integration.ErrProductNotFound) {
			return line, nil
		}
		return nil, err
	}

	id := product.ID
	line.ProductID = &id
	line.Model = product.Model

	return line, nil
}

// resolveCurrency resolves a currency code, treating a miss as nil.
func (m *OrderMapper) resolveCurrency(ctx context.Context, code string) (*uuid.UUID, error) {
	id, err := m.currencies.FindIDByCode(ctx, code)
	if err != nil {
		if errors.Is(err, integration.ErrCurrencyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

// resolveCountry resolves a country code, treating a miss as nil.
func (m *OrderMapper) resolveCountry(ctx context.Context, code string) (*uuid.UUID, error) {
	if code == "" {
		return nil, nil
	}
	id, err := m.countries.FindIDByISO2(ctx, code)
	if err != nil {
		if errors.Is(err, integration.ErrCountryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

// taxRate derives the whole-percent tax rate from a gross unit price and its
// tax component: round(100 * (1 - (price - tax) / price)). A zero price
// yields a zero rate rather than a division fault.
func taxRate(unitPrice, unitTax decimal.Decimal) decimal.Decimal {
	if unitPrice.IsZero() {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	return decimal.NewFromInt(100).
		Mul(one.Sub(unitPrice.Sub(unitTax).Div(unitPrice))).
		Round(0)
}
