package marketplace

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/integration"
)

// Wire types for the Selling Partner API JSON payloads. Only the fields the
// engine consumes are declared.

type lwaTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

type errorList struct {
	Errors []apiError `json:"errors"`
}

// ---------------------------------------------------------------------------
// Orders API
// ---------------------------------------------------------------------------

type spMoney struct {
	CurrencyCode string `json:"CurrencyCode"`
	Amount       string `json:"Amount"`
}

func (m *spMoney) toDomain() *integration.Money {
	if m == nil {
		return nil
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil
	}
	return &integration.Money{Amount: amount, CurrencyCode: m.CurrencyCode}
}

type spAddress struct {
	Name          string `json:"Name"`
	AddressLine1  string `json:"AddressLine1"`
	AddressLine2  string `json:"AddressLine2"`
	City          string `json:"City"`
	PostalCode    string `json:"PostalCode"`
	StateOrRegion string `json:"StateOrRegion"`
	CountryCode   string `json:"CountryCode"`
	Phone         string `json:"Phone"`
}

type spBuyerInfo struct {
	BuyerEmail string `json:"BuyerEmail"`
}

type spOrder struct {
	AmazonOrderID   string       `json:"AmazonOrderId"`
	OrderStatus     string       `json:"OrderStatus"`
	PurchaseDate    time.Time    `json:"PurchaseDate"`
	BuyerInfo       *spBuyerInfo `json:"BuyerInfo"`
	ShippingAddress *spAddress   `json:"ShippingAddress"`
}

func (o *spOrder) toDomain() integration.RemoteOrder {
	order := integration.RemoteOrder{
		RemoteOrderID: o.AmazonOrderID,
		Status:        o.OrderStatus,
		PurchaseDate:  o.PurchaseDate,
	}
	if o.BuyerInfo != nil {
		order.Buyer = integration.RemoteBuyer{Email: o.BuyerInfo.BuyerEmail}
	}
	if o.ShippingAddress != nil {
		order.ShippingAddress = integration.RemoteAddress{
			Name:          o.ShippingAddress.Name,
			AddressLine1:  o.ShippingAddress.AddressLine1,
			AddressLine2:  o.ShippingAddress.AddressLine2,
			City:          o.ShippingAddress.City,
			PostalCode:    o.ShippingAddress.PostalCode,
			StateOrRegion: o.ShippingAddress.StateOrRegion,
			CountryCode:   o.ShippingAddress.CountryCode,
			Phone:         o.ShippingAddress.Phone,
		}
	}
	return order
}

type getOrdersPayload struct {
	Orders    []spOrder `json:"Orders"`
	NextToken string    `json:"NextToken"`
}

type getOrdersResponse struct {
	Payload *getOrdersPayload `json:"payload"`
	errorList
}

type spOrderItem struct {
	SellerSKU            string   `json:"SellerSKU"`
	Title                string   `json:"Title"`
	QuantityOrdered      int64    `json:"QuantityOrdered"`
	ItemPrice            *spMoney `json:"ItemPrice"`
	ItemTax              *spMoney `json:"ItemTax"`
	ShippingPrice        *spMoney `json:"ShippingPrice"`
	ShippingTax          *spMoney `json:"ShippingTax"`
	ShippingDiscount     *spMoney `json:"ShippingDiscount"`
	ShippingDiscountTax  *spMoney `json:"ShippingDiscountTax"`
	PromotionDiscount    *spMoney `json:"PromotionDiscount"`
	PromotionDiscountTax *spMoney `json:"PromotionDiscountTax"`
}

func (i *spOrderItem) toDomain() integration.RemoteOrderItem {
	return integration.RemoteOrderItem{
		SellerSKU:            i.SellerSKU,
		Title:                i.Title,
		QuantityOrdered:      i.QuantityOrdered,
		ItemPrice:            i.ItemPrice.toDomain(),
		ItemTax:              i.ItemTax.toDomain(),
		ShippingPrice:        i.ShippingPrice.toDomain(),
		ShippingTax:          i.ShippingTax.toDomain(),
		ShippingDiscount:     i.ShippingDiscount.toDomain(),
		ShippingDiscountTax:  i.ShippingDiscountTax.toDomain(),
		PromotionDiscount:    i.PromotionDiscount.toDomain(),
		PromotionDiscountTax: i.PromotionDiscountTax.toDomain(),
	}
}

type getOrderItemsPayload struct {
	OrderItems []spOrderItem `json:"OrderItems"`
	NextToken  string        `json:"NextToken"`
}

type getOrderItemsResponse struct {
	Payload *getOrderItemsPayload `json:"payload"`
	errorList
}

// ---------------------------------------------------------------------------
// Reports API
// ---------------------------------------------------------------------------

type createReportRequest struct {
	ReportType     string   `json:"reportType"`
	MarketplaceIDs []string `json:"marketplaceIds"`
}

type createReportResponse struct {
	ReportID string `json:"reportId"`
	errorList
}

type getReportResponse struct {
	ReportID         string `json:"reportId"`
	ProcessingStatus string `json:"processingStatus"`
	ReportDocumentID string `json:"reportDocumentId"`
	errorList
}

type reportDocumentResponse struct {
	ReportDocumentID     string `json:"reportDocumentId"`
	URL                  string `json:"url"`
	CompressionAlgorithm string `json:"compressionAlgorithm"`
	errorList
}

// ---------------------------------------------------------------------------
// Feeds API
// ---------------------------------------------------------------------------

type createFeedDocumentRequest struct {
	ContentType string `json:"contentType"`
}

type createFeedDocumentResponse struct {
	FeedDocumentID string `json:"feedDocumentId"`
	URL            string `json:"url"`
	errorList
}

type createFeedRequest struct {
	FeedType            string   `json:"feedType"`
	MarketplaceIDs      []string `json:"marketplaceIds"`
	InputFeedDocumentID string   `json:"inputFeedDocumentId"`
}

type createFeedResponse struct {
	FeedID string `json:"feedId"`
	errorList
}

type getFeedResponse struct {
	FeedID               string `json:"feedId"`
	ProcessingStatus     string `json:"processingStatus"`
	ResultFeedDocumentID string `json:"resultFeedDocumentId"`
	errorList
}

type feedDocumentResponse struct {
	FeedDocumentID       string `json:"feedDocumentId"`
	URL                  string `json:"url"`
	CompressionAlgorithm string `json:"compressionAlgorithm"`
	errorList
}
