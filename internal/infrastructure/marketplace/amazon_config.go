package marketplace

import "errors"

// MarketplaceNames maps Amazon marketplace IDs to their display names. Only
// marketplaces under the same regional endpoint may be active together.
var MarketplaceNames = map[string]string{
	// North America
	"A2Q3Y263D00KWC": "Brazil",
	"A2EUQ1WTGCTBG2": "Canada",
	"A1AM78C64UM0Y8": "Mexico",
	"ATVPDKIKX0DER":  "US",
	// Europe
	"A2VIGQ35RCS4UG": "U.A.E.",
	"A1PA6795UKMFR9": "Germany",
	"ARBP9OOSHTCHU":  "Egypt",
	"A1RKKUPIHCS9HS": "Spain",
	"A13V1IB3VIYZZH": "France",
	"A1F83G8C2ARO7P": "UK",
	"A21TJRUUN4KGV":  "India",
	"APJ6JRA9NG5V4":  "Italy",
	"A1805IZSGTT6HS": "Netherlands",
	"A1C3SOZRARQ6R3": "Poland",
	"A17E79C6D8DWNP": "Saudi Arabia",
	"A2NODRKZP88ZB9": "Sweden",
	"A33AVAJ2PDY3EV": "Turkey",
	// Far East
	"A19VAU5U5O7RUS": "Singapore",
	"A39IBJ37TRP1C6": "Australia",
	"A1VC38T7YXB528": "Japan",
}

// Regional Selling Partner API endpoints.
const (
	EndpointNorthAmerica = "https://sellingpartnerapi-na.amazon.com"
	EndpointEurope       = "https://sellingpartnerapi-eu.amazon.com"
	EndpointFarEast      = "https://sellingpartnerapi-fe.amazon.com"

	// LWATokenURL is the Login with Amazon token endpoint
	LWATokenURL = "https://api.amazon.com/auth/o2/token"
)

// marketplaceEndpoints maps each marketplace ID to its regional endpoint.
var marketplaceEndpoints = map[string]string{
	"A2Q3Y263D00KWC": EndpointNorthAmerica,
	"A2EUQ1WTGCTBG2": EndpointNorthAmerica,
	"A1AM78C64UM0Y8": EndpointNorthAmerica,
	"ATVPDKIKX0DER":  EndpointNorthAmerica,
	"A2VIGQ35RCS4UG": EndpointEurope,
	"A1PA6795UKMFR9": EndpointEurope,
	"ARBP9OOSHTCHU":  EndpointEurope,
	"A1RKKUPIHCS9HS": EndpointEurope,
	"A13V1IB3VIYZZH": EndpointEurope,
	"A1F83G8C2ARO7P": EndpointEurope,
	"A21TJRUUN4KGV":  EndpointEurope,
	"APJ6JRA9NG5V4":  EndpointEurope,
	"A1805IZSGTT6HS": EndpointEurope,
	"A1C3SOZRARQ6R3": EndpointEurope,
	"A17E79C6D8DWNP": EndpointEurope,
	"A2NODRKZP88ZB9": EndpointEurope,
	"A33AVAJ2PDY3EV": EndpointEurope,
	"A19VAU5U5O7RUS": EndpointFarEast,
	"A39IBJ37TRP1C6": EndpointFarEast,
	"A1VC38T7YXB528": EndpointFarEast,
}

// EndpointForMarketplace returns the regional API endpoint serving a
// marketplace ID, or an empty string for an unknown ID.
func EndpointForMarketplace(marketplaceID string) string {
	return marketplaceEndpoints[marketplaceID]
}

// Errors for Amazon configuration
var (
	ErrConfigMissingSellerID        = errors.New("amazon: seller ID is required")
	ErrConfigMissingClientID        = errors.New("amazon: LWA client ID is required")
	ErrConfigMissingClientSecret    = errors.New("amazon: LWA client secret is required")
	ErrConfigMissingRefreshToken    = errors.New("amazon: LWA refresh token is required")
	ErrConfigMissingMarketplaces    = errors.New("amazon: at least one marketplace is required")
	ErrConfigUnknownMarketplace     = errors.New("amazon: unknown marketplace ID")
	ErrConfigMixedEndpoints         = errors.New("amazon: marketplaces must share one regional endpoint")
	ErrConfigMainMarketplaceMissing = errors.New("amazon: main marketplace must be among the active marketplaces")
)

// AmazonConfig holds the credentials and scope of one Selling Partner API
// connection.
type AmazonConfig struct {
	// SellerID is the merchant identifier carried in outbound feeds
	SellerID string
	// ClientID is the LWA application client ID
	ClientID string
	// ClientSecret is the LWA application client secret
	ClientSecret string
	// RefreshToken is the LWA refresh token of the authorized seller
	RefreshToken string
	// MainMarketplaceID is the marketplace reports are generated for
	MainMarketplaceID string
	// MarketplaceIDs are the active marketplaces, all on one endpoint
	MarketplaceIDs []string
	// Endpoint is the regional API endpoint, derived from the first active
	// marketplace when empty
	Endpoint string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// InsecureUpload disables TLS certificate verification on the feed
	// document upload client only. Escape hatch for broken intermediate
	// proxies, must stay off in production.
	InsecureUpload bool
}

// Validate validates the Amazon configuration and derives the endpoint.
func (c *AmazonConfig) Validate() error {
	if c.SellerID == "" {
		return ErrConfigMissingSellerID
	}
	if c.ClientID == "" {
		return ErrConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrConfigMissingClientSecret
	}
	if c.RefreshToken == "" {
		return ErrConfigMissingRefreshToken
	}
	if len(c.MarketplaceIDs) == 0 {
		return ErrConfigMissingMarketplaces
	}

	endpoint := EndpointForMarketplace(c.MarketplaceIDs[0])
	mainActive := false
	for _, id := range c.MarketplaceIDs {
		e := EndpointForMarketplace(id)
		if e == "" {
			return ErrConfigUnknownMarketplace
		}
		if e != endpoint {
			return ErrConfigMixedEndpoints
		}
		if id == c.MainMarketplaceID {
			mainActive = true
		}
	}
	if !mainActive {
		return ErrConfigMainMarketplaceMissing
	}

	if c.Endpoint == "" {
		c.Endpoint = endpoint
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
