package integration

// ---------------------------------------------------------------------------
// EntityType
// ---------------------------------------------------------------------------

// EntityType identifies a synchronized record family. The set is closed:
// every pass, remote key and watermark is keyed by one of these values.
type EntityType string

const (
	// EntityTypeOrders is the inbound marketplace order stream
	EntityTypeOrders EntityType = "Orders"
	// EntityTypeProducts is the inbound merchant listings report
	EntityTypeProducts EntityType = "Products"
	// EntityTypeProductAvailabilities is the outbound inventory feed
	EntityTypeProductAvailabilities EntityType = "ProductAvailabilities"
)

// IsValid returns true if the entity type is valid
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeOrders, EntityTypeProducts, EntityTypeProductAvailabilities:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// ScratchName returns the stable per-entity-type filename under which a
// downloaded document is staged. Distinct names keep concurrent passes over
// different entity types from clobbering each other's documents.
func (t EntityType) ScratchName() string {
	switch t {
	case EntityTypeProducts:
		return "amazon-report.csv"
	case EntityTypeProductAvailabilities:
		return "amazon-feed-report.xml"
	default:
		return "amazon-" + string(t) + ".dat"
	}
}
