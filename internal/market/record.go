package market

// Market status values produced by extraction and normalization.
const (
	StatusActive  = "Active"
	StatusClosed  = "Closed"
	StatusUnknown = "Unknown"
)

// Defaults substituted when a field cannot be extracted or is missing upstream.
const (
	DefaultTitle       = "Unknown Market"
	DefaultDescription = "No description available"
	DefaultVolume      = "Volume not found"
	DefaultLiquidity   = "Liquidity not found"
	DefaultEndDate     = "End date not found"
	NotAvailable       = "N/A"
)

// Record is the canonical snapshot of a market event at one point in time.
// Volume, Liquidity and EndDate are free text as found on the page (currency
// prefix and all); Status is one of the Status* constants.
type Record struct {
	Timestamp   string
	Title       string
	URL         string
	Description string
	Status      string
	Volume      string
	Liquidity   string
	EndDate     string
	Markets     []SubMarket
}

// SubMarket is one question within an event, with its tradeable outcomes.
type SubMarket struct {
	Question string
	Outcomes []Outcome
}

// Snapshot pairs the two views of one cycle's data: the nested record for
// document sinks and the flat row for tabular sinks. Row may be nil, in
// which case tabular sinks flatten the record themselves.
type Snapshot struct {
	Record *Record
	Row    *Row
}

// Outcome is one possible resolution of a sub-market. Price is nil when no
// numeric value could be parsed. When present it is either a probability
// (<= 1) or a cents value (> 1); the two conventions are deliberately not
// unified here, consumers apply the same <=1 / >1 split when rendering.
type Outcome struct {
	Name  string
	Price *float64
}
