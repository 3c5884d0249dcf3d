package entities

// TapInSource identifies how a fan checked in with a club. Each source maps
// to a fixed point award; the table is platform-wide, not club-configurable.
type TapInSource string

const (
	TapInSourceQRCode        TapInSource = "qr_code"
	TapInSourceNFC           TapInSource = "nfc"
	TapInSourceLink          TapInSource = "link"
	TapInSourceShowEntry     TapInSource = "show_entry"
	TapInSourceMerchPurchase TapInSource = "merch_purchase"
	TapInSourcePresave       TapInSource = "presave"
)

// tapInDefaultPoints is the award for sources missing from the table.
const tapInDefaultPoints int64 = 10

var tapInPointsBySource = map[TapInSource]int64{
	TapInSourceQRCode:        20,
	TapInSourceNFC:           20,
	TapInSourceLink:          10,
	TapInSourceShowEntry:     100,
	TapInSourceMerchPurchase: 50,
	TapInSourcePresave:       40,
}

// Points returns the award for this source, falling back to the default
// for unknown sources rather than failing a scan.
func (s TapInSource) Points() int64 {
	if pts, ok := tapInPointsBySource[s]; ok {
		return pts
	}
	return tapInDefaultPoints
}

// String returns the string representation of the source.
func (s TapInSource) String() string {
	return string(s)
}
