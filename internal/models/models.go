package models

import (
	"time"

	"gorm.io/datatypes"
)

// User - The account that owns quotes and material quotes
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100" json:"name"`
	Email        string `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash string `json:"-"` // Never return this in JSON

	// Password reset flow (sha256 of the raw token + expiry)
	ResetPasswordToken  string     `gorm:"size:64" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Quote statuses. A flat field, not a guarded state machine:
// any status may follow any other.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// IsValidStatus reports whether s is one of the known quote statuses.
func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Window types the configurator supports
const (
	WindowTypeNormal             = "normal"
	WindowTypeSlider             = "slider"
	WindowTypeFixedLeft          = "fixed-left"
	WindowTypeFixedRight         = "fixed-right"
	WindowTypeFixedPartitionDoor = "fixed-partition-door"
	WindowTypeFixedSliding       = "fixed-sliding"
	WindowTypeFourTrackSliding   = "four-track-sliding"
	WindowTypeBathroomWithVent   = "bathroom-with-vent"
)

// Material units
const (
	UnitPCS  = "pcs"
	UnitSqFt = "sqft"
	UnitM    = "m"
	UnitKG   = "kg"
)

// IsValidUnit reports whether u is one of the known material units.
func IsValidUnit(u string) bool {
	return u == UnitPCS || u == UnitSqFt || u == UnitM || u == UnitKG
}

// WindowItem - One configured window row inside a quote.
// Width and Height are in inches. SqFt and Amount are derived
// ((height/12)*(width/12), then sqFt * pricePerFt * quantity),
// both rounded to 2 decimals at storage time.
type WindowItem struct {
	WindowType    string  `json:"windowType"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	ProfileSystem string  `json:"profileSystem"`
	Design        string  `json:"design"`
	GlassType     string  `json:"glassType"`
	Locking       string  `json:"locking"`
	Grill         string  `json:"grill"`
	Hardware      string  `json:"hardware"`
	Mesh          string  `json:"mess"` // "mess" is the wire name the configurator sends
	SqFt          float64 `json:"sqFt"`
	PricePerFt    float64 `json:"pricePerFt"`
	Quantity      int     `json:"quantity"`
	Amount        float64 `json:"amount"`
}

// MaterialItem - One priced material row inside a material quote.
// Amount is qty * rate rounded to 2 decimals.
type MaterialItem struct {
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	Qty         float64 `json:"qty"`
	Rate        float64 `json:"rate"`
	Notes       string  `json:"notes,omitempty"`
	Amount      float64 `json:"amount"`
}

// QuoteSnapshot captures the financial state of a quote before an update,
// so edits never lose the numbers a client was originally shown.
type QuoteSnapshot struct {
	Windows        []WindowItem `json:"windows"`
	Subtotal       float64      `json:"subtotal"`
	Cgst           float64      `json:"cgst"`
	Sgst           float64      `json:"sgst"`
	GrandTotal     float64      `json:"grandTotal"`
	Status         string       `json:"status"`
	ClientName     string       `json:"clientName"`
	Project        string       `json:"project"`
	Finish         string       `json:"finish"`
	ApplyGST       bool         `json:"applyGST"`
	PackingCharges float64      `json:"packingCharges"`
}

// QuoteVersion is one append-only history entry
type QuoteVersion struct {
	Timestamp time.Time     `json:"timestamp"`
	Previous  QuoteSnapshot `json:"previous"`
}

// Quote - The window quote aggregate. Windows and version history are
// stored as JSON columns so every save is a single row write.
type Quote struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	QuoteID string `gorm:"uniqueIndex;size:16" json:"quoteId"` // e.g. "Q-0001", immutable
	UserID  uint   `gorm:"index" json:"userId"`

	ClientName string `json:"clientName"`
	Project    string `json:"project"`
	Finish     string `json:"finish"`

	// Financial configuration
	ApplyGST       bool    `json:"applyGST"`
	CgstPerc       float64 `json:"cgstPerc"`
	SgstPerc       float64 `json:"sgstPerc"`
	PackingCharges float64 `json:"packingCharges"`

	Windows datatypes.JSONSlice[WindowItem] `json:"windows"`

	Status string `gorm:"size:16;default:pending" json:"status"`

	// Computed totals, recomputed on every create/update
	Subtotal   float64 `json:"subtotal"`
	Cgst       float64 `json:"cgst"`
	Sgst       float64 `json:"sgst"`
	GrandTotal float64 `json:"grandTotal"`

	VersionHistory datatypes.JSONSlice[QuoteVersion] `json:"versionHistory"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecipientInfo - Who a material quote is addressed to
type RecipientInfo struct {
	ToName  string `json:"toName"`
	Company string `json:"company"`
	Address string `json:"address"`
	Ref     string `json:"ref"`
}

// MaterialSnapshot captures a material quote's state before an update
type MaterialSnapshot struct {
	Materials     []MaterialItem `json:"materials"`
	TotalValue    float64        `json:"totalValue"`
	Status        string         `json:"status"`
	RecipientInfo RecipientInfo  `json:"recipientInfo"`
}

// MaterialVersion is one append-only history entry
type MaterialVersion struct {
	Timestamp time.Time        `json:"timestamp"`
	Previous  MaterialSnapshot `json:"previous"`
}

// MaterialQuote - The material quote aggregate
type MaterialQuote struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	MaterialID string `gorm:"uniqueIndex;size:16" json:"materialId"` // e.g. "MAT-7KQ2ZB"
	UserID     uint   `gorm:"index" json:"userId"`

	RecipientInfo datatypes.JSONType[RecipientInfo] `json:"recipientInfo"`
	Materials     datatypes.JSONSlice[MaterialItem] `json:"materials"`

	TotalValue float64 `json:"totalValue"`
	Status     string  `gorm:"size:16;default:pending" json:"status"`

	VersionHistory datatypes.JSONSlice[MaterialVersion] `json:"versionHistory"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
