package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EnquiryCodePrefix = "ENQ"
	OrderCodePrefix   = "OID"

	// codeOffset is added to the primary key when building display identifiers.
	codeOffset = 1000
)

// EnquiryCode returns the display identifier for an enquiry row, e.g. ENQ1001.
func EnquiryCode(id int64) string {
	return fmt.Sprintf("%s%d", EnquiryCodePrefix, codeOffset+id)
}

// OrderCode returns the display identifier for an order row, e.g. OID1001.
func OrderCode(id int64) string {
	return fmt.Sprintf("%s%d", OrderCodePrefix, codeOffset+id)
}

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleEmployee   Role = "EMPLOYEE"
	RoleVendor     Role = "VENDOR"
	RoleContractor Role = "CONTRACTOR"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleVendor, RoleContractor:
		return true
	default:
		return false
	}
}

// NegotiationStatus is the state of one side of a negotiation round.
type NegotiationStatus string

const (
	StatusPending  NegotiationStatus = "PENDING"
	StatusReplied  NegotiationStatus = "REPLIED"
	StatusAccepted NegotiationStatus = "ACCEPTED"
)

func ValidNegotiationStatus(s NegotiationStatus) bool {
	switch s {
	case StatusPending, StatusReplied, StatusAccepted:
		return true
	default:
		return false
	}
}

type VendorStatus string

const (
	VendorPending  VendorStatus = "Pending"
	VendorApproved VendorStatus = "Approved"
	VendorRejected VendorStatus = "Rejected"
)

func ValidVendorStatus(s VendorStatus) bool {
	switch s {
	case VendorPending, VendorApproved, VendorRejected:
		return true
	default:
		return false
	}
}

const OrderAccepted = "ACCEPTED"

// Actor is the authenticated caller. VendorID / ContractorID are zero when
// the user is not linked to that kind of account.
type Actor struct {
	UserID       int64 `json:"user_id"`
	Role         Role  `json:"role"`
	VendorID     int64 `json:"vendor_id,omitempty"`
	ContractorID int64 `json:"contractor_id,omitempty"`
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Verified     bool      `db:"verified" json:"verified"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Vendor struct {
	ID          int64        `db:"id" json:"id"`
	VendorCode  string       `db:"vendor_id" json:"vendor_id"`
	UserID      int64        `db:"user_id" json:"user_id"`
	CompanyName string       `db:"company_name" json:"company_name"`
	Email       string       `db:"email" json:"email"`
	Phone       string       `db:"phone" json:"phone"`
	Address     string       `db:"address" json:"address"`
	Status      VendorStatus `db:"status" json:"status"`
	RequestedOn time.Time    `db:"requested_on" json:"requested_on"`
}

// VendorMini is the short vendor form used by pickers.
type VendorMini struct {
	ID          int64  `db:"id" json:"id"`
	VendorCode  string `db:"vendor_id" json:"vendor_id"`
	CompanyName string `db:"company_name" json:"company_name"`
}

type Contractor struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
	Status string `db:"status" json:"status"`
}

type Product struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Unit         string `db:"unit" json:"unit"`
	Category     string `db:"category" json:"category,omitempty"`
	Grade        string `db:"grade" json:"grade,omitempty"`
	ProductImage string `db:"product_image" json:"product_image,omitempty"`
}

type DailyRate struct {
	ID        int64           `db:"id" json:"id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Rate      decimal.Decimal `db:"rate" json:"rate"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

type Enquiry struct {
	ID           int64     `db:"id" json:"id"`
	EnquiryCode  string    `db:"enquiry_id" json:"enquiry_id"`
	ProductID    int64     `db:"product_id" json:"product_id"`
	VendorID     int64     `db:"vendor_id" json:"vendor_id"`
	ContractorID int64     `db:"contractor_id" json:"contractor_id"`
	Quantity     int       `db:"quantity" json:"quantity"`
	IsRead       bool      `db:"is_read" json:"is_read"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Negotiation is one round of the price history of an enquiry.
type Negotiation struct {
	ID                   int64               `db:"id" json:"id"`
	EnquiryID            int64               `db:"enquiry_id" json:"enquiry_id"`
	PriceFromContractor  decimal.NullDecimal `db:"price_from_contractor" json:"price_from_contractor"`
	StatusFromContractor NegotiationStatus   `db:"status_from_contractor" json:"status_from_contractor"`
	PriceFromVendor      decimal.NullDecimal `db:"price_from_vendor" json:"price_from_vendor"`
	StatusFromVendor     NegotiationStatus   `db:"status_from_vendor" json:"status_from_vendor"`
	CreatedAt            time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `db:"updated_at" json:"updated_at"`
}

// Accepted reports whether either side has already accepted this round.
func (n *Negotiation) Accepted() bool {
	return n.StatusFromContractor == StatusAccepted || n.StatusFromVendor == StatusAccepted
}

type Order struct {
	ID            int64           `db:"id" json:"id"`
	OrderCode     string          `db:"order_id" json:"order_id"`
	NegotiationID int64           `db:"negotiation_id" json:"negotiation_id"`
	ProductID     int64           `db:"product_id" json:"product_id"`
	VendorID      int64           `db:"vendor_id" json:"vendor_id"`
	ContractorID  int64           `db:"contractor_id" json:"contractor_id"`
	Quantity      int             `db:"quantity" json:"quantity"`
	ProposedPrice decimal.Decimal `db:"proposed_price" json:"proposed_price"`
	Status        string          `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

type Credit struct {
	ID           int64           `db:"id" json:"id"`
	ContractorID int64           `db:"contractor_id" json:"contractor_id"`
	VendorID     int64           `db:"vendor_id" json:"vendor_id"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

type Notification struct {
	ID        int64     `db:"id" json:"id"`
	EventID   string    `db:"event_id" json:"event_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	Link      string    `db:"link" json:"link,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
