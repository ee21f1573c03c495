package models

import "time"

// ProductRef is the product projection embedded in enquiry listings.
type ProductRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type VendorRef struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
}

type ContractorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EnquirySummary is a listing row: the enquiry with only its latest negotiation.
type EnquirySummary struct {
	ID           int64         `json:"id"`
	EnquiryCode  string        `json:"enquiry_id"`
	Quantity     int           `json:"quantity"`
	IsRead       bool          `json:"is_read"`
	CreatedAt    time.Time     `json:"created_at"`
	Product      ProductRef    `json:"product"`
	Vendor       VendorRef     `json:"vendor"`
	Contractor   ContractorRef `json:"contractor"`
	Negotiations []Negotiation `json:"negotiations"`
}

// ProductDetail carries the product with its most recent daily rate, if any.
type ProductDetail struct {
	Product
	DailyRates []DailyRate `json:"dailyRates"`
}

// EnquiryDetail is the full view of one enquiry with its negotiation history
// ordered newest first.
type EnquiryDetail struct {
	ID           int64         `json:"id"`
	EnquiryCode  string        `json:"enquiry_id"`
	Quantity     int           `json:"quantity"`
	IsRead       bool          `json:"is_read"`
	CreatedAt    time.Time     `json:"created_at"`
	Product      ProductDetail `json:"product"`
	Vendor       VendorRef     `json:"vendor"`
	Contractor   ContractorRef `json:"contractor"`
	Negotiations []Negotiation `json:"negotiations"`
}

// EnquiryFilter holds the listing query of a vendor's enquiries.
type EnquiryFilter struct {
	Page       int
	PerPage    int
	Search     string
	Status     string
	Contractor string
}

type VendorFilter struct {
	Page    int
	PerPage int
	Search  string
	Status  string
}

type DailyRateFilter struct {
	Page    int
	PerPage int
	From    time.Time
	To      time.Time
}
