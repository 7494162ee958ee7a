package domain

import "time"

// ReceiptLineItem is one purchased item extracted from a receipt or invoice.
type ReceiptLineItem struct {
	ItemName  string  `json:"item_name"`
	Quantity  float64 `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
	TotalCost float64 `json:"total_cost"`
}

// ParsedReceipt is the structured output of receipt parsing. Every field is
// optional: absence of a signal is represented by nil, never by an error.
type ParsedReceipt struct {
	VendorName    *string           `json:"vendor_name"`
	VendorEmail   *string           `json:"vendor_email"`
	VendorPhone   *string           `json:"vendor_phone"`
	VendorAddress *string           `json:"vendor_address"`
	OrderDate     *time.Time        `json:"order_date"`
	LineItems     []ReceiptLineItem `json:"line_items"`
	TotalAmount   *float64          `json:"total_amount"`
}

// Merge folds a later document into the receiver: line items concatenate,
// vendor fields keep the first document's values.
func (r *ParsedReceipt) Merge(other *ParsedReceipt) {
	if other == nil {
		return
	}
	r.LineItems = append(r.LineItems, other.LineItems...)
	if r.VendorName == nil {
		r.VendorName = other.VendorName
	}
	if r.VendorEmail == nil {
		r.VendorEmail = other.VendorEmail
	}
	if r.VendorPhone == nil {
		r.VendorPhone = other.VendorPhone
	}
	if r.VendorAddress == nil {
		r.VendorAddress = other.VendorAddress
	}
	if r.OrderDate == nil {
		r.OrderDate = other.OrderDate
	}
	if r.TotalAmount == nil {
		r.TotalAmount = other.TotalAmount
	}
}
