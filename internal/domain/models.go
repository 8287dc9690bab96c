package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// Customer pricing classes. Stored uppercase; rendered title-case in API
// responses to match the frontend autocomplete format.
const (
	CustomerTypeWholesale = "WHOLESALE"
	CustomerTypeRetail    = "RETAIL"
	CustomerTypeHotelLine = "HOTEL-LINE"
)

// Normalized payment methods.
const (
	PaymentOnline = "Online"
	PaymentCash   = "Cash"
	PaymentCredit = "Credit"
	PaymentCard   = "Card"
)

// Bill statuses.
const (
	StatusSuccessful = "Successful"
	StatusPending    = "Pending"
	StatusFailed     = "Failed"
)

type Customer struct {
	ID    int64  `json:"customer_id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

type InventoryItem struct {
	ID            int64  `json:"id"`
	Brand         string `json:"brand"`
	Product       string `json:"product"`
	Category      string `json:"category"`
	Stock         int    `json:"stock"`
	MRP           int64  `json:"mrp"`
	PurchaseRate  int64  `json:"purchase_rate"`
	WholesaleRate int64  `json:"wholesale_rate"`
	RetailRate    int64  `json:"retail_rate"`
	HotelRate     int64  `json:"hotel_rate"`
}

type Bill struct {
	ID            int64   `json:"bill_id"`
	CustomerID    int64   `json:"customer_id"`
	ItemCount     int     `json:"item_count"`
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
	Profit        int64   `json:"profit"`
	PaymentMethod string  `json:"payment_method"`
	PaymentDate   string  `json:"payment_date"`
	Status        string  `json:"status"`
}

// BillRecord is a bill joined with its customer's name, as returned by the
// history endpoint.
type BillRecord struct {
	Bill
	CustomerName string `json:"customer_name"`
}

type CustomerCreateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

type CustomerSuggestion struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Type   string `json:"type"`
}

type ProductSuggestion struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Quantity is a checkout line quantity. It decodes from JSON numbers and
// numeric strings alike; unparseable input marks the quantity invalid instead
// of failing the whole request body, so the processor can skip the line.
type Quantity struct {
	value int64
	valid bool
}

func QuantityOf(n int) Quantity {
	return Quantity{value: int64(n), valid: true}
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*q = Quantity{}
		return nil
	}
	*q = Quantity{value: n, valid: true}
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(q.value, 10)), nil
}

// Int reports the parsed quantity and whether the input was numeric at all.
func (q Quantity) Int() (int, bool) {
	return int(q.value), q.valid
}

// BillLineItem is one line of a checkout request.
type BillLineItem struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
}

type BillCreateRequest struct {
	CustomerID    int64          `json:"customer_id"`
	Items         []BillLineItem `json:"products"`
	Subtotal      float64        `json:"subtotal"`
	Tax           float64        `json:"tax"`
	Discount      float64        `json:"discount"`
	Total         float64        `json:"total"`
	PaymentMethod string         `json:"payment_method"`
}

// BillDraft is a validated, normalized checkout ready for the store: only the
// billable lines survive, the payment method is canonical, and the money
// figures are carried through from the caller untouched.
type BillDraft struct {
	CustomerID    int64
	CustomerType  string
	Items         []BillDraftItem
	Subtotal      float64
	Tax           float64
	Discount      float64
	Total         float64
	PaymentMethod string
}

type BillDraftItem struct {
	NameKey  string
	Quantity int
}

// NormalizeKey produces the canonical lookup form of a product or customer
// field: trimmed and uppercased. Writes and reads must agree on this.
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ItemNameKey is the canonical name of an inventory row, "BRAND PRODUCT".
func ItemNameKey(brand, product string) string {
	return NormalizeKey(strings.TrimSpace(brand) + " " + strings.TrimSpace(product))
}

// ValidCustomerType reports whether t (already normalized) names a pricing
// class.
func ValidCustomerType(t string) bool {
	switch t {
	case CustomerTypeWholesale, CustomerTypeRetail, CustomerTypeHotelLine:
		return true
	}
	return false
}

// SellingRate picks the per-class selling rate off an inventory row. The
// caller guarantees customerType is one of the three classes.
func SellingRate(item InventoryItem, customerType string) int64 {
	switch customerType {
	case CustomerTypeWholesale:
		return item.WholesaleRate
	case CustomerTypeHotelLine:
		return item.HotelRate
	default:
		return item.RetailRate
	}
}

// TitleCase capitalizes the first letter of every alphabetic run and lowers
// the rest, so "HOTEL-LINE" renders as "Hotel-Line". This matches how the
// stored uppercase class names are shown to clients.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
