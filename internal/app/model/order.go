package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string   // fulfilment state
type PaymentStatus string // settlement state

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// ParseOrderStatus accepts one of OrderStatuses, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	candidate := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range OrderStatuses {
		if st == candidate {
			return st, true
		}
	}
	return "", false
}

// Rank orders the fulfilment pipeline: pending < processing < shipped < delivered.
// Cancelled and refunded orders are off the pipeline and rank -1.
func (s OrderStatus) Rank() int {
	switch s {
	case OrderStatusPending:
		return 0
	case OrderStatusProcessing:
		return 1
	case OrderStatusShipped:
		return 2
	case OrderStatusDelivered:
		return 3
	default:
		return -1
	}
}

func (s OrderStatus) Terminated() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	OrderNumber     string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	UserID          uint            `gorm:"not null;index:idx_orders_user_created,priority:1" json:"user_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod   string          `gorm:"size:50" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	ShippingCost    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_cost"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	ShippingAddress string          `gorm:"type:text" json:"shipping_address"` // JSON AddressSnapshot
	BillingAddress  string          `gorm:"type:text" json:"billing_address"`  // JSON AddressSnapshot
	CreatedAt       time.Time       `gorm:"index:idx_orders_user_created,priority:2" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Subtotal is the merchandise amount: total minus shipping and tax.
func (o Order) Subtotal() decimal.Decimal {
	return o.TotalAmount.Sub(o.ShippingCost).Sub(o.TaxAmount)
}

// OrderItem is an immutable snapshot of a purchased line.
type OrderItem struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	ProductName  string          `gorm:"size:255;not null" json:"product_name"`
	ProductSKU   string          `gorm:"column:product_sku;size:64" json:"product_sku"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"product_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderSummary is an order row plus its aggregated line and unit counts.
type OrderSummary struct {
	Order
	ItemCount int `json:"item_count"`
	UnitCount int `json:"unit_count"`
}

// AddressSnapshot is the address serialized onto an order at checkout.
type AddressSnapshot struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// DecodeAddressSnapshot parses a serialized address. An empty blob yields
// an empty snapshot and no error.
func DecodeAddressSnapshot(raw string) (AddressSnapshot, error) {
	var snap AddressSnapshot
	if strings.TrimSpace(raw) == "" {
		return snap, nil
	}
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return AddressSnapshot{}, err
	}
	return snap, nil
}

// EncodeAddressSnapshot is the inverse of DecodeAddressSnapshot.
func EncodeAddressSnapshot(snap AddressSnapshot) string {
	b, _ := json.Marshal(snap)
	return string(b)
}

func (a AddressSnapshot) IsEmpty() bool {
	return a == AddressSnapshot{}
}

// CityLine renders "City, Province PostalCode" without dangling separators.
func (a AddressSnapshot) CityLine() string {
	region := strings.TrimSpace(a.Province + " " + a.PostalCode)
	switch {
	case a.City == "":
		return region
	case region == "":
		return a.City
	default:
		return a.City + ", " + region
	}
}
