package report

import (
	"fmt"
	"io"
	"time"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const OrderSheet = "Orders"

// ContentType is the MIME type of the workbook WriteOrders produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeader = []interface{}{
	"Order Number",
	"Placed",
	"Status",
	"Payment Status",
	"Lines",
	"Units",
	"Subtotal",
	"Shipping",
	"Tax",
	"Total",
}

// WriteOrders writes a workbook with one header row and one row per order,
// in the order given.
func WriteOrders(w io.Writer, orders []model.OrderSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), OrderSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(OrderSheet, "A1", &orderHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(OrderSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, order := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			string(order.Status),
			string(order.PaymentStatus),
			order.ItemCount,
			order.UnitCount,
			amount(order.Subtotal()),
			amount(order.ShippingCost),
			amount(order.TaxAmount),
			amount(order.TotalAmount),
		}
		if err := f.SetSheetRow(OrderSheet, cell, &row); err != nil {
			return fmt.Errorf("write order %s: %w", order.OrderNumber, err)
		}
	}

	if err := f.SetColWidth(OrderSheet, "A", "B", 22); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// Filename names an export after the filter and the day it was taken.
func Filename(status model.OrderStatus, now time.Time) string {
	scope := "all"
	if status != "" {
		scope = string(status)
	}
	return fmt.Sprintf("orders-%s-%s.xlsx", scope, now.Format("20060102"))
}

func amount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
