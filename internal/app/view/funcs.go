package view

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const NotSet = "Not set"

var titleCase = cases.Title(language.English)

// FormatMoney renders an amount with thousands separators and two decimals,
// rounding half away from zero. It never goes through float64.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	rounded := amount.Round(2)
	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// StatusClass maps an order status to a badge colour.
func StatusClass(status model.OrderStatus) string {
	switch status {
	case model.OrderStatusPending:
		return "warning"
	case model.OrderStatusProcessing:
		return "info"
	case model.OrderStatusShipped:
		return "primary"
	case model.OrderStatusDelivered:
		return "success"
	case model.OrderStatusCancelled:
		return "danger"
	}
	return "secondary"
}

func StatusLabel(status model.OrderStatus) string {
	if status == "" {
		return "All"
	}
	return titleCase.String(string(status))
}

func OrZero(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// OrdersURL builds a history link that keeps the active status filter.
func OrdersURL(status model.OrderStatus, page int) string {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/account/orders"
	}
	return "/account/orders?" + q.Encode()
}

func ExportURL(status model.OrderStatus) string {
	if status == "" {
		return "/account/orders/export"
	}
	return "/account/orders/export?status=" + url.QueryEscape(string(status))
}

// PageNumbers lists 1..total.
func PageNumbers(total int) []int {
	pages := make([]int, 0, total)
	for i := 1; i <= total; i++ {
		pages = append(pages, i)
	}
	return pages
}

// dict pairs up keys and values so a partial template can take more than
// one argument.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func funcMap(cfg Config) template.FuncMap {
	return template.FuncMap{
		"storeName": func() string {
			return cfg.StoreName
		},
		"money": func(amount decimal.Decimal) string {
			return FormatMoney(cfg.CurrencySymbol, amount)
		},
		"statusClass": StatusClass,
		"statusLabel": StatusLabel,
		"statuses": func() []model.OrderStatus {
			return model.OrderStatuses
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"orNotSet": func(value string) string {
			return OrZero(value, NotSet)
		},
		"ordersURL":   OrdersURL,
		"exportURL":   ExportURL,
		"pageNumbers": PageNumbers,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"dict": dict,
	}
}
