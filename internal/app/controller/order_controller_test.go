package controller

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOrderController_Confirmation_Success(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	order := createTestOrder(t, env.db, env.user.ID, model.OrderStatusShipped, time.Now())

	w := env.get(t, fmt.Sprintf("/account/order-confirmation?order_id=%d", order.ID), cookie)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Thank you for your order!")
	assert.Contains(t, body, order.OrderNumber)
	assert.Contains(t, body, "$100.00")
	assert.Contains(t, body, "$118.50")
	assert.Equal(t, 3, strings.Count(body, "stage-complete"))
}

func TestOrderController_Details_UsesOrderHeading(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	order := createTestOrder(t, env.db, env.user.ID, model.OrderStatusPending, time.Now())

	w := env.get(t, fmt.Sprintf("/account/order-details?id=%d", order.ID), cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Order #"+order.OrderNumber)
	assert.NotContains(t, w.Body.String(), "Thank you for your order!")
}

func TestOrderController_ForeignOrderLooksMissing(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	stranger := createTestUser(t, env.db, "stranger@example.com")
	foreign := createTestOrder(t, env.db, stranger.ID, model.OrderStatusDelivered, time.Now())

	targets := []string{
		fmt.Sprintf("/account/order-confirmation?order_id=%d", foreign.ID),
		fmt.Sprintf("/account/order-details?id=%d", foreign.ID),
		"/account/order-confirmation?order_id=99999",
		"/account/order-details?id=99999",
		"/account/order-details?id=abc",
		"/account/order-confirmation",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			w := env.get(t, target, cookie)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, OrdersPath, w.Header().Get("Location"))
			assert.NotContains(t, w.Body.String(), foreign.OrderNumber)

			next := env.get(t, OrdersPath, cookie)
			assert.Contains(t, next.Body.String(), html.EscapeString(orderNotFoundMessage))
			assert.NotContains(t, next.Body.String(), foreign.OrderNumber)
		})
	}
}

func TestOrderController_History_StatusFilter(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)

	base := time.Now().Add(-time.Hour)
	pending := createTestOrder(t, env.db, env.user.ID, model.OrderStatusPending, base)
	shipped := createTestOrder(t, env.db, env.user.ID, model.OrderStatusShipped, base.Add(time.Minute))
	delivered := createTestOrder(t, env.db, env.user.ID, model.OrderStatusDelivered, base.Add(2*time.Minute))

	w := env.get(t, "/account/orders?status=shipped", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, shipped.OrderNumber)
	assert.NotContains(t, body, pending.OrderNumber)
	assert.NotContains(t, body, delivered.OrderNumber)

	w = env.get(t, "/account/orders?status=all", cookie)
	body = w.Body.String()
	iDelivered := strings.Index(body, delivered.OrderNumber)
	iShipped := strings.Index(body, shipped.OrderNumber)
	iPending := strings.Index(body, pending.OrderNumber)
	require.True(t, iDelivered >= 0 && iShipped >= 0 && iPending >= 0)
	assert.Less(t, iDelivered, iShipped)
	assert.Less(t, iShipped, iPending)

	w = env.get(t, "/account/orders?status=bogus", cookie)
	assert.Contains(t, w.Body.String(), pending.OrderNumber)
	assert.Contains(t, w.Body.String(), delivered.OrderNumber)
}

func TestOrderController_History_PaginationKeepsFilter(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 11; i++ {
		createTestOrder(t, env.db, env.user.ID, model.OrderStatusShipped, base.Add(time.Duration(i)*time.Minute))
	}
	createTestOrder(t, env.db, env.user.ID, model.OrderStatusPending, base)

	w := env.get(t, "/account/orders?status=shipped", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/account/orders?page=2&amp;status=shipped"`)
	assert.Contains(t, body, "11 order(s)")

	w = env.get(t, "/account/orders?status=shipped&page=9", cookie)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `/account/order-details?id=`))
}

func TestOrderController_History_EmptyFiltered(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	createTestOrder(t, env.db, env.user.ID, model.OrderStatusPending, time.Now())

	w := env.get(t, "/account/orders?status=refunded", cookie)
	assert.Contains(t, w.Body.String(), "You have no Refunded orders.")
}

func TestOrderController_History_QueryFailureRendersEmptyList(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	require.NoError(t, env.db.Migrator().DropTable(&model.OrderItem{}, &model.Order{}))

	w := env.get(t, "/account/orders", cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alert-danger")
	assert.Contains(t, w.Body.String(), "You have not placed any orders yet.")
}

func TestOrderController_Export(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)

	base := time.Now().Add(-time.Hour)
	createTestOrder(t, env.db, env.user.ID, model.OrderStatusShipped, base)
	createTestOrder(t, env.db, env.user.ID, model.OrderStatusShipped, base.Add(time.Minute))
	createTestOrder(t, env.db, env.user.ID, model.OrderStatusPending, base.Add(2*time.Minute))

	w := env.get(t, "/account/orders/export?status=shipped", cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "orders-shipped-")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.OrderSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
