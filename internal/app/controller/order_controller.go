package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/app/service"
	"github.com/ikkim/storefront-account/internal/app/view"
	apperrors "github.com/ikkim/storefront-account/internal/errors"
	"github.com/ikkim/storefront-account/internal/middleware"
	"github.com/ikkim/storefront-account/internal/report"
	"github.com/ikkim/storefront-account/internal/session"
)

const orderNotFoundMessage = "We couldn't find that order."

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// Confirmation shows the thank-you page for a freshly placed order
// GET /account/order-confirmation?order_id=
func (ctrl *OrderController) Confirmation(c *gin.Context) {
	ctrl.showOrder(c, c.Query("order_id"), true)
}

// Details shows a past order
// GET /account/order-details?id=
func (ctrl *OrderController) Details(c *gin.Context) {
	ctrl.showOrder(c, c.Query("id"), false)
}

// showOrder renders one order. An id that is malformed, missing or owned by
// someone else all end in the same redirect.
func (ctrl *OrderController) showOrder(c *gin.Context, rawID string, confirmation bool) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)
	fields := map[string]interface{}{
		"user_id":  userID,
		"order_id": rawID,
	}

	orderID, ok := parseID(rawID)
	if !ok {
		apperrors.Respond(c, apperrors.Missing(apperrors.ValidationInvalidID, orderNotFoundMessage), OrdersPath, fields)
		return
	}

	detail, err := ctrl.orderService.GetOrderDetail(userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.Respond(c, apperrors.Missing(apperrors.OrderNotFound, orderNotFoundMessage), OrdersPath, fields)
			return
		}
		apperrors.Respond(c, apperrors.Failed(err, "order"), OrdersPath, fields)
		return
	}

	log.Info("Order viewed", fields)

	title := "Order #" + detail.Order.OrderNumber
	if confirmation {
		title = "Order confirmed"
	}
	view.OK(c, "order_detail.html", view.Page{
		Title: title,
		Nav:   "orders",
		Content: view.OrderDetailContent{
			Detail:       detail,
			Confirmation: confirmation,
		},
	})
}

// History lists the account's orders, optionally filtered by status
// GET /account/orders?status=&page=
func (ctrl *OrderController) History(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	query := service.OrderHistoryQuery{
		UserID: userID,
		Status: c.Query("status"),
		Page:   page,
	}

	history, err := ctrl.orderService.GetOrderHistory(query)
	if err != nil {
		outcome := apperrors.Failed(err, "orders")
		outcome.Log(log, map[string]interface{}{
			"user_id": userID,
			"status":  query.Status,
		})
		session.From(c).AddFlash(outcome.FlashKind(), outcome.Message)
		history = &service.OrderHistory{
			Status: service.NormalizeStatusFilter(query.Status),
			Page:   1,
		}
	}

	view.OK(c, "orders.html", view.Page{
		Title:   "Order history",
		Nav:     "orders",
		Content: view.OrderHistoryContent{History: history},
	})
}

// Export downloads the filtered order history as a spreadsheet
// GET /account/orders/export?status=
func (ctrl *OrderController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	orders, status, err := ctrl.orderService.ListOrdersForExport(userID, c.Query("status"))
	fields := map[string]interface{}{
		"user_id": userID,
		"status":  string(status),
	}
	if err != nil {
		apperrors.Respond(c, apperrors.Failed(err, "orders"), view.OrdersURL(status, 1), fields)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteOrders(&buf, orders); err != nil {
		apperrors.Respond(c, apperrors.Failed(err, "export"), view.OrdersURL(status, 1), fields)
		return
	}

	fields["count"] = len(orders)
	log.Info("Order history exported", fields)

	if err := session.Commit(c); err != nil {
		log.Warn("Session not saved before export download", map[string]interface{}{
			"route": c.FullPath(),
			"error": err.Error(),
		})
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(status, time.Now())))
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}
