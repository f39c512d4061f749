package service

import (
	"errors"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/app/repository"
	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderPageSize    = 10
	RecentOrderLimit = 5
)

var ErrOrderNotFound = errors.New("order not found")

// ProgressStage is one step of the fulfilment indicator.
type ProgressStage struct {
	Label     string
	Completed bool
	Current   bool
}

var progressLabels = []string{"Order Placed", "Processing", "Shipped", "Delivered"}

// BuildProgress marks stage N complete when the status ranks at least N.
// Cancelled and refunded orders complete nothing.
func BuildProgress(status model.OrderStatus) []ProgressStage {
	rank := status.Rank()
	stages := make([]ProgressStage, len(progressLabels))
	for i, label := range progressLabels {
		stages[i] = ProgressStage{
			Label:     label,
			Completed: rank >= i,
			Current:   rank == i,
		}
	}
	return stages
}

// OrderDetail is everything the confirmation and details pages show.
type OrderDetail struct {
	Order           model.Order
	Subtotal        decimal.Decimal
	ShippingAddress model.AddressSnapshot
	BillingAddress  model.AddressSnapshot
	Stages          []ProgressStage
	Cancelled       bool
	UnitCount       int
}

type OrderHistoryQuery struct {
	UserID uint
	Status string
	Page   int
}

// OrderHistory is one page of a user's orders. Status is empty when no
// filter is active.
type OrderHistory struct {
	Orders     []model.OrderSummary
	Status     model.OrderStatus
	Page       int
	TotalPages int
	TotalCount int64
}

func (h OrderHistory) Filtered() bool {
	return h.Status != ""
}

func (h OrderHistory) HasPrev() bool {
	return h.Page > 1
}

func (h OrderHistory) HasNext() bool {
	return h.Page < h.TotalPages
}

type OrderService interface {
	GetOrderDetail(userID, orderID uint) (*OrderDetail, error)
	GetOrderHistory(query OrderHistoryQuery) (*OrderHistory, error)
	GetRecentOrders(userID uint, limit int) ([]model.OrderSummary, error)
	ListOrdersForExport(userID uint, status string) ([]model.OrderSummary, model.OrderStatus, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
	}
}

// NormalizeStatusFilter maps the status query parameter to a filter value.
// "all", empty and unknown values all mean no filter.
func NormalizeStatusFilter(raw string) model.OrderStatus {
	status, ok := model.ParseOrderStatus(raw)
	if !ok {
		return ""
	}
	return status
}

func (s *orderService) GetOrderDetail(userID, orderID uint) (*OrderDetail, error) {
	logger.Info("Fetching order detail", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	if orderID == 0 {
		return nil, ErrOrderNotFound
	}

	order, err := s.orderRepo.FindByIDForUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found for user", map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order detail", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, err
	}

	detail := &OrderDetail{
		Order:           *order,
		Subtotal:        order.Subtotal(),
		ShippingAddress: decodeAddress(order, "shipping", order.ShippingAddress),
		BillingAddress:  decodeAddress(order, "billing", order.BillingAddress),
		Stages:          BuildProgress(order.Status),
		Cancelled:       order.Status.Terminated(),
	}
	for _, item := range order.Items {
		detail.UnitCount += item.Quantity
	}
	return detail, nil
}

func decodeAddress(order *model.Order, kind, raw string) model.AddressSnapshot {
	snap, err := model.DecodeAddressSnapshot(raw)
	if err != nil {
		logger.Warn("Malformed address snapshot on order", map[string]interface{}{
			"order_id": order.ID,
			"address":  kind,
			"error":    err.Error(),
		})
	}
	return snap
}

func (s *orderService) GetOrderHistory(query OrderHistoryQuery) (*OrderHistory, error) {
	filter := repository.OrderFilter{
		UserID: query.UserID,
		Status: NormalizeStatusFilter(query.Status),
	}

	logger.Info("Fetching order history", map[string]interface{}{
		"user_id": query.UserID,
		"status":  filter.Status,
		"page":    query.Page,
	})

	total, err := s.orderRepo.Count(filter)
	if err != nil {
		logger.Error("Failed to count orders", err, map[string]interface{}{
			"user_id": query.UserID,
		})
		return nil, err
	}

	totalPages := int((total + OrderPageSize - 1) / OrderPageSize)
	page := clampPage(query.Page, totalPages)

	history := &OrderHistory{
		Orders:     []model.OrderSummary{},
		Status:     filter.Status,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
	}
	if total == 0 {
		return history, nil
	}

	ids, err := s.orderRepo.FindPageIDs(filter, OrderPageSize, (page-1)*OrderPageSize)
	if err != nil {
		logger.Error("Failed to fetch order page", err, map[string]interface{}{
			"user_id": query.UserID,
			"page":    page,
		})
		return nil, err
	}

	summaries, err := s.orderRepo.FindSummariesByIDs(ids)
	if err != nil {
		logger.Error("Failed to fetch order summaries", err, map[string]interface{}{
			"user_id": query.UserID,
			"page":    page,
		})
		return nil, err
	}
	history.Orders = summaries
	return history, nil
}

// clampPage keeps page within [1, totalPages]; with no pages it is 1.
func clampPage(page, totalPages int) int {
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	return page
}

func (s *orderService) GetRecentOrders(userID uint, limit int) ([]model.OrderSummary, error) {
	ids, err := s.orderRepo.FindPageIDs(repository.OrderFilter{UserID: userID}, limit, 0)
	if err != nil {
		logger.Error("Failed to fetch recent orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return s.orderRepo.FindSummariesByIDs(ids)
}

func (s *orderService) ListOrdersForExport(userID uint, status string) ([]model.OrderSummary, model.OrderStatus, error) {
	filter := repository.OrderFilter{
		UserID: userID,
		Status: NormalizeStatusFilter(status),
	}

	ids, err := s.orderRepo.FindPageIDs(filter, 0, 0)
	if err != nil {
		logger.Error("Failed to list orders for export", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, filter.Status, err
	}

	summaries, err := s.orderRepo.FindSummariesByIDs(ids)
	if err != nil {
		return nil, filter.Status, err
	}

	logger.Info("Orders listed for export", map[string]interface{}{
		"user_id": userID,
		"status":  filter.Status,
		"count":   len(summaries),
	})
	return summaries, filter.Status, nil
}
