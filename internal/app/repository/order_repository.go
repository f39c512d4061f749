package repository

import (
	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter narrows a user's order list. An empty Status matches every status.
type OrderFilter struct {
	UserID uint
	Status model.OrderStatus
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByIDForUser(id, userID uint) (*model.Order, error)
	Count(filter OrderFilter) (int64, error)
	FindPageIDs(filter OrderFilter, limit, offset int) ([]uint, error)
	FindSummariesByIDs(ids []uint) ([]model.OrderSummary, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) scoped(filter OrderFilter) *gorm.DB {
	query := r.db.Model(&model.Order{}).Where("user_id = ?", filter.UserID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"order_number": order.OrderNumber,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":      order.UserID,
			"order_number": order.OrderNumber,
		})
		return err
	}
	return nil
}

// FindByIDForUser loads an order with its lines only when userID owns it.
// Someone else's order is indistinguishable from a missing one.
func (r *orderRepository) FindByIDForUser(id, userID uint) (*model.Order, error) {
	logger.Debug("Finding order by ID for user in database", map[string]interface{}{
		"order_id": id,
		"user_id":  userID,
	})

	var order model.Order
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id ASC")
	}).Where("id = ? AND user_id = ?", id, userID).First(&order).Error
	if err != nil {
		return nil, err
	}

	logger.Debug("Order found by ID for user in database", map[string]interface{}{
		"order_id":   order.ID,
		"status":     order.Status,
		"item_count": len(order.Items),
	})
	return &order, nil
}

func (r *orderRepository) Count(filter OrderFilter) (int64, error) {
	var total int64
	if err := r.scoped(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err, map[string]interface{}{
			"user_id": filter.UserID,
			"status":  filter.Status,
		})
		return 0, err
	}
	return total, nil
}

// FindPageIDs returns one page of order ids, newest first. A limit <= 0
// returns every matching id.
func (r *orderRepository) FindPageIDs(filter OrderFilter, limit, offset int) ([]uint, error) {
	query := r.scoped(filter).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ids []uint
	if err := query.Pluck("id", &ids).Error; err != nil {
		logger.Error("Failed to find order page in database", err, map[string]interface{}{
			"user_id": filter.UserID,
			"status":  filter.Status,
			"limit":   limit,
			"offset":  offset,
		})
		return nil, err
	}
	return ids, nil
}

type orderItemAggregate struct {
	OrderID   uint
	ItemCount int
	UnitCount int
}

// FindSummariesByIDs loads full rows plus line/unit counts for exactly the
// given ids and returns them in the order the ids were supplied. Ids that
// vanished since they were paged are dropped.
func (r *orderRepository) FindSummariesByIDs(ids []uint) ([]model.OrderSummary, error) {
	if len(ids) == 0 {
		return []model.OrderSummary{}, nil
	}

	var orders []model.Order
	if err := r.db.Where("id IN ?", ids).Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by IDs in database", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}

	var aggregates []orderItemAggregate
	if err := r.db.Model(&model.OrderItem{}).
		Select("order_id, COUNT(*) AS item_count, COALESCE(SUM(quantity), 0) AS unit_count").
		Where("order_id IN ?", ids).
		Group("order_id").
		Scan(&aggregates).Error; err != nil {
		logger.Error("Failed to aggregate order items in database", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}

	byID := make(map[uint]model.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	counts := make(map[uint]orderItemAggregate, len(aggregates))
	for _, a := range aggregates {
		counts[a.OrderID] = a
	}

	summaries := make([]model.OrderSummary, 0, len(ids))
	for _, id := range ids {
		order, ok := byID[id]
		if !ok {
			continue
		}
		agg := counts[id]
		summaries = append(summaries, model.OrderSummary{
			Order:     order,
			ItemCount: agg.ItemCount,
			UnitCount: agg.UnitCount,
		})
	}
	return summaries, nil
}
