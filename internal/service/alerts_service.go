package service

import (
	"context"
	"sort"
	"time"

	"github.com/crumbworks/bakeops/internal/alerts"
	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/crumbworks/bakeops/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	// usageWindowDays is the lookback used to estimate daily consumption.
	usageWindowDays = 14

	// overviewDaysCap keeps the dashboard runway column readable for slow
	// movers; real values above it display as the cap.
	overviewDaysCap = 30
)

// AlertsService combines current stock, estimated usage and supplier lead
// times into reorder alerts and automated order plans.
type AlertsService struct {
	ingredients repository.IngredientRepository
	suppliers   repository.SupplierRepository
	usage       repository.UsageRepository
	orders      repository.OrderRepository
	calc        alerts.Calculator
}

func NewAlertsService(
	ingredients repository.IngredientRepository,
	suppliers repository.SupplierRepository,
	usage repository.UsageRepository,
	orders repository.OrderRepository,
) *AlertsService {
	return &AlertsService{
		ingredients: ingredients,
		suppliers:   suppliers,
		usage:       usage,
		orders:      orders,
	}
}

// LowStock returns every ingredient at or below its reorder point, most
// urgent first.
func (s *AlertsService) LowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}

	usage, err := s.usage.AverageDailyUsage(ctx, time.Now().AddDate(0, 0, -usageWindowDays), usageWindowDays)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LowStockItem, 0)
	for _, ing := range ingredients {
		if item := s.calc.Evaluate(*ing, usage[ing.ID]); item != nil {
			items = append(items, *item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].DaysRemaining < items[j].DaysRemaining
	})

	return items, nil
}

// Overview bands every ingredient for the dashboard, regardless of whether
// it is below its reorder point.
func (s *AlertsService) Overview(ctx context.Context) ([]domain.StockOverviewRow, error) {
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, err
	}

	usage, err := s.usage.AverageDailyUsage(ctx, time.Now().AddDate(0, 0, -usageWindowDays), usageWindowDays)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.StockOverviewRow, 0, len(ingredients))
	for _, ing := range ingredients {
		daily := usage[ing.ID]
		days := s.calc.DaysRemaining(ing.CurrentStock, daily)

		displayDays := days
		if displayDays > overviewDaysCap {
			displayDays = overviewDaysCap
		}

		rows = append(rows, domain.StockOverviewRow{
			IngredientName: ing.Name,
			Unit:           ing.Unit,
			CurrentStock:   ing.CurrentStock,
			DailyUsage:     daily,
			DaysRemaining:  displayDays,
			ReorderPoint:   s.calc.ReorderPoint(daily, ing.LeadTimeDays()),
			Status:         s.calc.OverviewStatus(days),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].DaysRemaining < rows[j].DaysRemaining
	})

	return rows, nil
}

// PlanOrders batches urgent low-stock items (critical and warning) by their
// linked supplier. Items without a supplier are reported for manual
// handling rather than silently dropped.
func (s *AlertsService) PlanOrders(ctx context.Context) (*domain.OrderPlan, error) {
	items, err := s.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	plan := &domain.OrderPlan{
		Batches:    make([]domain.OrderBatch, 0),
		Unassigned: make([]domain.LowStockItem, 0),
	}
	bySupplier := make(map[int64]*domain.OrderBatch)

	for _, item := range items {
		if item.Urgency == domain.UrgencyNotice {
			continue
		}

		if item.Ingredient.SupplierID == nil {
			plan.Unassigned = append(plan.Unassigned, item)
			continue
		}

		supplierID := *item.Ingredient.SupplierID
		batch, ok := bySupplier[supplierID]
		if !ok {
			supplier, err := s.suppliers.Get(ctx, supplierID)
			if err != nil {
				return nil, err
			}
			batch = &domain.OrderBatch{
				Supplier:         *supplier,
				ExpectedDelivery: time.Now().AddDate(0, 0, supplier.LeadTimeDays),
			}
			bySupplier[supplierID] = batch
		}

		batch.Items = append(batch.Items, item)
		batch.TotalCost += item.SuggestedQty * item.Ingredient.CostPerUnit
	}

	supplierIDs := make([]int64, 0, len(bySupplier))
	for id := range bySupplier {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Slice(supplierIDs, func(i, j int) bool { return supplierIDs[i] < supplierIDs[j] })
	for _, id := range supplierIDs {
		plan.Batches = append(plan.Batches, *bySupplier[id])
	}

	return plan, nil
}

// CreateOrders materializes the current order plan into pending supplier
// orders. Stock is never touched here; it moves on delivery confirmation.
func (s *AlertsService) CreateOrders(ctx context.Context) ([]*domain.SupplierOrder, *domain.OrderPlan, error) {
	plan, err := s.PlanOrders(ctx)
	if err != nil {
		return nil, nil, err
	}

	orders := make([]*domain.SupplierOrder, 0, len(plan.Batches))
	for _, batch := range plan.Batches {
		expected := batch.ExpectedDelivery
		order := &domain.SupplierOrder{
			SupplierID:           batch.Supplier.ID,
			SupplierName:         batch.Supplier.Name,
			OrderDate:            time.Now(),
			ExpectedDeliveryDate: &expected,
			Status:               domain.OrderPending,
			TotalCost:            batch.TotalCost,
		}
		for _, item := range batch.Items {
			order.Items = append(order.Items, domain.SupplierOrderItem{
				IngredientID:   item.Ingredient.ID,
				IngredientName: item.Ingredient.Name,
				Quantity:       item.SuggestedQty,
				UnitCost:       item.Ingredient.CostPerUnit,
				TotalCost:      item.SuggestedQty * item.Ingredient.CostPerUnit,
			})
		}

		if err := s.orders.Create(ctx, order); err != nil {
			return nil, nil, err
		}

		log.Info().
			Int64("supplier_id", order.SupplierID).
			Int("items", len(order.Items)).
			Float64("total_cost", order.TotalCost).
			Msg("supplier order created")

		orders = append(orders, order)
	}

	return orders, plan, nil
}

func (s *AlertsService) ListOrders(ctx context.Context, status *domain.OrderStatus) ([]*domain.SupplierOrder, error) {
	return s.orders.List(ctx, status)
}

func (s *AlertsService) GetOrder(ctx context.Context, id int64) (*domain.SupplierOrder, error) {
	return s.orders.Get(ctx, id)
}

// ConfirmDelivery books the order's quantities into stock. The repository
// guarantees the increment happens at most once.
func (s *AlertsService) ConfirmDelivery(ctx context.Context, id int64) (*domain.SupplierOrder, error) {
	order, err := s.orders.MarkDelivered(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", id).Msg("supplier order delivered")
	return order, nil
}

func (s *AlertsService) CancelOrder(ctx context.Context, id int64) error {
	return s.orders.Cancel(ctx, id)
}
