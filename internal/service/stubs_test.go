package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/crumbworks/bakeops/internal/domain"
)

// In-memory repository stubs backing the service tests.

type memIngredients struct {
	rows   map[int64]*domain.Ingredient
	nextID int64
}

func newMemIngredients() *memIngredients {
	return &memIngredients{rows: make(map[int64]*domain.Ingredient)}
}

func (m *memIngredients) add(ing domain.Ingredient) *domain.Ingredient {
	m.nextID++
	ing.ID = m.nextID
	m.rows[ing.ID] = &ing
	return &ing
}

func (m *memIngredients) List(ctx context.Context) ([]*domain.Ingredient, error) {
	out := make([]*domain.Ingredient, 0, len(m.rows))
	for _, ing := range m.rows {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memIngredients) Get(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ing, nil
}

func (m *memIngredients) GetByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	for _, ing := range m.rows {
		if strings.EqualFold(ing.Name, name) {
			return ing, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memIngredients) Create(ctx context.Context, ing *domain.Ingredient) error {
	m.nextID++
	ing.ID = m.nextID
	ing.LastUpdated = time.Now()
	m.rows[ing.ID] = ing
	return nil
}

func (m *memIngredients) Update(ctx context.Context, ing *domain.Ingredient) error {
	if _, ok := m.rows[ing.ID]; !ok {
		return domain.ErrNotFound
	}
	ing.LastUpdated = time.Now()
	m.rows[ing.ID] = ing
	return nil
}

func (m *memIngredients) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memIngredients) AdjustStock(ctx context.Context, id int64, delta float64) error {
	ing, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	ing.CurrentStock += delta
	if ing.CurrentStock < 0 {
		ing.CurrentStock = 0
	}
	return nil
}

type memSuppliers struct {
	rows        map[int64]*domain.Supplier
	nextID      int64
	ingredients *memIngredients
	orders      *memOrders
}

func newMemSuppliers(ingredients *memIngredients, orders *memOrders) *memSuppliers {
	return &memSuppliers{
		rows:        make(map[int64]*domain.Supplier),
		ingredients: ingredients,
		orders:      orders,
	}
}

func (m *memSuppliers) add(sup domain.Supplier) *domain.Supplier {
	m.nextID++
	sup.ID = m.nextID
	m.rows[sup.ID] = &sup
	return &sup
}

func (m *memSuppliers) List(ctx context.Context) ([]*domain.Supplier, error) {
	out := make([]*domain.Supplier, 0, len(m.rows))
	for _, sup := range m.rows {
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memSuppliers) Get(ctx context.Context, id int64) (*domain.Supplier, error) {
	sup, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sup, nil
}

func (m *memSuppliers) GetByName(ctx context.Context, name string) (*domain.Supplier, error) {
	for _, sup := range m.rows {
		if strings.EqualFold(sup.Name, name) {
			return sup, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSuppliers) Create(ctx context.Context, sup *domain.Supplier) error {
	m.nextID++
	sup.ID = m.nextID
	m.rows[sup.ID] = sup
	return nil
}

func (m *memSuppliers) Update(ctx context.Context, sup *domain.Supplier) error {
	if _, ok := m.rows[sup.ID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[sup.ID] = sup
	return nil
}

func (m *memSuppliers) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	// Mirror the repository: detach ingredients, drop the order history.
	for _, ing := range m.ingredients.rows {
		if ing.SupplierID != nil && *ing.SupplierID == id {
			ing.SupplierID = nil
		}
	}
	for orderID, order := range m.orders.rows {
		if order.SupplierID == id {
			delete(m.orders.rows, orderID)
		}
	}
	delete(m.rows, id)
	return nil
}

type memRecipes struct {
	rows   map[int64]*domain.Recipe
	nextID int64
}

func newMemRecipes() *memRecipes {
	return &memRecipes{rows: make(map[int64]*domain.Recipe)}
}

func (m *memRecipes) add(recipe domain.Recipe) *domain.Recipe {
	m.nextID++
	recipe.ID = m.nextID
	m.rows[recipe.ID] = &recipe
	return &recipe
}

func (m *memRecipes) List(ctx context.Context) ([]*domain.Recipe, error) {
	out := make([]*domain.Recipe, 0, len(m.rows))
	for _, recipe := range m.rows {
		out = append(out, recipe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRecipes) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	recipe, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return recipe, nil
}

func (m *memRecipes) GetByName(ctx context.Context, name string) (*domain.Recipe, error) {
	for _, recipe := range m.rows {
		if strings.EqualFold(recipe.Name, name) {
			return recipe, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRecipes) GetByPOSItemID(ctx context.Context, posItemID string) (*domain.Recipe, error) {
	for _, recipe := range m.rows {
		if recipe.POSItemID != nil && *recipe.POSItemID == posItemID {
			return recipe, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRecipes) Create(ctx context.Context, recipe *domain.Recipe) error {
	m.nextID++
	recipe.ID = m.nextID
	m.rows[recipe.ID] = recipe
	return nil
}

func (m *memRecipes) Update(ctx context.Context, recipe *domain.Recipe) error {
	if _, ok := m.rows[recipe.ID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[recipe.ID] = recipe
	return nil
}

func (m *memRecipes) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type usageKey struct {
	ingredientID int64
	day          time.Time
}

type memSales struct {
	rows        map[int64]*domain.Sale
	nextID      int64
	usage       map[usageKey]float64
	ingredients *memIngredients
}

func newMemSales(ingredients *memIngredients) *memSales {
	return &memSales{
		rows:        make(map[int64]*domain.Sale),
		usage:       make(map[usageKey]float64),
		ingredients: ingredients,
	}
}

func (m *memSales) Create(ctx context.Context, sale *domain.Sale) error {
	m.nextID++
	sale.ID = m.nextID
	m.rows[sale.ID] = sale
	return nil
}

func (m *memSales) CreateIfNew(ctx context.Context, sale *domain.Sale) (bool, error) {
	for _, existing := range m.rows {
		if existing.POSTransactionID == sale.POSTransactionID {
			return false, nil
		}
	}
	return true, m.Create(ctx, sale)
}

func (m *memSales) list() []*domain.Sale {
	out := make([]*domain.Sale, 0, len(m.rows))
	for _, sale := range m.rows {
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func (m *memSales) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Sale, error) {
	var out []*domain.Sale
	for _, sale := range m.list() {
		if !sale.Timestamp.Before(from) && sale.Timestamp.Before(to) {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (m *memSales) ListUnapplied(ctx context.Context) ([]*domain.Sale, error) {
	var out []*domain.Sale
	for _, sale := range m.list() {
		if !sale.UsageApplied {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (m *memSales) DailyRevenue(ctx context.Context, from, to time.Time) ([]*domain.DailySalesPoint, error) {
	byDay := make(map[time.Time]*domain.DailySalesPoint)
	for _, sale := range m.rows {
		if sale.Timestamp.Before(from) || !sale.Timestamp.Before(to) {
			continue
		}
		day := sale.Timestamp.UTC().Truncate(24 * time.Hour)
		point, ok := byDay[day]
		if !ok {
			point = &domain.DailySalesPoint{Day: day}
			byDay[day] = point
		}
		point.Revenue += sale.TotalAmount
		point.Quantity += sale.Quantity
	}

	out := make([]*domain.DailySalesPoint, 0, len(byDay))
	for _, point := range byDay {
		out = append(out, point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (m *memSales) TopSellers(ctx context.Context, from, to time.Time, limit int) ([]*domain.TopSeller, error) {
	units, _ := m.UnitsSoldByItem(ctx, from, to)
	revenue := make(map[string]float64)
	for _, sale := range m.rows {
		if !sale.Timestamp.Before(from) && sale.Timestamp.Before(to) {
			revenue[sale.ItemName] += sale.TotalAmount
		}
	}

	out := make([]*domain.TopSeller, 0, len(units))
	for name, qty := range units {
		out = append(out, &domain.TopSeller{ItemName: name, Quantity: qty, Revenue: revenue[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memSales) UnitsSoldByItem(ctx context.Context, from, to time.Time) (map[string]int, error) {
	units := make(map[string]int)
	for _, sale := range m.rows {
		if !sale.Timestamp.Before(from) && sale.Timestamp.Before(to) {
			units[sale.ItemName] += sale.Quantity
		}
	}
	return units, nil
}

func (m *memSales) ApplyUsage(ctx context.Context, saleID int64, day time.Time, perIngredient map[int64]float64) error {
	sale, ok := m.rows[saleID]
	if !ok || sale.UsageApplied {
		return nil
	}
	sale.UsageApplied = true

	for ingredientID, qty := range perIngredient {
		m.usage[usageKey{ingredientID, day}] += qty
		if m.ingredients != nil {
			_ = m.ingredients.AdjustStock(ctx, ingredientID, -qty)
		}
	}
	return nil
}

type memUsage struct {
	sales *memSales
}

func (m *memUsage) AverageDailyUsage(ctx context.Context, since time.Time, windowDays int) (map[int64]float64, error) {
	if windowDays < 1 {
		windowDays = 1
	}

	totals := make(map[int64]float64)
	for key, qty := range m.sales.usage {
		if key.day.Before(since) {
			continue
		}
		totals[key.ingredientID] += qty
	}

	avg := make(map[int64]float64, len(totals))
	for id, total := range totals {
		avg[id] = total / float64(windowDays)
	}
	return avg, nil
}

func (m *memUsage) ListForIngredient(ctx context.Context, ingredientID int64, from, to time.Time) ([]*domain.DailyUsage, error) {
	var out []*domain.DailyUsage
	for key, qty := range m.sales.usage {
		if key.ingredientID != ingredientID || key.day.Before(from) || !key.day.Before(to) {
			continue
		}
		out = append(out, &domain.DailyUsage{IngredientID: ingredientID, Day: key.day, QuantityUsed: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

// setUsage seeds one day of recorded usage without going through sales.
func (m *memSales) setUsage(ingredientID int64, day time.Time, qty float64) {
	m.usage[usageKey{ingredientID, day.UTC().Truncate(24 * time.Hour)}] = qty
}

// setSteadyUsage seeds qty on every day of the estimation window, so the
// resulting average daily usage equals qty.
func (m *memSales) setSteadyUsage(ingredientID int64, qty float64) {
	now := time.Now()
	for i := 0; i < usageWindowDays; i++ {
		m.setUsage(ingredientID, now.AddDate(0, 0, -i), qty)
	}
}

type memOrders struct {
	rows        map[int64]*domain.SupplierOrder
	nextID      int64
	ingredients *memIngredients
}

func newMemOrders(ingredients *memIngredients) *memOrders {
	return &memOrders{rows: make(map[int64]*domain.SupplierOrder), ingredients: ingredients}
}

func (m *memOrders) Create(ctx context.Context, order *domain.SupplierOrder) error {
	m.nextID++
	order.ID = m.nextID
	order.CreatedAt = time.Now()
	m.rows[order.ID] = order
	return nil
}

func (m *memOrders) List(ctx context.Context, status *domain.OrderStatus) ([]*domain.SupplierOrder, error) {
	out := make([]*domain.SupplierOrder, 0, len(m.rows))
	for _, order := range m.rows {
		if status == nil || order.Status == *status {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memOrders) Get(ctx context.Context, id int64) (*domain.SupplierOrder, error) {
	order, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (m *memOrders) MarkDelivered(ctx context.Context, id int64) (*domain.SupplierOrder, error) {
	order, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if order.Status != domain.OrderPending {
		return nil, domain.ErrOrderFinal
	}

	order.Status = domain.OrderDelivered
	now := time.Now()
	order.ActualDeliveryDate = &now
	for _, item := range order.Items {
		_ = m.ingredients.AdjustStock(ctx, item.IngredientID, item.Quantity)
	}
	return order, nil
}

func (m *memOrders) Cancel(ctx context.Context, id int64) error {
	order, ok := m.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	if order.Status != domain.OrderPending {
		return domain.ErrOrderFinal
	}
	order.Status = domain.OrderCancelled
	return nil
}

type historyKey struct {
	recipeID int64
	day      time.Time
}

type memHistory struct {
	rows map[historyKey]*domain.ProfitHistory
}

func newMemHistory() *memHistory {
	return &memHistory{rows: make(map[historyKey]*domain.ProfitHistory)}
}

func (m *memHistory) Upsert(ctx context.Context, entry *domain.ProfitHistory) error {
	key := historyKey{entry.RecipeID, entry.Date}
	if existing, ok := m.rows[key]; ok {
		qty := existing.QuantitySold + entry.QuantitySold
		*existing = *entry
		existing.QuantitySold = qty
		return nil
	}
	copied := *entry
	m.rows[key] = &copied
	return nil
}

func (m *memHistory) Replace(ctx context.Context, entry *domain.ProfitHistory) error {
	copied := *entry
	m.rows[historyKey{entry.RecipeID, entry.Date}] = &copied
	return nil
}

func (m *memHistory) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.ProfitHistory, error) {
	var out []*domain.ProfitHistory
	for key, entry := range m.rows {
		if key.day.Before(from) || !key.day.Before(to) {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type memSettings struct {
	rows map[string]string
}

func newMemSettings() *memSettings {
	return &memSettings{rows: make(map[string]string)}
}

func (m *memSettings) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.rows[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return value, nil
}

func (m *memSettings) Set(ctx context.Context, key, value string) error {
	m.rows[key] = value
	return nil
}
