package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/mverbeke/kassa-api/internal/domain/repository"
	"github.com/mverbeke/kassa-api/pkg/pagination"
)

// memStore backs the in-memory repository fakes. One store is shared
// between the fakes so a sale's stock movements are visible through
// the product repository, the way a real database would behave.
type memStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]*entity.Product
	sales     []entity.Sale
	movements []entity.StockMovement
	cards     map[uuid.UUID]*entity.LoyaltyCard
	employees map[uuid.UUID]*entity.Employee

	saleCreateErr error // injected failure for the next sale Create
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]*entity.Product),
		cards:     make(map[uuid.UUID]*entity.LoyaltyCard),
		employees: make(map[uuid.UUID]*entity.Employee),
	}
}

func (s *memStore) addProduct(p *entity.Product) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addCard(c *entity.LoyaltyCard) *entity.LoyaltyCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.cards[c.ID] = c
	return c
}

// applyMovement mirrors the repository behavior: fill the before/after
// stock levels and apply the signed delta. Caller holds the lock.
func (s *memStore) applyMovement(m *entity.StockMovement) {
	product := s.products[m.ProductID]
	m.ID = uuid.New()
	m.PreviousStock = product.Stock
	m.NewStock = product.Stock + m.Quantity
	m.CreatedAt = time.Now()
	product.Stock = m.NewStock
	s.movements = append(s.movements, *m)
}

func (s *memStore) productStock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) movementsFor(id uuid.UUID) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID == id {
			out = append(out, m)
		}
	}
	return out
}

// memProductRepo is the in-memory ProductRepository.

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.store.addProduct(product)
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Product
	for _, p := range r.store.products {
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		if params.LowStock && !p.LowOnStock() {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, id)
	return nil
}

func (r *memProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Product
	for _, p := range r.store.products {
		if p.LowOnStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) AdjustStock(ctx context.Context, movement *entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.applyMovement(movement)
	return nil
}

// memMovementRepo is the in-memory StockMovementRepository.

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.StockMovement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		if r.store.movements[i].ProductID == productID {
			out = append(out, r.store.movements[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByReference(ctx context.Context, reference string) ([]entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range r.store.movements {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}

// memSaleRepo is the in-memory SaleRepository.

type memSaleRepo struct{ store *memStore }

func (r *memSaleRepo) Create(ctx context.Context, sale *entity.Sale, movements []entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.saleCreateErr; err != nil {
		return err
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = time.Now()
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
	}
	for i := range movements {
		r.store.applyMovement(&movements[i])
	}
	r.store.sales = append(r.store.sales, *sale)
	return nil
}

func (r *memSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.sales {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSaleRepo) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.sales {
		if s.ReceiptNumber == receiptNumber {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Sale
	for _, s := range r.store.sales {
		if params.EmployeeID != nil && s.EmployeeID != *params.EmployeeID {
			continue
		}
		if params.StartDate != nil && s.SoldAt.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && s.SoldAt.After(*params.EndDate) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt.After(out[j].SoldAt) })
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *memSaleRepo) SumTotals(ctx context.Context, start, end time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var total int64
	for _, s := range r.store.sales {
		if s.SoldAt.Before(start) || s.SoldAt.After(end) {
			continue
		}
		total += s.Total
	}
	return total, nil
}

func (r *memSaleRepo) Refund(ctx context.Context, sale *entity.Sale, movements []entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.sales {
		if r.store.sales[i].ID == sale.ID {
			r.store.sales[i] = *sale
			break
		}
	}
	for i := range movements {
		r.store.applyMovement(&movements[i])
	}
	return nil
}

// memLoyaltyRepo is the in-memory LoyaltyCardRepository.

type memLoyaltyRepo struct{ store *memStore }

func (r *memLoyaltyRepo) Create(ctx context.Context, card *entity.LoyaltyCard) error {
	r.store.addCard(card)
	return nil
}

func (r *memLoyaltyRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.LoyaltyCard, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.cards[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memLoyaltyRepo) GetByNumber(ctx context.Context, number string) (*entity.LoyaltyCard, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.cards {
		if c.Number == number {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLoyaltyRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.LoyaltyCard, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.LoyaltyCard
	for _, c := range r.store.cards {
		if search != "" && !strings.Contains(strings.ToLower(c.CustomerName), strings.ToLower(search)) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, int64(len(out)), nil
}

func (r *memLoyaltyRepo) Update(ctx context.Context, card *entity.LoyaltyCard) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *card
	r.store.cards[card.ID] = &cp
	return nil
}

func (r *memLoyaltyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.cards, id)
	return nil
}

// memEmployeeRepo is the in-memory EmployeeRepository.

type memEmployeeRepo struct{ store *memStore }

func (r *memEmployeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	r.store.employees[employee.ID] = employee
	return nil
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *memEmployeeRepo) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range r.store.employees {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memEmployeeRepo) List(ctx context.Context) ([]entity.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Employee
	for _, e := range r.store.employees {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *memEmployeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *employee
	r.store.employees[employee.ID] = &cp
	return nil
}

func (r *memEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.employees, id)
	return nil
}

// memSalesCache is the in-memory SalesCache, with counters the tests
// assert against.
type memSalesCache struct {
	mu          sync.Mutex
	sales       []entity.Sale
	warm        bool
	sets        int
	invalidates int
}

func (c *memSalesCache) GetRecent(ctx context.Context, limit int) ([]entity.Sale, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.warm || len(c.sales) < limit {
		return nil, false
	}
	out := c.sales
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, true
}

func (c *memSalesCache) SetRecent(ctx context.Context, sales []entity.Sale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sales = sales
	c.warm = true
	c.sets++
}

func (c *memSalesCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sales = nil
	c.warm = false
	c.invalidates++
}
