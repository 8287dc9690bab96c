package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prajwaldhage/Test-Inventory/internal/domain"
	"github.com/prajwaldhage/Test-Inventory/internal/store"
)

// Store is a mutex-guarded in-memory Repository. It backs dev mode (no
// DATABASE_URL) and the test suites.
type Store struct {
	mu              sync.RWMutex
	customersByID   map[int64]domain.Customer
	customerByPhone map[string]int64
	inventory       []domain.InventoryItem
	bills           []domain.Bill
	nextCustomerID  int64
	nextInventoryID int64
	nextBillID      int64
}

func New() *Store {
	return &Store{
		customersByID:   map[int64]domain.Customer{},
		customerByPhone: map[string]int64{},
		nextCustomerID:  1,
		nextInventoryID: 1,
		nextBillID:      1,
	}
}

// NewSeeded returns a store preloaded with a small grocery inventory and a
// few walk-in customers, enough to exercise every billing path.
func NewSeeded() *Store {
	s := New()
	items := []domain.InventoryItem{
		{Brand: "Tata", Product: "Salt", Category: "Grocery", Stock: 100, MRP: 20, PurchaseRate: 10, WholesaleRate: 14, RetailRate: 16, HotelRate: 15},
		{Brand: "Aashirvaad", Product: "Atta 5kg", Category: "Grocery", Stock: 40, MRP: 260, PurchaseRate: 210, WholesaleRate: 230, RetailRate: 250, HotelRate: 240},
		{Brand: "Fortune", Product: "Sunflower Oil 1L", Category: "Grocery", Stock: 60, MRP: 150, PurchaseRate: 118, WholesaleRate: 130, RetailRate: 142, HotelRate: 136},
		{Brand: "Amul", Product: "Butter 500g", Category: "Dairy", Stock: 25, MRP: 275, PurchaseRate: 236, WholesaleRate: 252, RetailRate: 268, HotelRate: 260},
		{Brand: "Parle", Product: "Glucose Biscuit", Category: "Snacks", Stock: 200, MRP: 10, PurchaseRate: 7, WholesaleRate: 8, RetailRate: 10, HotelRate: 9},
		{Brand: "Nescafe", Product: "Classic 50g", Category: "Beverage", Stock: 30, MRP: 190, PurchaseRate: 152, WholesaleRate: 168, RetailRate: 182, HotelRate: 175},
	}
	for _, item := range items {
		item.ID = s.nextInventoryID
		s.nextInventoryID++
		s.inventory = append(s.inventory, item)
	}
	for _, c := range []domain.Customer{
		{Name: "Asha Traders", Phone: "9000000001", Type: domain.CustomerTypeWholesale},
		{Name: "Ravi Kumar", Phone: "9000000002", Type: domain.CustomerTypeRetail},
		{Name: "Hotel Annapurna", Phone: "9000000003", Type: domain.CustomerTypeHotelLine},
	} {
		c.ID = s.nextCustomerID
		s.nextCustomerID++
		s.customersByID[c.ID] = c
		s.customerByPhone[c.Phone] = c.ID
	}
	return s
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.customerByPhone[customer.Phone]; ok {
		existing := s.customersByID[id]
		return &existing, nil
	}
	customer.ID = s.nextCustomerID
	s.nextCustomerID++
	s.customersByID[customer.ID] = customer
	s.customerByPhone[customer.Phone] = customer.ID
	created := customer
	return &created, nil
}

func (s *Store) GetCustomerByID(_ context.Context, id int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, exists := s.customersByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyCustomer := customer
	return &copyCustomer, nil
}

func (s *Store) FindCustomerByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.customerByPhone[phone]
	if !exists {
		return nil, store.ErrNotFound
	}
	customer := s.customersByID[id]
	return &customer, nil
}

func (s *Store) SearchCustomersByNamePrefix(_ context.Context, prefix string) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Customer{}
	for _, customer := range s.customersByID {
		if strings.HasPrefix(strings.TrimSpace(customer.Name), prefix) {
			out = append(out, customer)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SearchProducts(_ context.Context, term string) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := domain.NormalizeKey(term)
	out := []domain.InventoryItem{}
	for _, item := range s.inventory {
		if strings.Contains(domain.ItemNameKey(item.Brand, item.Product), needle) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) LookupBrandRate(_ context.Context, brand string) (*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := domain.NormalizeKey(brand)
	for _, item := range s.inventory {
		if domain.NormalizeKey(item.Brand) == needle {
			copyItem := item
			return &copyItem, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateBill(_ context.Context, draft domain.BillDraft) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customersByID[draft.CustomerID]; !exists {
		return nil, store.ErrNotFound
	}

	// Lines that match no inventory row contribute nothing and touch nothing;
	// matching rows are decremented with no stock floor.
	var profit int64
	for _, line := range draft.Items {
		for i := range s.inventory {
			item := &s.inventory[i]
			if domain.ItemNameKey(item.Brand, item.Product) != line.NameKey {
				continue
			}
			selling := domain.SellingRate(*item, draft.CustomerType)
			profit += (selling - item.PurchaseRate) * int64(line.Quantity)
			item.Stock -= line.Quantity
			break
		}
	}

	bill := domain.Bill{
		ID:            s.nextBillID,
		CustomerID:    draft.CustomerID,
		ItemCount:     len(draft.Items),
		Subtotal:      draft.Subtotal,
		Tax:           draft.Tax,
		Discount:      draft.Discount,
		Total:         draft.Total,
		Profit:        profit,
		PaymentMethod: draft.PaymentMethod,
		PaymentDate:   time.Now().UTC().Format("2006-01-02"),
		Status:        domain.StatusSuccessful,
	}
	s.nextBillID++
	s.bills = append(s.bills, bill)
	created := bill
	return &created, nil
}

func (s *Store) ListBills(_ context.Context) ([]domain.BillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BillRecord, 0, len(s.bills))
	for i := len(s.bills) - 1; i >= 0; i-- {
		bill := s.bills[i]
		out = append(out, domain.BillRecord{
			Bill:         bill,
			CustomerName: s.customersByID[bill.CustomerID].Name,
		})
	}
	return out, nil
}

// AddItem inserts an inventory row directly, bypassing billing. Test helper.
func (s *Store) AddItem(item domain.InventoryItem) domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.nextInventoryID
	s.nextInventoryID++
	s.inventory = append(s.inventory, item)
	return item
}

// ItemStock reports the current stock of the row matching the normalized
// name, and whether such a row exists. Test helper.
func (s *Store) ItemStock(nameKey string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.inventory {
		if domain.ItemNameKey(item.Brand, item.Product) == nameKey {
			return item.Stock, true
		}
	}
	return 0, false
}
