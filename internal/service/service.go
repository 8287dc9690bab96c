package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/prajwaldhage/Test-Inventory/internal/cache"
	"github.com/prajwaldhage/Test-Inventory/internal/domain"
	"github.com/prajwaldhage/Test-Inventory/internal/store"
)

// paymentAliases maps lowercased caller payment strings to the canonical
// methods. Anything absent falls back to Cash.
var paymentAliases = map[string]string{
	"online":      domain.PaymentOnline,
	"upi":         domain.PaymentOnline,
	"gpay":        domain.PaymentOnline,
	"phonepe":     domain.PaymentOnline,
	"cash":        domain.PaymentCash,
	"credit":      domain.PaymentCredit,
	"card":        domain.PaymentCard,
	"debit card":  domain.PaymentCard,
	"credit card": domain.PaymentCard,
}

type Service struct {
	repo        store.Repository
	suggestions cache.SuggestionCache
}

func New(repo store.Repository, suggestions cache.SuggestionCache) *Service {
	if suggestions == nil {
		suggestions = cache.NewNoop()
	}
	return &Service{repo: repo, suggestions: suggestions}
}

type RegisterResult struct {
	Customer domain.Customer
	Created  bool
}

// RegisterCustomer creates a customer, or returns the existing one when the
// phone number is already registered. Customers are immutable afterwards; a
// repeat registration never rewrites the stored pricing class.
func (s *Service) RegisterCustomer(ctx context.Context, req domain.CustomerCreateRequest) (RegisterResult, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	customerType := domain.NormalizeKey(req.Type)

	if name == "" || phone == "" || customerType == "" {
		return RegisterResult{}, fmt.Errorf("%w: name, phone and type are required", store.ErrValidation)
	}
	if !domain.ValidCustomerType(customerType) {
		return RegisterResult{}, fmt.Errorf("%w: %s", store.ErrInvalidCustomerType, req.Type)
	}

	if existing, err := s.repo.FindCustomerByPhone(ctx, phone); err == nil {
		return RegisterResult{Customer: *existing, Created: false}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return RegisterResult{}, err
	}

	created, err := s.repo.CreateCustomer(ctx, domain.Customer{
		Name:  name,
		Phone: phone,
		Type:  customerType,
	})
	if err != nil {
		return RegisterResult{}, err
	}
	// On a phone race the store resolves to the first writer's row; both
	// callers still get the same id back.
	return RegisterResult{Customer: *created, Created: true}, nil
}

// SuggestCustomers returns autocomplete rows for a typed name prefix. The
// match is case-sensitive against the trimmed stored name. An empty term
// returns no rows without touching the store.
func (s *Service) SuggestCustomers(ctx context.Context, term string) ([]domain.CustomerSuggestion, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.CustomerSuggestion{}, nil
	}

	customers, err := s.repo.SearchCustomersByNamePrefix(ctx, term)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CustomerSuggestion, 0, len(customers))
	for _, customer := range customers {
		out = append(out, domain.CustomerSuggestion{
			Name:   strings.TrimSpace(customer.Name),
			Mobile: customer.Phone,
			Type:   domain.TitleCase(customer.Type),
		})
	}
	return out, nil
}

// SuggestProducts returns inventory rows whose "BRAND PRODUCT" name contains
// the term, each priced for the given customer class. An empty term or class
// yields no rows; an unrecognized class is an error.
func (s *Service) SuggestProducts(ctx context.Context, term string, customerType string) ([]domain.ProductSuggestion, error) {
	term = strings.TrimSpace(term)
	customerType = domain.NormalizeKey(customerType)
	if term == "" || customerType == "" {
		return []domain.ProductSuggestion{}, nil
	}
	if !domain.ValidCustomerType(customerType) {
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidCustomerType, customerType)
	}

	cacheKey := "suggest:" + customerType + ":" + domain.NormalizeKey(term)
	var cached []domain.ProductSuggestion
	if found, err := s.suggestions.Get(ctx, cacheKey, &cached); err != nil {
		log.Printf("[service] WARN: suggestion cache read failed: %v", err)
	} else if found {
		return cached, nil
	}

	items, err := s.repo.SearchProducts(ctx, term)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProductSuggestion, 0, len(items))
	for _, item := range items {
		out = append(out, domain.ProductSuggestion{
			Name:  strings.TrimSpace(item.Brand) + " " + strings.TrimSpace(item.Product),
			Price: domain.SellingRate(item, customerType),
		})
	}

	if err := s.suggestions.Set(ctx, cacheKey, out); err != nil {
		log.Printf("[service] WARN: suggestion cache write failed: %v", err)
	}
	return out, nil
}

// ProcessBill validates and normalizes a checkout, then hands the store one
// transactional write. The caller's subtotal, tax, discount and total are
// recorded as sent; only profit and stock are derived server-side.
func (s *Service) ProcessBill(ctx context.Context, req domain.BillCreateRequest) (*domain.Bill, error) {
	customer, err := s.repo.GetCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.BillDraftItem, 0, len(req.Items))
	for _, item := range req.Items {
		qty, ok := item.Quantity.Int()
		if !ok || qty < 1 {
			continue
		}
		nameKey := domain.NormalizeKey(item.Name)
		if nameKey == "" {
			continue
		}
		lines = append(lines, domain.BillDraftItem{NameKey: nameKey, Quantity: int(qty)})
	}
	if len(lines) == 0 {
		return nil, store.ErrNoBillableItems
	}

	draft := domain.BillDraft{
		CustomerID:    customer.ID,
		CustomerType:  domain.NormalizeKey(customer.Type),
		Items:         lines,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Total:         req.Total,
		PaymentMethod: NormalizePayment(req.PaymentMethod),
	}
	return s.repo.CreateBill(ctx, draft)
}

func (s *Service) ListBills(ctx context.Context) ([]domain.BillRecord, error) {
	return s.repo.ListBills(ctx)
}

// BrandPrice is the console lookup: the class rate of the first inventory row
// whose brand matches, case-insensitively.
func (s *Service) BrandPrice(ctx context.Context, customerType string, brand string) (int64, error) {
	customerType = domain.NormalizeKey(customerType)
	if !domain.ValidCustomerType(customerType) {
		return 0, fmt.Errorf("%w: %s", store.ErrInvalidCustomerType, customerType)
	}
	if strings.TrimSpace(brand) == "" {
		return 0, fmt.Errorf("%w: brand is required", store.ErrValidation)
	}

	item, err := s.repo.LookupBrandRate(ctx, brand)
	if err != nil {
		return 0, err
	}
	return domain.SellingRate(*item, customerType), nil
}

// NormalizePayment folds free-text payment input onto the four canonical
// methods. Unknown values settle as Cash, never an error.
func NormalizePayment(method string) string {
	if canonical, ok := paymentAliases[strings.ToLower(strings.TrimSpace(method))]; ok {
		return canonical
	}
	return domain.PaymentCash
}
