package store

import (
	"context"
	"errors"

	"github.com/prajwaldhage/Test-Inventory/internal/domain"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCustomerType = errors.New("invalid customer type")
	ErrNoBillableItems     = errors.New("no billable items")
	ErrUnavailable         = errors.New("store unavailable")
)

type Repository interface {
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	SearchCustomersByNamePrefix(ctx context.Context, prefix string) ([]domain.Customer, error)
	SearchProducts(ctx context.Context, term string) ([]domain.InventoryItem, error)
	LookupBrandRate(ctx context.Context, brand string) (*domain.InventoryItem, error)
	CreateBill(ctx context.Context, draft domain.BillDraft) (*domain.Bill, error)
	ListBills(ctx context.Context) ([]domain.BillRecord, error)
}
