package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prajwaldhage/Test-Inventory/internal/cache"
	"github.com/prajwaldhage/Test-Inventory/internal/domain"
	"github.com/prajwaldhage/Test-Inventory/internal/store"
	"github.com/prajwaldhage/Test-Inventory/internal/store/memory"
)

func newTestService() (*Service, *memory.Store) {
	repo := memory.NewSeeded()
	return New(repo, cache.NewNoop()), repo
}

func TestRegisterCustomerIsIdempotentByPhone(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.RegisterCustomer(ctx, domain.CustomerCreateRequest{
		Name:  "Asha",
		Phone: "9876500001",
		Type:  "retail",
	})
	if err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if !first.Created {
		t.Fatalf("expected first registration to create")
	}
	if first.Customer.Type != domain.CustomerTypeRetail {
		t.Fatalf("expected stored type RETAIL, got %s", first.Customer.Type)
	}

	second, err := svc.RegisterCustomer(ctx, domain.CustomerCreateRequest{
		Name:  "Asha Again",
		Phone: "9876500001",
		Type:  "wholesale",
	})
	if err != nil {
		t.Fatalf("repeat registration failed: %v", err)
	}
	if second.Created {
		t.Fatalf("expected repeat registration to resolve to existing customer")
	}
	if second.Customer.ID != first.Customer.ID {
		t.Fatalf("expected same customer id, got %d and %d", first.Customer.ID, second.Customer.ID)
	}
	if second.Customer.Type != domain.CustomerTypeRetail {
		t.Fatalf("repeat registration must not rewrite the class, got %s", second.Customer.Type)
	}
}

func TestRegisterCustomerValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, domain.CustomerCreateRequest{Name: "No Phone", Type: "retail"})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing phone, got %v", err)
	}

	_, err = svc.RegisterCustomer(ctx, domain.CustomerCreateRequest{Name: "Bad", Phone: "9', '9'); DROP TABLE", Type: "vip"})
	if !errors.Is(err, store.ErrInvalidCustomerType) {
		t.Fatalf("expected ErrInvalidCustomerType, got %v", err)
	}
}

func TestSuggestCustomersEmptyTermShortCircuits(t *testing.T) {
	svc, _ := newTestService()

	out, err := svc.SuggestCustomers(context.Background(), "   ")
	if err != nil {
		t.Fatalf("suggest failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(out))
	}
}

func TestSuggestCustomersTitleCasesTheClass(t *testing.T) {
	svc, _ := newTestService()

	out, err := svc.SuggestCustomers(context.Background(), "Hotel")
	if err != nil {
		t.Fatalf("suggest failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one match for prefix Hotel, got %d", len(out))
	}
	if out[0].Type != "Hotel-Line" {
		t.Fatalf("expected Hotel-Line, got %q", out[0].Type)
	}
}

func TestSuggestProductsPerClassPricing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		customerType string
		want         int64
	}{
		{"WHOLESALE", 14},
		{"RETAIL", 16},
		{"HOTEL-LINE", 15},
	}
	for _, tc := range cases {
		out, err := svc.SuggestProducts(ctx, "tata salt", tc.customerType)
		if err != nil {
			t.Fatalf("suggest %s failed: %v", tc.customerType, err)
		}
		if len(out) != 1 {
			t.Fatalf("expected one match for %s, got %d", tc.customerType, len(out))
		}
		if out[0].Price != tc.want {
			t.Fatalf("%s: expected price %d, got %d", tc.customerType, tc.want, out[0].Price)
		}
		if out[0].Name != "Tata Salt" {
			t.Fatalf("unexpected display name %q", out[0].Name)
		}
	}
}

func TestSuggestProductsRejectsUnknownClass(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SuggestProducts(context.Background(), "salt", "VIP")
	if !errors.Is(err, store.ErrInvalidCustomerType) {
		t.Fatalf("expected ErrInvalidCustomerType, got %v", err)
	}
}

func TestSuggestProductsEmptyTermOrClass(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, args := range [][2]string{{"", "RETAIL"}, {"salt", ""}} {
		out, err := svc.SuggestProducts(ctx, args[0], args[1])
		if err != nil {
			t.Fatalf("suggest (%q,%q) failed: %v", args[0], args[1], err)
		}
		if len(out) != 0 {
			t.Fatalf("expected no suggestions for (%q,%q)", args[0], args[1])
		}
	}
}

func TestProcessBillAccruesProfitAndDecrementsStock(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	// Ravi Kumar (id 2) is Retail; Tata Salt retail 16, purchase 10, stock 100.
	bill, err := svc.ProcessBill(ctx, domain.BillCreateRequest{
		CustomerID: 2,
		Items: []domain.BillLineItem{
			{Name: " tata salt ", Quantity: domain.QuantityOf(5)},
		},
		Subtotal:      80,
		Tax:           4,
		Total:         84,
		PaymentMethod: "UPI",
	})
	if err != nil {
		t.Fatalf("process bill failed: %v", err)
	}
	if bill.Profit != 30 {
		t.Fatalf("expected profit 30, got %d", bill.Profit)
	}
	if bill.PaymentMethod != domain.PaymentOnline {
		t.Fatalf("expected UPI to normalize to Online, got %s", bill.PaymentMethod)
	}
	if bill.Status != domain.StatusSuccessful {
		t.Fatalf("expected status Successful, got %s", bill.Status)
	}
	if bill.Subtotal != 80 || bill.Total != 84 {
		t.Fatalf("caller figures must be recorded as sent, got subtotal=%v total=%v", bill.Subtotal, bill.Total)
	}

	stock, ok := repo.ItemStock("TATA SALT")
	if !ok {
		t.Fatalf("seed item missing")
	}
	if stock != 95 {
		t.Fatalf("expected stock 95 after selling 5, got %d", stock)
	}
}

func TestProcessBillSkipsMalformedLines(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	bill, err := svc.ProcessBill(ctx, domain.BillCreateRequest{
		CustomerID: 2,
		Items: []domain.BillLineItem{
			{Name: "Tata Salt", Quantity: domain.Quantity{}},
			{Name: "Tata Salt", Quantity: domain.QuantityOf(0)},
			{Name: "   ", Quantity: domain.QuantityOf(2)},
			{Name: "Tata Salt", Quantity: domain.QuantityOf(3)},
		},
		Total:         48,
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("process bill failed: %v", err)
	}
	if bill.ItemCount != 1 {
		t.Fatalf("expected one surviving line, got %d", bill.ItemCount)
	}
	stock, _ := repo.ItemStock("TATA SALT")
	if stock != 97 {
		t.Fatalf("expected stock 97, got %d", stock)
	}
}

func TestProcessBillAllInvalidLinesWritesNothing(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.ProcessBill(ctx, domain.BillCreateRequest{
		CustomerID: 2,
		Items: []domain.BillLineItem{
			{Name: "Tata Salt", Quantity: domain.QuantityOf(-1)},
			{Name: "", Quantity: domain.QuantityOf(2)},
		},
	})
	if !errors.Is(err, store.ErrNoBillableItems) {
		t.Fatalf("expected ErrNoBillableItems, got %v", err)
	}

	stock, _ := repo.ItemStock("TATA SALT")
	if stock != 100 {
		t.Fatalf("expected stock untouched, got %d", stock)
	}
	bills, err := svc.ListBills(ctx)
	if err != nil {
		t.Fatalf("list bills failed: %v", err)
	}
	if len(bills) != 0 {
		t.Fatalf("expected no bill rows, got %d", len(bills))
	}
}

func TestProcessBillUnknownItemContributesNothing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	bill, err := svc.ProcessBill(ctx, domain.BillCreateRequest{
		CustomerID: 2,
		Items: []domain.BillLineItem{
			{Name: "Ghost Brand Ghost Item", Quantity: domain.QuantityOf(4)},
		},
		Total: 40,
	})
	if err != nil {
		t.Fatalf("process bill failed: %v", err)
	}
	if bill.Profit != 0 {
		t.Fatalf("expected zero profit for unmatched line, got %d", bill.Profit)
	}
	if bill.ItemCount != 1 {
		t.Fatalf("unmatched lines still count as billed, got %d", bill.ItemCount)
	}
}

func TestProcessBillUnknownCustomer(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ProcessBill(context.Background(), domain.BillCreateRequest{
		CustomerID: 999,
		Items: []domain.BillLineItem{
			{Name: "Tata Salt", Quantity: domain.QuantityOf(1)},
		},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListBillsNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.ProcessBill(ctx, domain.BillCreateRequest{
			CustomerID: 1,
			Items: []domain.BillLineItem{
				{Name: "Parle Glucose Biscuit", Quantity: domain.QuantityOf(1)},
			},
			Total: 8,
		})
		if err != nil {
			t.Fatalf("process bill %d failed: %v", i, err)
		}
	}

	bills, err := svc.ListBills(ctx)
	if err != nil {
		t.Fatalf("list bills failed: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("expected 3 bills, got %d", len(bills))
	}
	for i := 1; i < len(bills); i++ {
		if bills[i-1].ID <= bills[i].ID {
			t.Fatalf("expected newest first, got ids %d then %d", bills[i-1].ID, bills[i].ID)
		}
	}
	if bills[0].CustomerName != "Asha Traders" {
		t.Fatalf("expected joined customer name, got %q", bills[0].CustomerName)
	}
}

func TestNormalizePayment(t *testing.T) {
	cases := map[string]string{
		"UPI":         domain.PaymentOnline,
		"gpay":        domain.PaymentOnline,
		" PhonePe ":   domain.PaymentOnline,
		"cash":        domain.PaymentCash,
		"Credit":      domain.PaymentCredit,
		"Debit Card":  domain.PaymentCard,
		"credit card": domain.PaymentCard,
		"Bogus":       domain.PaymentCash,
		"":            domain.PaymentCash,
	}
	for input, want := range cases {
		if got := NormalizePayment(input); got != want {
			t.Fatalf("NormalizePayment(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBrandPrice(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	price, err := svc.BrandPrice(ctx, "wholesale", "tata")
	if err != nil {
		t.Fatalf("brand price failed: %v", err)
	}
	if price != 14 {
		t.Fatalf("expected wholesale rate 14, got %d", price)
	}

	_, err = svc.BrandPrice(ctx, "retail", "NoSuchBrand")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
