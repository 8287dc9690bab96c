package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/prajwaldhage/Test-Inventory/internal/cache"
	"github.com/prajwaldhage/Test-Inventory/internal/config"
	"github.com/prajwaldhage/Test-Inventory/internal/domain"
	"github.com/prajwaldhage/Test-Inventory/internal/service"
	"github.com/prajwaldhage/Test-Inventory/internal/store"
	"github.com/prajwaldhage/Test-Inventory/internal/store/memory"
	pgstore "github.com/prajwaldhage/Test-Inventory/internal/store/postgres"
)

// Interactive counter tool: registers a customer, then answers brand price
// lookups for that customer's pricing class. Shares the server's store.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable: %v", err)
		}
		defer func() { _ = pg.Close() }()
		repo = pg
	} else {
		repo = memory.NewSeeded()
		fmt.Println("(no DATABASE_URL set, using seeded in-memory data)")
	}

	svc := service.New(repo, cache.NewNoop())
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("--- Customer Registration ---")
	name := prompt(reader, "Customer name: ")
	phone := prompt(reader, "Mobile number: ")
	customerType := promptType(reader)

	result, err := svc.RegisterCustomer(context.Background(), domain.CustomerCreateRequest{
		Name:  name,
		Phone: phone,
		Type:  customerType,
	})
	if err != nil {
		log.Fatalf("registration failed: %v", err)
	}
	if result.Created {
		fmt.Printf("Registered customer #%d (%s)\n", result.Customer.ID, domain.TitleCase(result.Customer.Type))
	} else {
		fmt.Printf("Customer already exists: #%d (%s)\n", result.Customer.ID, domain.TitleCase(result.Customer.Type))
	}

	fmt.Println("--- Brand Price Lookup ---")
	for {
		brand := prompt(reader, "Brand (empty to quit): ")
		if brand == "" {
			return
		}
		price, err := svc.BrandPrice(context.Background(), result.Customer.Type, brand)
		switch {
		case errors.Is(err, store.ErrNotFound):
			fmt.Printf("No inventory found for brand %q\n", brand)
		case err != nil:
			log.Fatalf("lookup failed: %v", err)
		default:
			fmt.Printf("%s price for %s: %d\n", domain.TitleCase(result.Customer.Type), brand, price)
		}
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func promptType(reader *bufio.Reader) string {
	for {
		choice := prompt(reader, "Type [1=Retail 2=Wholesale 3=Hotel-Line]: ")
		switch choice {
		case "1":
			return domain.CustomerTypeRetail
		case "2":
			return domain.CustomerTypeWholesale
		case "3":
			return domain.CustomerTypeHotelLine
		default:
			fmt.Println("Enter 1, 2 or 3.")
		}
	}
}
