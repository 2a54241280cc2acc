package integration

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"closet-backend/internal/config"
	"closet-backend/internal/domain"
	"closet-backend/internal/repository/postgres"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "../../config/config.test.yaml", "path to config file")
}

func prepareDB(t *testing.T) *sql.DB {
	// Ensure flags are parsed
	if !flag.Parsed() {
		flag.Parse()
	}

	// Logic to handle running from root vs package dir
	finalPath := configPath
	if _, err := os.Stat(finalPath); os.IsNotExist(err) {
		// If running from tests/integration, try going up
		altPath := filepath.Join("..", "..", configPath)
		if _, err := os.Stat(altPath); err == nil {
			finalPath = altPath
		}
	}

	cfg, err := config.Load(finalPath)
	if err != nil {
		t.Fatalf("failed to load config from %s: %v", finalPath, err)
	}

	connStr := cfg.GetDatabaseConnectionString()

	var db *sql.DB

	// Retry connection as DB might still be starting up
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
			if err == nil {
				applySchema(t, db)
				return db
			}
		}
		time.Sleep(2 * time.Second)
	}
	t.Fatalf("failed to connect to database: %v", err)
	return nil
}

// applySchema runs the init migration; it is idempotent so every test can
// call prepareDB against the same database.
func applySchema(t *testing.T, db *sql.DB) {
	path := filepath.Join("..", "..", "db", "migrations", "001_init.sql")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = filepath.Join("db", "migrations", "001_init.sql")
	}
	schema, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read schema file: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
}

// Seed helpers. Names and emails carry a nanosecond suffix so repeated runs
// against the same database never collide.

func seedCustomer(t *testing.T, store *postgres.Store) *domain.Customer {
	c := &domain.Customer{
		Name:            fmt.Sprintf("Customer-%d", time.Now().UnixNano()),
		Email:           fmt.Sprintf("customer-%d@t.com", time.Now().UnixNano()),
		FinancialStatus: domain.FinancialStatusActive,
	}
	require.NoError(t, store.Customers.Create(context.Background(), c))
	require.NotZero(t, c.ID, "customer ID should be set after creation")
	return c
}

func seedGarment(t *testing.T, store *postgres.Store, priceCents int32) *domain.Garment {
	g := &domain.Garment{
		Name:             fmt.Sprintf("Gown-%d", time.Now().UnixNano()),
		Category:         domain.CategoryParty,
		Size:             "M",
		RentalPriceCents: priceCents,
		Status:           domain.GarmentStatusAvailable,
	}
	require.NoError(t, store.Garments.Create(context.Background(), g))
	require.NotZero(t, g.ID, "garment ID should be set after creation")
	return g
}

func seedReservation(t *testing.T, store *postgres.Store, customerID, garmentID int32,
	status domain.ReservationStatus, startDate, endDate string) *domain.Reservation {
	ctx := context.Background()
	res := &domain.Reservation{
		CustomerID:      customerID,
		StartDate:       startDate,
		EndDate:         endDate,
		Status:          status,
		TotalValueCents: 10000,
		PaymentStatus:   domain.PaymentStatusPending,
	}
	require.NoError(t, store.Reservations.Create(ctx, res))
	require.NotZero(t, res.ID, "reservation ID should be set after creation")
	require.NoError(t, store.Reservations.CreateItems(ctx, res.ID,
		[]domain.ReservationItem{{GarmentID: garmentID, Size: "M"}}))
	return res
}
