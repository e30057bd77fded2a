package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and
// the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Seeded fixture identifiers.
const (
	StoreID       = "store-1"
	StoreSlug     = "pizzaria-do-ze"
	ClosedStoreID = "store-closed"
	CouponCode    = "PROMO10"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

// allDay keeps the store open around the clock except the last minute of
// each day.
func allDay() []model.BusinessHour {
	hours := make([]model.BusinessHour, 7)
	for d := range hours {
		hours[d] = model.BusinessHour{Day: d, Open: "00:00", Close: "23:59", IsOpen: true}
	}
	return hours
}

// SeedStorefront inserts an always-open store with a small menu, a store
// that never opens, and a percent coupon with a single use.
func SeedStorefront(t *testing.T, pool *pgxpool.Pool, calabresaStock int) {
	t.Helper()

	ctx := context.Background()

	stores := []model.Store{
		{
			ID: StoreID, Slug: StoreSlug, Name: "Pizzaria do Zé", IsActive: true,
			Timezone: "America/Sao_Paulo", Latitude: floatPtr(-23.5505), Longitude: floatPtr(-46.6333),
			Settings: model.StoreSettings{
				BusinessHours: allDay(),
				Checkout:      model.CheckoutSettings{Mode: model.CheckoutModePhoneRequired},
				Delivery:      model.DeliverySettings{Enabled: true, RadiusKm: 5, Fee: 7.50},
				Scheduling:    model.SchedulingSettings{Enabled: true},
			},
		},
		{
			ID: ClosedStoreID, Slug: "fechado", Name: "Fechado", IsActive: true,
			Timezone: "America/Sao_Paulo",
			Settings: model.StoreSettings{Checkout: model.CheckoutSettings{Mode: model.CheckoutModeGuest}},
		},
	}
	for _, s := range stores {
		_, err := pool.Exec(ctx, `
			INSERT INTO stores (id, slug, name, is_active, timezone, latitude, longitude, settings)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			s.ID, s.Slug, s.Name, s.IsActive, s.Timezone, s.Latitude, s.Longitude, s.Settings)
		if err != nil {
			t.Fatalf("failed to seed store %s: %v", s.ID, err)
		}
	}

	products := []model.Product{
		{ID: "P001", StoreID: StoreID, Name: "Margherita", Price: 45.90, Category: "Pizzas", IsActive: true},
		{ID: "P002", StoreID: StoreID, Name: "Calabresa", Price: 42.50, Category: "Pizzas", IsActive: true, TrackInventory: true, StockQuantity: intPtr(calabresaStock)},
		{ID: "P003", StoreID: StoreID, Name: "Guaraná", Price: 6.00, Category: "Bebidas", IsActive: true},
		{ID: "P100", StoreID: ClosedStoreID, Name: "Pastel", Price: 9.00, Category: "Salgados", IsActive: true},
	}
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, store_id, name, price, category, is_active, track_inventory, stock_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.StoreID, p.Name, p.Price, p.Category, p.IsActive, p.TrackInventory, p.StockQuantity)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO modifier_options (id, product_id, name, extra_price, is_active)
		VALUES ('M001', 'P001', 'Borda recheada', 8.00, TRUE)`)
	if err != nil {
		t.Fatalf("failed to seed modifier option: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO coupons (id, store_id, code, discount_type, discount_value, max_uses)
		VALUES ($1, $2, $3, 'percent', 10, 1)`,
		uuid.New(), StoreID, CouponCode)
	if err != nil {
		t.Fatalf("failed to seed coupon: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_item_modifiers", "order_items", "orders", "coupons",
		"modifier_options", "products", "draft_stores", "stores",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
