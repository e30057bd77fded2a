package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a migrated PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPoolFromURL(ctx, connStr, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedStore inserts a store row.
func seedStore(t *testing.T, pool *pgxpool.Pool, s model.Store) {
	query := `
		INSERT INTO stores (id, slug, name, is_active, timezone, latitude, longitude, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := pool.Exec(context.Background(), query,
		s.ID, s.Slug, s.Name, s.IsActive, s.Timezone, s.Latitude, s.Longitude, s.Settings)
	require.NoError(t, err)
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	query := `
		INSERT INTO products (id, store_id, name, price, category, is_active, track_inventory, stock_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, p := range products {
		_, err := pool.Exec(context.Background(), query,
			p.ID, p.StoreID, p.Name, p.Price, p.Category, p.IsActive, p.TrackInventory, p.StockQuantity, p.CreatedAt)
		require.NoError(t, err)
	}
}

// seedModifierOptions inserts modifier options.
func seedModifierOptions(t *testing.T, pool *pgxpool.Pool, options []model.ModifierOption) {
	query := `
		INSERT INTO modifier_options (id, product_id, name, extra_price, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, o := range options {
		_, err := pool.Exec(context.Background(), query, o.ID, o.ProductID, o.Name, o.ExtraPrice, o.IsActive)
		require.NoError(t, err)
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// seedMenu creates one store with a small menu used across tests.
func seedMenu(t *testing.T, pool *pgxpool.Pool) {
	now := time.Now()
	seedStore(t, pool, model.Store{
		ID:        "store-1",
		Slug:      "pizzaria-do-ze",
		Name:      "Pizzaria do Zé",
		IsActive:  true,
		Timezone:  "America/Sao_Paulo",
		Latitude:  floatPtr(-23.5505),
		Longitude: floatPtr(-46.6333),
		Settings: model.StoreSettings{
			BusinessHours: []model.BusinessHour{{Day: 5, Open: "18:00", Close: "02:00", IsOpen: true}},
			Checkout:      model.CheckoutSettings{Mode: model.CheckoutModePhoneRequired},
			Delivery:      model.DeliverySettings{Enabled: true, RadiusKm: 5, Fee: 7.5},
		},
	})
	seedStore(t, pool, model.Store{ID: "store-2", Slug: "outra-loja", Name: "Outra", IsActive: true, Timezone: "America/Sao_Paulo"})

	seedProducts(t, pool, []model.Product{
		{ID: "P001", StoreID: "store-1", Name: "Margherita", Price: 45.90, Category: "Pizzas", IsActive: true, CreatedAt: now},
		{ID: "P002", StoreID: "store-1", Name: "Calabresa", Price: 42.50, Category: "Pizzas", IsActive: true, TrackInventory: true, StockQuantity: intPtr(3), CreatedAt: now},
		{ID: "P003", StoreID: "store-1", Name: "Guaraná", Price: 6.00, Category: "Bebidas", IsActive: false, CreatedAt: now},
		{ID: "P100", StoreID: "store-2", Name: "Pastel", Price: 9.00, Category: "Salgados", IsActive: true, CreatedAt: now},
	})
	seedModifierOptions(t, pool, []model.ModifierOption{
		{ID: "M001", ProductID: "P001", Name: "Borda recheada", ExtraPrice: 8.00, IsActive: true},
		{ID: "M002", ProductID: "P001", Name: "Extra queijo", ExtraPrice: 5.50, IsActive: false},
	})
}
