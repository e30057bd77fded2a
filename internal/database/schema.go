package database

// schemaVersion is recorded in schema_migrations after a successful Migrate.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS stores (
	id         TEXT PRIMARY KEY,
	slug       TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	timezone   TEXT NOT NULL DEFAULT 'America/Sao_Paulo',
	latitude   DOUBLE PRECISION,
	longitude  DOUBLE PRECISION,
	settings   JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id              TEXT PRIMARY KEY,
	store_id        TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
	name            TEXT NOT NULL,
	price           NUMERIC(10,2) NOT NULL CHECK (price >= 0),
	category        TEXT NOT NULL DEFAULT '',
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	track_inventory BOOLEAN NOT NULL DEFAULT FALSE,
	stock_quantity  INTEGER CHECK (stock_quantity >= 0),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_products_store ON products(store_id, name);

CREATE TABLE IF NOT EXISTS modifier_options (
	id          TEXT PRIMARY KEY,
	product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	extra_price NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (extra_price >= 0),
	is_active   BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_modifier_options_product ON modifier_options(product_id);

CREATE TABLE IF NOT EXISTS orders (
	id               UUID PRIMARY KEY,
	store_id         TEXT NOT NULL REFERENCES stores(id),
	code             TEXT NOT NULL,
	channel          TEXT NOT NULL,
	status           TEXT NOT NULL,
	customer_name    TEXT NOT NULL,
	customer_phone   TEXT NOT NULL DEFAULT '',
	customer_email   TEXT NOT NULL DEFAULT '',
	delivery_address JSONB,
	scheduled_for    TIMESTAMPTZ,
	coupon_code      TEXT,
	payment_method   TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	subtotal_amount  NUMERIC(10,2) NOT NULL,
	delivery_fee     NUMERIC(10,2) NOT NULL DEFAULT 0,
	discount_amount  NUMERIC(10,2) NOT NULL DEFAULT 0,
	total_amount     NUMERIC(10,2) NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_orders_store_created ON orders(store_id, created_at DESC);

CREATE TABLE IF NOT EXISTS order_items (
	id              UUID PRIMARY KEY,
	order_id        UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id      TEXT NOT NULL REFERENCES products(id),
	title_snapshot  TEXT NOT NULL,
	unit_price      NUMERIC(10,2) NOT NULL,
	quantity        INTEGER NOT NULL CHECK (quantity > 0),
	modifiers_total NUMERIC(10,2) NOT NULL DEFAULT 0,
	subtotal        NUMERIC(10,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS order_item_modifiers (
	id                 UUID PRIMARY KEY,
	order_item_id      UUID NOT NULL REFERENCES order_items(id) ON DELETE CASCADE,
	modifier_option_id TEXT NOT NULL,
	name_snapshot      TEXT NOT NULL,
	extra_price        NUMERIC(10,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS coupons (
	id              UUID PRIMARY KEY,
	store_id        TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
	code            TEXT NOT NULL,
	discount_type   TEXT NOT NULL CHECK (discount_type IN ('percent', 'fixed')),
	discount_value  NUMERIC(10,2) NOT NULL CHECK (discount_value >= 0),
	min_order_value NUMERIC(10,2) NOT NULL DEFAULT 0,
	max_uses        INTEGER,
	uses_count      INTEGER NOT NULL DEFAULT 0,
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	expires_at      TIMESTAMPTZ,
	UNIQUE (store_id, code)
);

CREATE TABLE IF NOT EXISTS draft_stores (
	id          UUID PRIMARY KEY,
	draft_token TEXT NOT NULL UNIQUE,
	slug        TEXT NOT NULL UNIQUE,
	config      JSONB NOT NULL DEFAULT '{}'::jsonb,
	expires_at  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_draft_stores_expires ON draft_stores(expires_at);
`
