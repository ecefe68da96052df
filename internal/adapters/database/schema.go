package database

import (
	"context"
	"fmt"

	"github.com/smartrentsystem/backend/internal/infrastructure/clients/postgres"
)

// schema creates every table the adapters use. Capacity and rating columns are
// nullable so an unknown value is never stored as zero.
const schema = `
CREATE TABLE IF NOT EXISTS listings (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	price          DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (price >= 0),
	property_type  TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	city           TEXT NOT NULL DEFAULT '',
	country        TEXT NOT NULL DEFAULT '',
	state          TEXT NOT NULL DEFAULT '',
	address        TEXT NOT NULL DEFAULT '',
	bedrooms       INTEGER CHECK (bedrooms >= 0),
	bathrooms      INTEGER CHECK (bathrooms >= 0),
	guests         INTEGER CHECK (guests >= 0),
	beds           INTEGER CHECK (beds >= 0),
	amenities      JSONB,
	size           DOUBLE PRECISION NOT NULL DEFAULT 0,
	average_rating DOUBLE PRECISION,
	rating         DOUBLE PRECISION,
	trending       BOOLEAN NOT NULL DEFAULT FALSE,
	images         TEXT[] NOT NULL DEFAULT '{}',
	owner_id       TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ,
	updated_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_listings_city ON listings (LOWER(city));
CREATE INDEX IF NOT EXISTS idx_listings_property_type ON listings (LOWER(property_type));

CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL UNIQUE,
	wishlist   TEXT[] NOT NULL DEFAULT '{}',
	version    BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id          TEXT PRIMARY KEY,
	listing_id  TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	check_in    TIMESTAMPTZ NOT NULL,
	check_out   TIMESTAMPTZ NOT NULL,
	guests      INTEGER NOT NULL,
	total_price DOUBLE PRECISION NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id);
CREATE INDEX IF NOT EXISTS idx_bookings_listing ON bookings (listing_id);

CREATE TABLE IF NOT EXISTS reviews (
	id         TEXT PRIMARY KEY,
	listing_id TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews (listing_id);

CREATE TABLE IF NOT EXISTS messages (
	id           TEXT PRIMARY KEY,
	sender_id    TEXT NOT NULL,
	recipient_id TEXT NOT NULL,
	listing_id   TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL,
	read         BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages (sender_id);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages (recipient_id);
`

// EnsureSchema creates missing tables and indexes
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
