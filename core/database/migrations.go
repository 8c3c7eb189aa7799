package database

import (
	"context"

	"spotshare/core/logger"
)

// Schema statements are idempotent and run at startup. The exclusion
// constraint on availability_slots backs the application-level overlap check:
// the store can never hold two overlapping intervals for one spot, even if a
// code path forgets to validate.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`CREATE TABLE IF NOT EXISTS parking_spots (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		supplier_id UUID NOT NULL,
		label       TEXT NOT NULL,
		slug        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (supplier_id, slug)
	)`,

	`CREATE TABLE IF NOT EXISTS availability_slots (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		spot_id    UUID NOT NULL REFERENCES parking_spots(id) ON DELETE CASCADE,
		start_time TIMESTAMPTZ NOT NULL,
		end_time   TIMESTAMPTZ NOT NULL,
		is_booked  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (start_time < end_time),
		EXCLUDE USING gist (spot_id WITH =, tstzrange(start_time, end_time) WITH &&)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_availability_slots_spot_start
		ON availability_slots (spot_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_availability_slots_free
		ON availability_slots (start_time) WHERE is_booked = FALSE`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		reference    TEXT NOT NULL UNIQUE,
		customer_id  UUID NOT NULL,
		spot_id      UUID NOT NULL REFERENCES parking_spots(id),
		slot_id      UUID NOT NULL,
		start_time   TIMESTAMPTZ NOT NULL,
		end_time     TIMESTAMPTZ NOT NULL,
		total_price  INTEGER NOT NULL,
		status       TEXT NOT NULL,
		paid_at      TIMESTAMPTZ,
		confirmed_at TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (start_time < end_time),
		CHECK (status IN ('pending','paid_wait_admin','confirmed','cancelled','rejected','completed'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_customer ON bookings (customer_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status)`,

	`CREATE TABLE IF NOT EXISTS notification_subscriptions (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id      UUID NOT NULL,
		desired_date DATE,
		active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notification_subscriptions_active
		ON notification_subscriptions (active) WHERE active = TRUE`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		type       TEXT NOT NULL,
		data       JSONB,
		is_read    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		booking_id  UUID NOT NULL UNIQUE REFERENCES bookings(id),
		customer_id UUID NOT NULL,
		spot_id     UUID NOT NULL REFERENCES parking_spots(id),
		supplier_id UUID NOT NULL,
		rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment     TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func (d *Database) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.sqlx.ExecContext(ctx, stmt); err != nil {
			logger.Error("Database:migrate", "error", err, "stmt", stmt[:40])
			return err
		}
	}
	return nil
}
