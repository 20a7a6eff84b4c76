package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createAdminUsersTable,
		createBookingsTable,
		createBookingsEmailIndex,
		createBookingsDepartureIndex,
		createBookingsStatusIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createAdminUsersTable = `
CREATE TABLE IF NOT EXISTS admin_users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL,
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_logged_in TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    reference VARCHAR(20) UNIQUE NOT NULL,
    pnr VARCHAR(20),

    customer_name VARCHAR(255) NOT NULL,
    customer_email VARCHAR(255) NOT NULL,
    customer_phone VARCHAR(50),

    origin_station VARCHAR(255) NOT NULL,
    origin_code VARCHAR(10),
    destination_station VARCHAR(255) NOT NULL,
    destination_code VARCHAR(10),
    departure_date DATE NOT NULL,
    departure_time VARCHAR(10) NOT NULL,
    arrival_time VARCHAR(10) NOT NULL DEFAULT '',
    train_number VARCHAR(20) NOT NULL,
    operator VARCHAR(100) NOT NULL DEFAULT '',
    fare_class VARCHAR(50) NOT NULL DEFAULT '',

    adults INTEGER NOT NULL DEFAULT 1,
    children INTEGER NOT NULL DEFAULT 0,
    travelers JSONB NOT NULL DEFAULT '[]',

    ticket_price DECIMAL(10,2) NOT NULL DEFAULT 0,
    service_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
    discount_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
    total_price DECIMAL(10,2) NOT NULL DEFAULT 0,
    currency VARCHAR(3) NOT NULL DEFAULT 'EUR',
    promo_code VARCHAR(50),

    payment_reference VARCHAR(255),
    payment_method VARCHAR(50),
    transaction_id VARCHAR(255),

    refunded_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
    refund_reason TEXT,
    refunded_at TIMESTAMP,
    refunded_by VARCHAR(255),

    ticket_pdf_url TEXT,
    ticket_pkpass_url TEXT,
    ticket_data JSONB,

    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    status_reason TEXT,
    last_status_change TIMESTAMP NOT NULL DEFAULT NOW(),
    confirmed_at TIMESTAMP,
    cancelled_at TIMESTAMP,

    locale VARCHAR(10),
    user_agent TEXT,
    ip_address VARCHAR(45),
    session_id VARCHAR(255),

    version INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('pending', 'confirmed', 'ticketed', 'cancelled',
                      'refunded', 'partially_refunded', 'exchanged', 'expired'))
);`

const createBookingsEmailIndex = `
CREATE INDEX IF NOT EXISTS bookings_customer_email_idx
ON bookings (customer_email, created_at DESC);`

const createBookingsDepartureIndex = `
CREATE INDEX IF NOT EXISTS bookings_departure_date_idx
ON bookings (departure_date);`

const createBookingsStatusIndex = `
CREATE INDEX IF NOT EXISTS bookings_status_idx
ON bookings (status);`
