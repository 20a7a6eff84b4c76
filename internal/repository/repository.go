package repository

import (
	"railbook/internal/database"
)

type Repositories struct {
	Bookings *BookingRepository
	Users    *AdminUserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Bookings: NewBookingRepository(db),
		Users:    NewAdminUserRepository(db),
	}
}
