package models

import "time"

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "ACTIVE"
	LoanStatusReturned LoanStatus = "RETURNED"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
	LoanStatusLost     LoanStatus = "LOST"
)

type Loan struct {
	ID         string
	CopyID     string
	UserID     string
	Status     LoanStatus
	BorrowedAt time.Time
	DueAt      time.Time
	ReturnedAt *time.Time
}

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusFulfilled ReservationStatus = "FULFILLED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
)

type Reservation struct {
	ID        string
	BookID    string
	UserID    string
	Status    ReservationStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Rating is unique per (user, book).
type Rating struct {
	ID        string
	BookID    string
	UserID    string
	Value     int
	Comment   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
