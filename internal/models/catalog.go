package models

import "time"

type Author struct {
	ID        string
	Name      string
	Bio       *string
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Publisher struct {
	ID        string
	Name      string
	Website   *string
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Book struct {
	ID            string
	Title         string
	ISBN          string
	Description   *string
	CoverURL      *string
	PublishedYear *int
	PageCount     *int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	AuthorIDs    []string
	CategoryIDs  []string
	PublisherIDs []string
}

// BookSummary is the search/list projection carrying the derived
// availability aggregate alongside the book row.
type BookSummary struct {
	Book
	TotalCopies     int
	AvailableCopies int
	AverageRating   *float64
}

type CopyStatus string

const (
	CopyStatusAvailable   CopyStatus = "AVAILABLE"
	CopyStatusLoaned      CopyStatus = "LOANED"
	CopyStatusReserved    CopyStatus = "RESERVED"
	CopyStatusLost        CopyStatus = "LOST"
	CopyStatusMaintenance CopyStatus = "MAINTENANCE"
)

type CopyCondition string

const (
	CopyConditionNew     CopyCondition = "NEW"
	CopyConditionGood    CopyCondition = "GOOD"
	CopyConditionWorn    CopyCondition = "WORN"
	CopyConditionDamaged CopyCondition = "DAMAGED"
)

type BookCopy struct {
	ID        string
	BookID    string
	Barcode   string
	Status    CopyStatus
	Condition CopyCondition
	CreatedAt time.Time
	UpdatedAt time.Time
}
