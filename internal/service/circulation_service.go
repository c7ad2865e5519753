package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"bookwise/api/internal/config"
	"bookwise/api/internal/ids"
	"bookwise/api/internal/models"
	"bookwise/api/internal/repository"
)

var (
	ErrCopyUnavailable        = errors.New("copy is not available for loan")
	ErrLoanNotOpen            = errors.New("loan is not open")
	ErrAlreadyReserved        = errors.New("a pending reservation already exists for this book")
	ErrReservationNotPending  = errors.New("reservation is not pending")
	ErrNotReservationOwner    = errors.New("reservation belongs to another user")
	ErrCopyHasActiveLoan      = errors.New("copy has an active loan")
)

type CopyStore interface {
	GetByID(ctx context.Context, id string) (models.BookCopy, error)
	ListByBook(ctx context.Context, bookID string) ([]models.BookCopy, error)
	UpdateStatus(ctx context.Context, id string, status models.CopyStatus) error
}

type LoanStore interface {
	Create(ctx context.Context, loan models.Loan) error
	GetByID(ctx context.Context, id string) (models.Loan, error)
	Update(ctx context.Context, loan models.Loan) error
	List(ctx context.Context, filter repository.LoanFilter) ([]models.Loan, error)
	HasActiveLoanForCopy(ctx context.Context, copyID string) (bool, error)
	MarkOverdue(ctx context.Context, now time.Time) ([]models.Loan, error)
}

type ReservationStore interface {
	Create(ctx context.Context, reservation models.Reservation) error
	GetByID(ctx context.Context, id string) (models.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
	FindPendingByUserAndBook(ctx context.Context, userID string, bookID string) (models.Reservation, error)
	OldestPendingForBook(ctx context.Context, bookID string) (models.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	ListByBook(ctx context.Context, bookID string) ([]models.Reservation, error)
	ExpirePending(ctx context.Context, now time.Time) ([]models.Reservation, error)
}

// CirculationService owns the loan and reservation state machines.
type CirculationService struct {
	copies       CopyStore
	loans        LoanStore
	reservations ReservationStore
	notifier     Notifier
	cfg          *config.AppConfig
	log          zerolog.Logger
}

func NewCirculationService(
	copies CopyStore,
	loans LoanStore,
	reservations ReservationStore,
	notifier Notifier,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *CirculationService {
	return &CirculationService{
		copies:       copies,
		loans:        loans,
		reservations: reservations,
		notifier:     notifier,
		cfg:          cfg,
		log:          log,
	}
}

type CheckoutInput struct {
	CopyID string
	UserID string
	Days   int
}

// Checkout loans an AVAILABLE copy to a user. A RESERVED copy can only be
// checked out by a user holding a pending reservation for its book, which is
// then fulfilled.
func (s *CirculationService) Checkout(ctx context.Context, input CheckoutInput) (models.Loan, error) {
	copy, err := s.copies.GetByID(ctx, input.CopyID)
	if err != nil {
		return models.Loan{}, err
	}

	switch copy.Status {
	case models.CopyStatusAvailable:
	case models.CopyStatusReserved:
		reservation, err := s.reservations.FindPendingByUserAndBook(ctx, input.UserID, copy.BookID)
		if err != nil {
			if errors.Is(err, repository.ErrReservationNotFound) {
				return models.Loan{}, ErrCopyUnavailable
			}
			return models.Loan{}, err
		}
		if err := s.reservations.UpdateStatus(ctx, reservation.ID, models.ReservationStatusFulfilled); err != nil {
			return models.Loan{}, err
		}
	default:
		return models.Loan{}, ErrCopyUnavailable
	}

	period := s.cfg.Circulation.LoanPeriod
	if input.Days > 0 {
		period = time.Duration(input.Days) * 24 * time.Hour
	}

	now := time.Now()
	loan := models.Loan{
		ID:         ids.New(),
		CopyID:     copy.ID,
		UserID:     input.UserID,
		Status:     models.LoanStatusActive,
		BorrowedAt: now,
		DueAt:      now.Add(period),
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		return models.Loan{}, err
	}
	if err := s.copies.UpdateStatus(ctx, copy.ID, models.CopyStatusLoaned); err != nil {
		return models.Loan{}, err
	}
	return loan, nil
}

// Return closes an open loan. The copy goes back to AVAILABLE unless a
// pending reservation for its book exists, in which case it is held RESERVED
// for the next user in line.
func (s *CirculationService) Return(ctx context.Context, loanID string) (models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.Loan{}, err
	}
	if loan.Status != models.LoanStatusActive && loan.Status != models.LoanStatusOverdue {
		return models.Loan{}, ErrLoanNotOpen
	}

	now := time.Now()
	loan.Status = models.LoanStatusReturned
	loan.ReturnedAt = &now
	if err := s.loans.Update(ctx, loan); err != nil {
		return models.Loan{}, err
	}

	copy, err := s.copies.GetByID(ctx, loan.CopyID)
	if err != nil {
		return models.Loan{}, err
	}

	next := models.CopyStatusAvailable
	if _, err := s.reservations.OldestPendingForBook(ctx, copy.BookID); err == nil {
		next = models.CopyStatusReserved
	} else if !errors.Is(err, repository.ErrReservationNotFound) {
		return models.Loan{}, err
	}

	if err := s.copies.UpdateStatus(ctx, copy.ID, next); err != nil {
		return models.Loan{}, err
	}
	return loan, nil
}

// MarkLost closes an open loan as LOST and takes the copy out of rotation.
func (s *CirculationService) MarkLost(ctx context.Context, loanID string) (models.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return models.Loan{}, err
	}
	if loan.Status != models.LoanStatusActive && loan.Status != models.LoanStatusOverdue {
		return models.Loan{}, ErrLoanNotOpen
	}

	loan.Status = models.LoanStatusLost
	if err := s.loans.Update(ctx, loan); err != nil {
		return models.Loan{}, err
	}
	if err := s.copies.UpdateStatus(ctx, loan.CopyID, models.CopyStatusLost); err != nil {
		return models.Loan{}, err
	}
	return loan, nil
}

func (s *CirculationService) ListLoans(ctx context.Context, filter repository.LoanFilter) ([]models.Loan, error) {
	return s.loans.List(ctx, filter)
}

// DeleteGuard refuses copy deletion while an open loan references it.
func (s *CirculationService) DeleteGuard(ctx context.Context, copyID string) error {
	active, err := s.loans.HasActiveLoanForCopy(ctx, copyID)
	if err != nil {
		return err
	}
	if active {
		return ErrCopyHasActiveLoan
	}
	return nil
}

func (s *CirculationService) Reserve(ctx context.Context, userID string, bookID string) (models.Reservation, error) {
	if _, err := s.reservations.FindPendingByUserAndBook(ctx, userID, bookID); err == nil {
		return models.Reservation{}, ErrAlreadyReserved
	} else if !errors.Is(err, repository.ErrReservationNotFound) {
		return models.Reservation{}, err
	}

	reservation := models.Reservation{
		ID:        ids.New(),
		BookID:    bookID,
		UserID:    userID,
		Status:    models.ReservationStatusPending,
		ExpiresAt: time.Now().Add(s.cfg.Circulation.ReservationTTL),
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		return models.Reservation{}, err
	}
	return reservation, nil
}

// CancelReservation cancels a pending reservation. Staff may cancel any;
// members only their own.
func (s *CirculationService) CancelReservation(ctx context.Context, reservationID string, callerID string, staff bool) error {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if !staff && reservation.UserID != callerID {
		return ErrNotReservationOwner
	}
	if reservation.Status != models.ReservationStatusPending {
		return ErrReservationNotPending
	}

	if err := s.reservations.UpdateStatus(ctx, reservationID, models.ReservationStatusCancelled); err != nil {
		return err
	}
	return s.releaseHeldCopies(ctx, reservation.BookID)
}

func (s *CirculationService) ListReservationsByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

func (s *CirculationService) ListReservationsByBook(ctx context.Context, bookID string) ([]models.Reservation, error) {
	return s.reservations.ListByBook(ctx, bookID)
}

// MarkOverdueLoans is the scheduled pass flipping past-due loans to OVERDUE
// and publishing a notice for each.
func (s *CirculationService) MarkOverdueLoans(ctx context.Context, now time.Time) (int, error) {
	loans, err := s.loans.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, loan := range loans {
		notice := Notice{
			Type:   NoticeOverdueLoan,
			UserID: loan.UserID,
			LoanID: loan.ID,
			CopyID: loan.CopyID,
			DueAt:  loan.DueAt,
		}
		if err := s.notifier.Publish(ctx, notice); err != nil {
			s.log.Warn().Err(err).Str("loan_id", loan.ID).Msg("publish overdue notice failed")
		}
	}
	return len(loans), nil
}

// ExpireReservations is the scheduled pass flipping stale PENDING
// reservations to EXPIRED, releasing any copies still held for them.
func (s *CirculationService) ExpireReservations(ctx context.Context, now time.Time) (int, error) {
	reservations, err := s.reservations.ExpirePending(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, reservation := range reservations {
		if err := s.releaseHeldCopies(ctx, reservation.BookID); err != nil {
			s.log.Warn().Err(err).Str("book_id", reservation.BookID).Msg("release held copies failed")
		}
		notice := Notice{
			Type:          NoticeReservationExpired,
			UserID:        reservation.UserID,
			ReservationID: reservation.ID,
			BookID:        reservation.BookID,
		}
		if err := s.notifier.Publish(ctx, notice); err != nil {
			s.log.Warn().Err(err).Str("reservation_id", reservation.ID).Msg("publish expiry notice failed")
		}
	}
	return len(reservations), nil
}

// releaseHeldCopies flips RESERVED copies of a book back to AVAILABLE once no
// pending reservation remains to claim them.
func (s *CirculationService) releaseHeldCopies(ctx context.Context, bookID string) error {
	if _, err := s.reservations.OldestPendingForBook(ctx, bookID); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrReservationNotFound) {
		return err
	}

	copies, err := s.copies.ListByBook(ctx, bookID)
	if err != nil {
		return err
	}
	for _, copy := range copies {
		if copy.Status != models.CopyStatusReserved {
			continue
		}
		if err := s.copies.UpdateStatus(ctx, copy.ID, models.CopyStatusAvailable); err != nil {
			return err
		}
	}
	return nil
}
