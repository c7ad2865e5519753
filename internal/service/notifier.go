package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	NoticeOverdueLoan        = "overdue_loan"
	NoticeReservationExpired = "reservation_expired"
)

// Notice is one circulation event published for the worker to deliver.
type Notice struct {
	Type          string
	UserID        string
	LoanID        string
	ReservationID string
	CopyID        string
	BookID        string
	DueAt         time.Time
}

type Notifier interface {
	Publish(ctx context.Context, notice Notice) error
}

// StreamNotifier publishes notices onto a Redis stream consumed by the
// worker process.
type StreamNotifier struct {
	queue  *redis.Client
	stream string
}

func NewStreamNotifier(queue *redis.Client, stream string) *StreamNotifier {
	return &StreamNotifier{queue: queue, stream: stream}
}

func (n *StreamNotifier) Publish(ctx context.Context, notice Notice) error {
	if n.queue == nil {
		return nil
	}

	values := map[string]any{
		"type":   notice.Type,
		"userId": notice.UserID,
	}
	if notice.LoanID != "" {
		values["loanId"] = notice.LoanID
	}
	if notice.ReservationID != "" {
		values["reservationId"] = notice.ReservationID
	}
	if notice.CopyID != "" {
		values["copyId"] = notice.CopyID
	}
	if notice.BookID != "" {
		values["bookId"] = notice.BookID
	}
	if !notice.DueAt.IsZero() {
		values["dueAt"] = notice.DueAt.UTC().Format(time.RFC3339)
	}

	_, err := n.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: values,
	}).Result()
	return err
}
