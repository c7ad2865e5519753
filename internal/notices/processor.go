package notices

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Processor consumes circulation notices and hands them to the mail pipeline.
// Actual delivery is a stub until the mail provider is wired in; every notice
// is logged with enough context to reconstruct the message.
type Processor struct {
	logger zerolog.Logger
}

type noticePayload struct {
	Type          string `json:"type"`
	UserID        string `json:"userId"`
	LoanID        string `json:"loanId"`
	ReservationID string `json:"reservationId"`
	CopyID        string `json:"copyId"`
	BookID        string `json:"bookId"`
	DueAt         string `json:"dueAt"`
}

func NewProcessor(logger zerolog.Logger) *Processor {
	return &Processor{
		logger: logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload noticePayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "overdue_loan":
		p.logger.Info().
			Str("user_id", payload.UserID).
			Str("loan_id", payload.LoanID).
			Str("copy_id", payload.CopyID).
			Str("due_at", payload.DueAt).
			Msg("overdue notice")
		return nil
	case "reservation_expired":
		p.logger.Info().
			Str("user_id", payload.UserID).
			Str("reservation_id", payload.ReservationID).
			Str("book_id", payload.BookID).
			Msg("reservation expired notice")
		return nil
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown notice type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *noticePayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}
