package repo

import (
	"context"

	"github.com/betterchoicedev/checkout-api/internal/domain"
	"github.com/betterchoicedev/checkout-api/internal/infra"
	"github.com/betterchoicedev/checkout-api/internal/sqlinline"
)

// CheckoutAttemptRepositoryPG implements domain.CheckoutAttemptRepository
// backed by PostgreSQL.
type CheckoutAttemptRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCheckoutAttemptRepository creates a new CheckoutAttemptRepositoryPG.
func NewCheckoutAttemptRepository(sql infra.SQLExecutor) *CheckoutAttemptRepositoryPG {
	return &CheckoutAttemptRepositoryPG{sql: sql}
}

// Create inserts one audit record.
func (r *CheckoutAttemptRepositoryPG) Create(ctx context.Context, attempt *domain.CheckoutAttempt) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertCheckoutAttempt,
		attempt.ID,
		attempt.UserID,
		attempt.ProductID,
		attempt.PriceID,
		string(attempt.Mode),
		attempt.Outcome,
		attempt.Message,
	)
	return err
}

// ListRecent returns the newest audit records, most recent first.
func (r *CheckoutAttemptRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.CheckoutAttempt, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCheckoutAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []domain.CheckoutAttempt
	for rows.Next() {
		var a domain.CheckoutAttempt
		var mode string
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProductID, &a.PriceID, &mode, &a.Outcome, &a.Message, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Mode = domain.CheckoutMode(mode)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

var _ domain.CheckoutAttemptRepository = (*CheckoutAttemptRepositoryPG)(nil)
