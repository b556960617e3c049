package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/betterchoicedev/checkout-api/internal/domain"
	"github.com/betterchoicedev/checkout-api/internal/sqlinline"
)

func TestCreate_PassesAttemptFields(t *testing.T) {
	sql := &fakeSQL{}
	r := NewCheckoutAttemptRepository(sql)

	attempt := &domain.CheckoutAttempt{
		ID:        "6f0d3c1e-0000-0000-0000-000000000001",
		UserID:    "6f0d3c1e-0000-0000-0000-000000000002",
		ProductID: "NUTRITION_ONLY",
		PriceID:   "price_no_6m",
		Mode:      domain.ModeSubscription,
		Outcome:   "checkout_created",
		Message:   "cs_123",
	}
	if err := r.Create(context.Background(), attempt); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if sql.execQuery != sqlinline.QInsertCheckoutAttempt {
		t.Fatalf("unexpected query: %s", sql.execQuery)
	}
	want := []any{attempt.ID, attempt.UserID, "NUTRITION_ONLY", "price_no_6m", "subscription", "checkout_created", "cs_123"}
	if len(sql.execArgs) != len(want) {
		t.Fatalf("arg count = %d, want %d", len(sql.execArgs), len(want))
	}
	for i, arg := range want {
		if sql.execArgs[i] != arg {
			t.Fatalf("arg[%d] = %#v, want %#v", i, sql.execArgs[i], arg)
		}
	}
}

func TestListRecent_ScansAttempts(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sql := &fakeSQL{
		rows: []checkoutRow{{
			id:        "a1",
			userID:    "u1",
			productID: "CONSULTATION",
			priceID:   "price_consult_single",
			mode:      "payment",
			outcome:   "checkout_created",
			message:   "cs_9",
			createdAt: createdAt,
		}},
	}
	r := NewCheckoutAttemptRepository(sql)

	attempts, err := r.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(attempts))
	}
	got := attempts[0]
	if got.Mode != domain.ModePayment || got.ProductID != "CONSULTATION" || !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("attempt = %+v", got)
	}
}

type checkoutRow struct {
	id, userID, productID, priceID string
	mode, outcome, message         string
	createdAt                      time.Time
}

type fakeSQL struct {
	execQuery string
	execArgs  []any
	rows      []checkoutRow
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.execQuery = query
	f.execArgs = args
	return pgconn.CommandTag{}, nil
}

func (f *fakeSQL) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if query != sqlinline.QListCheckoutAttempts {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("unexpected args count: %d", len(args))
	}
	return &fakeRows{rows: f.rows, index: -1}, nil
}

type errRow struct{}

func (errRow) Scan(...any) error { return pgx.ErrNoRows }

// fakeRows implements just enough of pgx.Rows to drive the repository scan loop.
type fakeRows struct {
	rows  []checkoutRow
	index int
}

func (r *fakeRows) Next() bool {
	r.index++
	return r.index < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.index < 0 || r.index >= len(r.rows) {
		return pgx.ErrNoRows
	}
	row := r.rows[r.index]
	values := []any{row.id, row.userID, row.productID, row.priceID, row.mode, row.outcome, row.message, row.createdAt}
	if len(dest) != len(values) {
		return fmt.Errorf("scan expects %d destinations, got %d", len(values), len(dest))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("unsupported scan destination %T", dest[i])
		}
	}
	return nil
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, fmt.Errorf("values not supported") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
