// Package transaction manages user finance records and their persistence.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Transaction represents one finance record.
type Transaction struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository handles transaction database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new transaction Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert stores a new transaction and fills in its generated fields.
func (r *Repository) Insert(ctx context.Context, tx *Transaction) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO transactions (user_id, title, amount)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		tx.UserID, tx.Title, tx.Amount,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByOwner returns all transactions owned by the user, newest first.
func (r *Repository) ListByOwner(ctx context.Context, userID int64) ([]Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, amount, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Title, &tx.Amount, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// DeleteByID removes the user's transaction with the given id. Deleting a
// missing or foreign id is a no-op; owner scoping lives in the predicate.
func (r *Repository) DeleteByID(ctx context.Context, userID, id int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}
