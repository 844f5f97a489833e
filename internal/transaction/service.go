package transaction

import (
	"context"
	"fmt"
)

// Store is the persistence the service depends on. *Repository is the
// production implementation; tests substitute fakes.
type Store interface {
	Insert(ctx context.Context, tx *Transaction) error
	ListByOwner(ctx context.Context, userID int64) ([]Transaction, error)
	DeleteByID(ctx context.Context, userID, id int64) error
}

// Service contains business logic for transaction management.
type Service struct {
	store Store
}

// NewService creates a new transaction Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create records a new transaction for the user.
func (s *Service) Create(ctx context.Context, userID int64, title string, amount int64) (*Transaction, error) {
	tx := &Transaction{UserID: userID, Title: title, Amount: amount}
	if err := s.store.Insert(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return tx, nil
}

// List returns the user's transactions, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]Transaction, error) {
	return s.store.ListByOwner(ctx, userID)
}

// Delete removes the user's transaction. Missing ids succeed silently.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.store.DeleteByID(ctx, userID, id)
}
