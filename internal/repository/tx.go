package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a function inside a single database transaction. Compound
// operations (category cascades, completion plus experience award) rebind their
// repositories to the transaction handle via WithTx so both writes commit or
// roll back together.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
