package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict signals that a version-guarded update matched no row:
	// another writer updated the record since it was read.
	ErrConflict = errors.New("record was modified concurrently")
	// ErrAlreadyConsumed signals that a Pre-GR already sourced a GQR.
	ErrAlreadyConsumed = errors.New("pre-gr already consumed by a gqr")
)

// Repositories procurement repository collection
type Repositories struct {
	PO     *PORepository
	PreGR  *PreGRRepository
	GQR    *GQRRepository
	Master *MasterRepository
	User   *UserRepository
}

// NewRepositories creates the procurement repository collection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		PO:     NewPORepository(db),
		PreGR:  NewPreGRRepository(db),
		GQR:    NewGQRRepository(db),
		Master: NewMasterRepository(db),
		User:   NewUserRepository(db),
	}
}
