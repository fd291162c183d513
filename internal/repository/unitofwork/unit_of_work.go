package unitofwork

import (
	"context"

	"symptom-checker-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DiagnosisRepository() contract.DiagnosisRepository
	UsageRepository() contract.UsageRepository
}
