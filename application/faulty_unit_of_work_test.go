package application

import (
	"context"
	"errors"
	"time"

	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
)

var errInjected = errors.New("injected storage failure")

// faultyUnitOfWorkFactory hands out real units of work whose selected
// repository writes fail after everything before them has run.
type faultyUnitOfWorkFactory struct {
	interfaces.UnitOfWorkFactory
	failBetCreate   bool
	failTradeStatus bool
}

func (f *faultyUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &faultyUnitOfWork{UnitOfWork: f.UnitOfWorkFactory.Create(), factory: f}
}

type faultyUnitOfWork struct {
	interfaces.UnitOfWork
	factory *faultyUnitOfWorkFactory
}

func (u *faultyUnitOfWork) GameBetRepository() interfaces.GameBetRepository {
	repo := u.UnitOfWork.GameBetRepository()
	if !u.factory.failBetCreate {
		return repo
	}
	return failingBetRepository{GameBetRepository: repo}
}

func (u *faultyUnitOfWork) TradeRepository() interfaces.TradeRepository {
	repo := u.UnitOfWork.TradeRepository()
	if !u.factory.failTradeStatus {
		return repo
	}
	return failingTradeRepository{TradeRepository: repo}
}

type failingBetRepository struct {
	interfaces.GameBetRepository
}

func (failingBetRepository) Create(ctx context.Context, bet *entities.GameBet) error {
	return errInjected
}

type failingTradeRepository struct {
	interfaces.TradeRepository
}

func (failingTradeRepository) UpdateStatus(ctx context.Context, id int64, status entities.TradeStatus, respondedAt time.Time) error {
	return errInjected
}
