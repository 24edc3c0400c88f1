// Package analytics contiene el caso de uso del resumen del dashboard.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// DashboardUseCase arma las tarjetas del dashboard del usuario.
//
// Fuente de datos: los repositorios de cada entidad (consultas read-only).
type DashboardUseCase struct {
	profiles  repository.ProfileRepository
	users     repository.UserRepository
	sales     repository.SaleRepository
	stock     repository.StockRepository
	customers repository.CustomerRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	sales repository.SaleRepository,
	stock repository.StockRepository,
	customers repository.CustomerRepository,
) *DashboardUseCase {
	return &DashboardUseCase{profiles: profiles, users: users, sales: sales, stock: stock, customers: customers}
}

// Summary construye el DashboardSummaryDTO del usuario de la sesión.
//
// Seis consultas en paralelo:
//  1. perfil (o cuenta)     → DisplayName
//  2. CompletedTotal        → CompletedSales
//  3. CountByStatus(pending) → PendingSales
//  4. TotalQuantity         → StockQuantity
//  5. Count                 → TotalCustomers
//  6. Newest(5)             → NewestCustomers
func (uc *DashboardUseCase) Summary(ctx context.Context, s session.Session) (*dto.DashboardSummaryDTO, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	owner := s.OwnerID()

	// ── Goroutines para paralelizar las consultas DB ──────────────────────────
	type nameResult struct {
		name string
		err  error
	}
	type amountResult struct {
		value decimal.Decimal
		err   error
	}
	type countResult struct {
		n   int
		err error
	}
	type customersResult struct {
		list []*entity.Customer
		err  error
	}

	nameCh := make(chan nameResult, 1)
	completedCh := make(chan amountResult, 1)
	pendingCh := make(chan countResult, 1)
	stockCh := make(chan amountResult, 1)
	totalCustCh := make(chan countResult, 1)
	newestCh := make(chan customersResult, 1)

	go func() {
		name, err := uc.displayName(ctx, s)
		nameCh <- nameResult{name, err}
	}()
	go func() {
		v, err := uc.sales.CompletedTotal(ctx, owner)
		completedCh <- amountResult{v, err}
	}()
	go func() {
		n, err := uc.sales.CountByStatus(ctx, owner, entity.SaleStatusPending)
		pendingCh <- countResult{n, err}
	}()
	go func() {
		v, err := uc.stock.TotalQuantity(ctx, owner)
		stockCh <- amountResult{v, err}
	}()
	go func() {
		n, err := uc.customers.Count(ctx, owner)
		totalCustCh <- countResult{n, err}
	}()
	go func() {
		list, err := uc.customers.Newest(ctx, owner, usecase.NewestCustomersLimit)
		newestCh <- customersResult{list, err}
	}()

	name := <-nameCh
	completed := <-completedCh
	pending := <-pendingCh
	stock := <-stockCh
	totalCust := <-totalCustCh
	newest := <-newestCh

	if name.err != nil {
		return nil, fmt.Errorf("dashboard: perfil: %w", name.err)
	}
	if completed.err != nil {
		return nil, fmt.Errorf("dashboard: ventas completadas: %w", completed.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: ventas pendientes: %w", pending.err)
	}
	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: stock: %w", stock.err)
	}
	if totalCust.err != nil {
		return nil, fmt.Errorf("dashboard: total de clientes: %w", totalCust.err)
	}
	if newest.err != nil {
		return nil, fmt.Errorf("dashboard: últimos clientes: %w", newest.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	return &dto.DashboardSummaryDTO{
		DisplayName:     name.name,
		CompletedSales:  completed.value.Round(2),
		PendingSales:    pending.n,
		StockQuantity:   stock.value,
		TotalCustomers:  totalCust.n,
		NewestCustomers: usecase.ToCustomerResponses(newest.list),
	}, nil
}

// displayName primer nombre del perfil; si no hay, el de la cuenta; si no, el email.
func (uc *DashboardUseCase) displayName(ctx context.Context, s session.Session) (string, error) {
	p, err := uc.profiles.GetByUserID(ctx, s.UserID)
	if err != nil {
		return "", err
	}
	if p == nil {
		u, err := uc.users.GetByID(ctx, s.UserID)
		if err != nil {
			return "", err
		}
		p = entity.ProfileFromUser(u)
	}
	email := s.Email
	if p != nil && p.Email != "" {
		email = p.Email
	}
	return p.DisplayName(email), nil
}
