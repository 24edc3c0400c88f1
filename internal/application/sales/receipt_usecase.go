package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	profiles  repository.ProfileRepository
	users     repository.UserRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		sales:     sales,
		customers: customers,
		profiles:  profiles,
		users:     users,
		generator: generator,
	}
}

// Receipt carga la venta con líneas, cliente y perfil del vendedor y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe para el usuario.
func (uc *ReceiptUseCase) Receipt(ctx context.Context, s session.Session, saleID string) (pdfBytes []byte, filename string, err error) {
	if err := s.Require(); err != nil {
		return nil, "", err
	}
	// ── 1. Venta ──────────────────────────────────────────────────────────────
	sale, err := uc.sales.GetByID(ctx, s.OwnerID(), saleID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Cliente ────────────────────────────────────────────────────────────
	customer, err := uc.customers.GetByID(ctx, s.OwnerID(), sale.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
	}

	// ── 3. Vendedor (perfil o, si falta, datos de la cuenta) ──────────────────
	seller, err := uc.profiles.GetByUserID(ctx, s.OwnerID())
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener perfil: %w", err)
	}
	if seller == nil {
		if u, uErr := uc.users.GetByID(ctx, s.OwnerID()); uErr == nil && u != nil {
			seller = entity.ProfileFromUser(u)
		}
	}

	// ── 4. PDF ────────────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateSaleReceipt(ctx, ReceiptData{Sale: sale, Customer: customer, Seller: seller})
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("venta_%s_%s.pdf", sale.SaleDate.Format("20060102"), shortID(sale.ID))
	return pdfBytes, filename, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
