package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// NewestCustomersLimit cantidad de clientes del widget "últimos clientes".
const NewestCustomersLimit = 5

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	now  func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, now: time.Now}
}

// Create registra un cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, s session.Session, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	c, err := entity.NewCustomer(uuid.New().String(), s.OwnerID(), in.Name, in.Email, in.Phone, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// GetByID obtiene un cliente del usuario.
func (uc *CustomerUseCase) GetByID(ctx context.Context, s session.Session, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, s, id)
	if err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// Update reemplaza los datos de contacto.
func (uc *CustomerUseCase) Update(ctx context.Context, s session.Session, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(in.Name, in.Email, in.Phone, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := ToCustomerResponse(c)
	return &out, nil
}

// List lista todos los clientes, del más reciente al más antiguo.
func (uc *CustomerUseCase) List(ctx context.Context, s session.Session) (*dto.CustomerListResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByUser(ctx, s.OwnerID())
	if err != nil {
		return nil, err
	}
	return &dto.CustomerListResponse{Items: ToCustomerResponses(list)}, nil
}

// Newest últimos NewestCustomersLimit clientes registrados.
func (uc *CustomerUseCase) Newest(ctx context.Context, s session.Session) (*dto.CustomerListResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	list, err := uc.repo.Newest(ctx, s.OwnerID(), NewestCustomersLimit)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerListResponse{Items: ToCustomerResponses(list)}, nil
}

// Delete elimina un cliente. domain.ErrConflict si tiene ventas.
func (uc *CustomerUseCase) Delete(ctx context.Context, s session.Session, id string) error {
	if err := s.Require(); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, s.OwnerID(), id)
}

func (uc *CustomerUseCase) load(ctx context.Context, s session.Session, id string) (*entity.Customer, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, s.OwnerID(), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// ToCustomerResponse convierte la entidad al DTO de salida.
func ToCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCustomerResponses convierte una lista; nunca devuelve nil.
func ToCustomerResponses(list []*entity.Customer) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCustomerResponse(c))
	}
	return out
}
