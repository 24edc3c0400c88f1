// Package memory implementa todos los repositorios en memoria de proceso.
// Se usa con DB_DRIVER=memory y como almacén de los tests de casos de uso.
package memory

import (
	"sync"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	users     map[string]entity.User
	profiles  map[string]entity.Profile // por user_id
	products  map[string]entity.Product
	customers map[string]entity.Customer
	stock     map[string]entity.StockEntry
	sales     map[string]entity.Sale
	items     map[string][]entity.SaleItem // por sale_id, en orden de inserción
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]entity.User),
		profiles:  make(map[string]entity.Profile),
		products:  make(map[string]entity.Product),
		customers: make(map[string]entity.Customer),
		stock:     make(map[string]entity.StockEntry),
		sales:     make(map[string]entity.Sale),
		items:     make(map[string][]entity.SaleItem),
	}
}

func (s *Store) Users() *UserRepo         { return &UserRepo{s: s} }
func (s *Store) Profiles() *ProfileRepo   { return &ProfileRepo{s: s} }
func (s *Store) Products() *ProductRepo   { return &ProductRepo{s: s} }
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }
func (s *Store) Stock() *StockRepo        { return &StockRepo{s: s} }
func (s *Store) Sales() *SaleRepo         { return &SaleRepo{s: s} }

func (s *Store) productName(id string) string {
	if p, ok := s.products[id]; ok {
		return p.Name
	}
	return ""
}
