package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
)

// CreateSupplier grava um fornecedor. O autor precisa existir.
func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[supplier.AuthorID]; !ok {
		return domain.Supplier{}, apperror.NewNotFoundError("Usuário com ID " + supplier.AuthorID + " não encontrado.")
	}
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}
	supplier.CreatedAt = s.now()
	supplier.UpdatedAt = supplier.CreatedAt
	supplier.ProductCount = 0
	s.suppliers[supplier.ID] = supplier
	return supplier, nil
}

// GetSupplierByID busca um fornecedor com a contagem de variantes fornecidas.
func (s *Store) GetSupplierByID(ctx context.Context, id string) (domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sup, ok := s.suppliers[id]
	if !ok {
		return domain.Supplier{}, apperror.NewNotFoundError("Fornecedor com ID " + id + " não encontrado.")
	}
	sup.ProductCount = len(s.supplierProducts[id])
	return sup, nil
}

// ListSuppliers lista fornecedores em ordem de razão social.
func (s *Store) ListSuppliers(ctx context.Context, filter domain.ListFilter) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Supplier, 0, len(s.suppliers))
	for id, sup := range s.suppliers {
		sup.ProductCount = len(s.supplierProducts[id])
		out = append(out, sup)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BusinessName != out[j].BusinessName {
			return out[i].BusinessName < out[j].BusinessName
		}
		return out[i].ID < out[j].ID
	})
	return page(out, filter.Normalize()), nil
}

// UpdateSupplier substitui os dados cadastrais do fornecedor.
func (s *Store) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.suppliers[supplier.ID]
	if !ok {
		return domain.Supplier{}, apperror.NewNotFoundError("Fornecedor com ID " + supplier.ID + " não encontrado para atualização.")
	}
	supplier.AuthorID = current.AuthorID
	supplier.CreatedAt = current.CreatedAt
	supplier.UpdatedAt = s.now()
	s.suppliers[supplier.ID] = supplier
	supplier.ProductCount = len(s.supplierProducts[supplier.ID])
	return supplier, nil
}

// DeleteSupplier remove o fornecedor e seus preços.
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[id]; !ok {
		return apperror.NewNotFoundError("Fornecedor com ID " + id + " não encontrado para exclusão.")
	}
	delete(s.suppliers, id)
	delete(s.supplierProducts, id)
	return nil
}

// AddSupplierProduct vincula uma variante ao fornecedor. Par repetido gera ConflictError.
func (s *Store) AddSupplierProduct(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[sp.SupplierID]; !ok {
		return domain.SupplierProduct{}, apperror.NewNotFoundError("Fornecedor com ID " + sp.SupplierID + " não encontrado.")
	}
	if _, ok := s.variants[sp.VariantID]; !ok {
		return domain.SupplierProduct{}, apperror.NewNotFoundError("Variante com ID " + sp.VariantID + " não encontrada.")
	}
	for _, existing := range s.supplierProducts[sp.SupplierID] {
		if existing.VariantID == sp.VariantID {
			return domain.SupplierProduct{}, apperror.NewConflictError("O fornecedor já fornece a variante " + sp.VariantID + ".")
		}
	}
	if sp.ID == "" {
		sp.ID = uuid.NewString()
	}
	sp.CreatedAt = s.now()
	sp.UpdatedAt = sp.CreatedAt
	s.supplierProducts[sp.SupplierID] = append(s.supplierProducts[sp.SupplierID], sp)
	return sp, nil
}

// UpdateSupplierProduct altera o preço de um vínculo existente.
func (s *Store) UpdateSupplierProduct(ctx context.Context, sp domain.SupplierProduct) (domain.SupplierProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.supplierProducts[sp.SupplierID]
	for i, existing := range list {
		if existing.VariantID == sp.VariantID {
			existing.Price = sp.Price
			existing.UpdatedAt = s.now()
			list[i] = existing
			return existing, nil
		}
	}
	return domain.SupplierProduct{}, apperror.NewNotFoundError("Variante " + sp.VariantID + " não vinculada ao fornecedor " + sp.SupplierID + ".")
}

// ListSupplierProducts lista os preços de um fornecedor na ordem de cadastro.
func (s *Store) ListSupplierProducts(ctx context.Context, supplierID string) ([]domain.SupplierProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SupplierProduct, len(s.supplierProducts[supplierID]))
	copy(out, s.supplierProducts[supplierID])
	return out, nil
}

// RemoveSupplierProduct desfaz o vínculo entre fornecedor e variante.
func (s *Store) RemoveSupplierProduct(ctx context.Context, supplierID, variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.supplierProducts[supplierID]
	for i, existing := range list {
		if existing.VariantID == variantID {
			s.supplierProducts[supplierID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFoundError("Variante " + variantID + " não vinculada ao fornecedor " + supplierID + ".")
}
