package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
)

// --- Usuários ---

// Save grava um novo usuário. E-mail duplicado gera ConflictError.
func (s *Store) Save(ctx context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.User{}, apperror.NewConflictError("O email '" + user.Email + "' já está em uso.")
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user, nil
}

// FindByEmail busca um usuário pelo e-mail.
func (s *Store) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, apperror.NewNotFoundError("Usuário com email '" + email + "' não encontrado")
}

// --- Armazéns ---

// CreateWarehouse grava um armazém. Slug duplicado gera ConflictError.
func (s *Store) CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slugTaken(warehouse.Slug, "") {
		return domain.Warehouse{}, apperror.NewConflictError("Já existe um armazém com o slug '" + warehouse.Slug + "'.")
	}
	if warehouse.ID == "" {
		warehouse.ID = uuid.NewString()
	}
	warehouse.CreatedAt = s.now()
	warehouse.UpdatedAt = warehouse.CreatedAt
	s.warehouses[warehouse.ID] = warehouse
	return warehouse, nil
}

// GetWarehouseByID busca um armazém pelo ID.
func (s *Store) GetWarehouseByID(ctx context.Context, id string) (domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.warehouses[id]
	if !ok {
		return domain.Warehouse{}, apperror.NewNotFoundError("Armazém com ID " + id + " não encontrado.")
	}
	return w, nil
}

// GetAllWarehouses lista os armazéns em ordem de nome.
func (s *Store) GetAllWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Warehouse, 0, len(s.warehouses))
	for _, w := range s.warehouses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UpdateWarehouse atualiza nome, slug, localização e status.
func (s *Store) UpdateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.warehouses[warehouse.ID]
	if !ok {
		return domain.Warehouse{}, apperror.NewNotFoundError("Armazém com ID " + warehouse.ID + " não encontrado para atualização.")
	}
	if s.slugTaken(warehouse.Slug, warehouse.ID) {
		return domain.Warehouse{}, apperror.NewConflictError("Já existe um armazém com o slug '" + warehouse.Slug + "'.")
	}
	warehouse.CreatedAt = current.CreatedAt
	warehouse.UpdatedAt = s.now()
	s.warehouses[warehouse.ID] = warehouse
	return warehouse, nil
}

// DeleteWarehouse remove um armazém e seus vínculos de usuários.
func (s *Store) DeleteWarehouse(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[id]; !ok {
		return apperror.NewNotFoundError("Armazém com ID " + id + " não encontrado para exclusão.")
	}
	delete(s.warehouses, id)
	delete(s.members, id)
	return nil
}

// AddWarehouseUser vincula um usuário a um armazém, substituindo o papel anterior.
func (s *Store) AddWarehouseUser(ctx context.Context, member domain.WarehouseUser) (domain.WarehouseUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[member.WarehouseID]; !ok {
		return domain.WarehouseUser{}, apperror.NewNotFoundError("Armazém com ID " + member.WarehouseID + " não encontrado.")
	}
	if _, ok := s.users[member.UserID]; !ok {
		return domain.WarehouseUser{}, apperror.NewNotFoundError("Usuário com ID " + member.UserID + " não encontrado.")
	}
	member.CreatedAt = s.now()
	list := s.members[member.WarehouseID]
	for i, m := range list {
		if m.UserID == member.UserID {
			list[i] = member
			return member, nil
		}
	}
	s.members[member.WarehouseID] = append(list, member)
	return member, nil
}

// ListWarehouseUsers lista os vínculos de um armazém.
func (s *Store) ListWarehouseUsers(ctx context.Context, warehouseID string) ([]domain.WarehouseUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WarehouseUser, len(s.members[warehouseID]))
	copy(out, s.members[warehouseID])
	return out, nil
}

// ManagerEmails devolve os e-mails dos gerentes do armazém.
func (s *Store) ManagerEmails(ctx context.Context, warehouseID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var emails []string
	for _, m := range s.members[warehouseID] {
		if m.Role != domain.WarehouseManager {
			continue
		}
		if u, ok := s.users[m.UserID]; ok {
			emails = append(emails, u.Email)
		}
	}
	sort.Strings(emails)
	return emails, nil
}

func (s *Store) slugTaken(slug, exceptID string) bool {
	for id, w := range s.warehouses {
		if id != exceptID && w.Slug == slug {
			return true
		}
	}
	return false
}

// --- Produtos ---

// SaveProduct grava um produto e suas variantes. SKU duplicado gera ConflictError.
func (s *Store) SaveProduct(ctx context.Context, product domain.Product, variants []domain.Variant) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.SKU == product.SKU {
			return domain.Product{}, apperror.NewConflictError("Já existe um produto com o SKU '" + product.SKU + "'.")
		}
	}
	for _, v := range variants {
		s.variants[v.ID] = v
	}
	product.Variants = append([]domain.Variant(nil), variants...)
	s.products[product.ID] = product
	return product, nil
}

// FindProductByID busca um produto com suas variantes.
func (s *Store) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, apperror.NewNotFoundError("Produto com ID " + id + " não existe na base de dados.")
	}
	return p, nil
}

// FindAllProducts lista produtos em ordem de nome.
func (s *Store) FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Product
	for _, p := range s.products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, domain.ListFilter{Limit: filter.Limit, Offset: filter.Offset}.Normalize()), nil
}
