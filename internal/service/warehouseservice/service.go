package warehouseservice

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

// WarehouseRepository define o contrato que o Serviço de Armazéns espera da camada de Persistência.
type WarehouseRepository interface {
	CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	GetWarehouseByID(ctx context.Context, id string) (domain.Warehouse, error)
	GetAllWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id string) error
	AddWarehouseUser(ctx context.Context, member domain.WarehouseUser) (domain.WarehouseUser, error)
	ListWarehouseUsers(ctx context.Context, warehouseID string) ([]domain.WarehouseUser, error)
}

// Service implementa as regras de negócio de armazéns.
type Service struct {
	repo   WarehouseRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Armazéns.
func NewService(repo WarehouseRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateWarehouse cria um novo armazém. Sem slug informado, ele é derivado do nome.
func (s *Service) CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	s.logger.Debug("Iniciando criação de armazém no serviço.", map[string]interface{}{"name": warehouse.Name})

	if err := s.prepare(&warehouse); err != nil {
		s.logger.Warn("Falha na validação do armazém.", map[string]interface{}{"name": warehouse.Name, "error": err.Error()})
		return domain.Warehouse{}, err
	}
	warehouse.ID = ""
	warehouse.IsActive = true

	created, err := s.repo.CreateWarehouse(ctx, warehouse)
	if err != nil {
		s.logger.Warn("Falha ao criar armazém no repositório.", map[string]interface{}{"error": err.Error()})
		return domain.Warehouse{}, err
	}

	s.logger.Info("Armazém criado com sucesso.", map[string]interface{}{"id": created.ID, "slug": created.Slug})
	return created, nil
}

// GetWarehouseByID busca um armazém pelo ID.
func (s *Service) GetWarehouseByID(ctx context.Context, id string) (domain.Warehouse, error) {
	if err := validateID(id); err != nil {
		return domain.Warehouse{}, err
	}
	return s.repo.GetWarehouseByID(ctx, id)
}

// GetAllWarehouses busca todos os armazéns.
func (s *Service) GetAllWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	warehouses, err := s.repo.GetAllWarehouses(ctx)
	if err != nil {
		s.logger.Error("Falha ao buscar todos os armazéns no repositório.", err)
		return nil, err
	}
	return warehouses, nil
}

// UpdateWarehouse atualiza nome, slug, localização e situação de um armazém.
func (s *Service) UpdateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	if err := validateID(warehouse.ID); err != nil {
		return domain.Warehouse{}, err
	}
	if err := s.prepare(&warehouse); err != nil {
		s.logger.Warn("Falha na validação do armazém para atualização.", map[string]interface{}{"id": warehouse.ID, "error": err.Error()})
		return domain.Warehouse{}, err
	}

	updated, err := s.repo.UpdateWarehouse(ctx, warehouse)
	if err != nil {
		return domain.Warehouse{}, err
	}
	s.logger.Info("Armazém atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteWarehouse remove um armazém.
func (s *Service) DeleteWarehouse(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteWarehouse(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Armazém deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// AddMember vincula um usuário ao armazém com o papel informado.
func (s *Service) AddMember(ctx context.Context, member domain.WarehouseUser) (domain.WarehouseUser, error) {
	if err := validateID(member.WarehouseID); err != nil {
		return domain.WarehouseUser{}, err
	}
	if _, err := uuid.Parse(member.UserID); err != nil {
		return domain.WarehouseUser{}, apperror.NewFieldValidationError("user_id", "O ID do usuário deve ser um UUID válido.")
	}
	member.Role = domain.WarehouseRole(strings.ToUpper(string(member.Role)))
	if member.Role != domain.WarehouseManager && member.Role != domain.WarehouseStaff {
		return domain.WarehouseUser{}, apperror.NewFieldValidationError("role", "O papel deve ser MANAGER ou STAFF.")
	}

	added, err := s.repo.AddWarehouseUser(ctx, member)
	if err != nil {
		return domain.WarehouseUser{}, err
	}
	s.logger.Info("Usuário vinculado ao armazém.", map[string]interface{}{"warehouse_id": added.WarehouseID, "user_id": added.UserID, "role": added.Role})
	return added, nil
}

// ListMembers lista os usuários vinculados a um armazém.
func (s *Service) ListMembers(ctx context.Context, warehouseID string) ([]domain.WarehouseUser, error) {
	if err := validateID(warehouseID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetWarehouseByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.repo.ListWarehouseUsers(ctx, warehouseID)
}

func (s *Service) prepare(warehouse *domain.Warehouse) error {
	warehouse.Name = strings.TrimSpace(warehouse.Name)
	if warehouse.Name == "" {
		return apperror.NewFieldValidationError("name", "O nome do armazém não pode ser vazio.")
	}
	if len(warehouse.Name) < 3 || len(warehouse.Name) > 100 {
		return apperror.NewFieldValidationError("name", "O nome do armazém deve ter entre 3 e 100 caracteres.")
	}
	if strings.TrimSpace(warehouse.Slug) == "" {
		warehouse.Slug = Slugify(warehouse.Name)
	} else {
		warehouse.Slug = Slugify(warehouse.Slug)
	}
	if warehouse.Slug == "" {
		return apperror.NewFieldValidationError("slug", "Não foi possível gerar um slug válido.")
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do armazém deve ser um UUID válido.")
	}
	return nil
}

// Slugify converte texto livre em slug: minúsculas sem acento, palavras unidas por hífen.
func Slugify(text string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			hyphen = false
		case b.Len() > 0 && !hyphen:
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
