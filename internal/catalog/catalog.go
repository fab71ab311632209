package catalog

import (
	"context"
	"sync"

	"talonbot/internal/domain"
	"talonbot/internal/models"

	"github.com/rs/zerolog"
)

// snapshot — неизменяемое представление меню услуг. Строится целиком и
// подменяется атомарно, читатели никогда не видят полусобранный каталог.
type snapshot struct {
	mainEntries []string
	// operations хранит названия услуг группы в порядке, выданном бэкендом.
	operations map[int64][]string
	groups     map[string]models.Group
	ops        map[string]models.Operation
}

func emptySnapshot() *snapshot {
	return &snapshot{
		operations: make(map[int64][]string),
		groups:     make(map[string]models.Group),
		ops:        make(map[string]models.Operation),
	}
}

// buildSnapshot раскладывает группы в индексы для диспетчера.
// При совпадении названий выигрывает последняя запись: бэкенд не
// гарантирует уникальность, навигация при этом ключуется по ID.
func buildSnapshot(groups []models.Group) *snapshot {
	s := emptySnapshot()
	for _, g := range groups {
		s.mainEntries = append(s.mainEntries, g.Name)
		s.groups[g.Name] = g

		names := make([]string, 0, len(g.Operations))
		for _, op := range g.Operations {
			names = append(names, op.Name)
			s.ops[op.Name] = op
		}
		s.operations[g.ID] = names
	}
	return s
}

// Service кэширует меню и список отделений. Реализует domain.Catalog.
type Service struct {
	source domain.CatalogSource
	logger *zerolog.Logger

	mu          sync.RWMutex
	snap        *snapshot
	departments []models.Department
}

func NewService(source domain.CatalogSource, logger *zerolog.Logger) *Service {
	return &Service{
		source: source,
		logger: logger,
		snap:   emptySnapshot(),
	}
}

// Reload перечитывает меню и отделения из бэкенда.
// Ошибка меню оставляет каталог пустым: пользовательские реплики перестанут
// совпадать с пунктами меню и уйдут в ветку «не понимаю» — это осознанная
// тихая деградация, а не остановка. Ошибка списка отделений сохраняет
// предыдущий список.
func (s *Service) Reload(ctx context.Context) {
	snap := emptySnapshot()
	groups, err := s.source.LoadMenu(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("catalog: menu load failed, serving empty catalog")
	} else {
		snap = buildSnapshot(groups)
	}

	departments, depErr := s.source.LoadDepartments(ctx)
	if depErr != nil {
		s.logger.Error().Err(depErr).Msg("catalog: departments load failed, keeping previous list")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	if depErr == nil {
		s.departments = departments
	}
}

// MainEntries возвращает названия групп в порядке бэкенда.
func (s *Service) MainEntries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.mainEntries
}

// GroupByName находит группу по отображаемому названию.
func (s *Service) GroupByName(name string) (models.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.snap.groups[name]
	return g, ok
}

// OperationByName находит услугу по отображаемому названию.
func (s *Service) OperationByName(name string) (models.Operation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.snap.ops[name]
	return op, ok
}

// GroupOperations возвращает названия услуг группы в порядке бэкенда.
func (s *Service) GroupOperations(groupID int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.operations[groupID]
}

// DepartmentByAddress находит отделение по адресу.
// При дублирующихся адресах выигрывает первое в порядке каталога.
func (s *Service) DepartmentByAddress(address string) (models.Department, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.departments {
		if d.Address == address {
			return d, true
		}
	}
	return models.Department{}, false
}

// DepartmentAddresses возвращает адреса отделений в порядке каталога.
func (s *Service) DepartmentAddresses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addresses := make([]string, 0, len(s.departments))
	for _, d := range s.departments {
		addresses = append(addresses, d.Address)
	}
	return addresses
}
