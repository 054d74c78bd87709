package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.StockRecordRepository   = (*recordRepo)(nil)
	_ repository.StockAlertRepository    = (*alertRepo)(nil)
	_ repository.ItemMasterRepository    = (*itemRepo)(nil)
	_ repository.LocationRepository      = (*locationRepo)(nil)
)

// Movements devuelve el repositorio de movimientos fuera de transacción.
func (s *Store) Movements() repository.StockMovementRepository {
	return &movementRepo{s: s}
}

// Records devuelve el repositorio de proyección fuera de transacción.
func (s *Store) Records() repository.StockRecordRepository {
	return &recordRepo{s: s}
}

// Alerts devuelve el repositorio de alertas fuera de transacción.
func (s *Store) Alerts() repository.StockAlertRepository {
	return &alertRepo{s: s}
}

// Items devuelve el puerto de catálogo de ítems.
func (s *Store) Items() repository.ItemMasterRepository {
	return &itemRepo{s: s}
}

// Locations devuelve el puerto del maestro de ubicaciones.
func (s *Store) Locations() repository.LocationRepository {
	return &locationRepo{s: s}
}

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Append(_ context.Context, movement *entity.StockMovement) error {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	r.s.appendMovement(movement)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	for i := range r.s.movements {
		if r.s.movements[i].ID == id {
			m := r.s.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()

	var matched []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.LocationID != "" && m.LocationID != filter.LocationID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.TransferGroupID != "" && m.TransferGroupID != filter.TransferGroupID {
			continue
		}
		if filter.From != nil && m.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.Timestamp.After(*filter.To) {
			continue
		}
		matched = append(matched, &m)
	}
	// Más recientes primero, como el backend SQL.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (r *movementRepo) ListByKey(_ context.Context, itemID, locationID string, afterSequence int64, limit int) ([]*entity.StockMovement, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()

	var matched []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ItemID == itemID && m.LocationID == locationID && m.Sequence > afterSequence {
			matched = append(matched, &m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Sequence < matched[j].Sequence
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *movementRepo) ListByTransferGroup(_ context.Context, transferGroupID string) ([]*entity.StockMovement, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()

	var matched []*entity.StockMovement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.TransferGroupID == transferGroupID {
			matched = append(matched, &m)
		}
	}
	return matched, nil
}

func (r *movementRepo) NextSequence(_ context.Context, itemID, locationID string) (int64, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	return r.s.lastSeq[recordKey{itemID, locationID}] + 1, nil
}

type recordRepo struct {
	s    *Store
	inTx bool
}

func (r *recordRepo) Get(_ context.Context, itemID, locationID string) (*entity.StockRecord, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	k := recordKey{itemID, locationID}
	rec, ok := r.s.records[k]
	if !ok {
		rec = entity.StockRecord{ItemID: itemID, LocationID: locationID}
	}
	return &rec, nil
}

func (r *recordRepo) GetForUpdate(_ context.Context, itemID, locationID string) (*entity.StockRecord, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	rec := r.s.ensureRecord(recordKey{itemID, locationID})
	return &rec, nil
}

func (r *recordRepo) Upsert(_ context.Context, record *entity.StockRecord) error {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	k := recordKey{record.ItemID, record.LocationID}
	stored := r.s.ensureRecord(k)
	// reserved_quantity pertenece al colaborador de reservas: no se pisa aquí.
	stored.Quantity = record.Quantity
	stored.LastMovementAt = record.LastMovementAt
	stored.UpdatedAt = record.UpdatedAt
	r.s.records[k] = stored
	return nil
}

type alertRepo struct {
	s    *Store
	inTx bool
}

func (r *alertRepo) GetByID(_ context.Context, id string) (*entity.StockAlert, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	for _, a := range r.s.alerts {
		if a.ID == id {
			al := a
			return &al, nil
		}
	}
	return nil, nil
}

func (r *alertRepo) GetByKey(_ context.Context, itemID, locationID, alertType string) (*entity.StockAlert, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	a, ok := r.s.alerts[alertKey{itemID, locationID, alertType}]
	if !ok {
		return nil, nil
	}
	al := a
	return &al, nil
}

func (r *alertRepo) Upsert(_ context.Context, alert *entity.StockAlert) error {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()
	r.s.alerts[alertKey{alert.ItemID, alert.LocationID, alert.Type}] = *alert
	return nil
}

func (r *alertRepo) List(_ context.Context, filter repository.AlertFilter) ([]*entity.StockAlert, error) {
	unlock := r.s.lockIf(r.inTx)
	defer unlock()

	var matched []*entity.StockAlert
	for _, a := range r.s.alerts {
		if filter.ItemID != "" && a.ItemID != filter.ItemID {
			continue
		}
		if filter.LocationID != "" && a.LocationID != filter.LocationID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		al := a
		matched = append(matched, &al)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})
	return paginate(matched, filter.Limit, filter.Offset), nil
}

type itemRepo struct {
	s *Store
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.ItemMaster, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

type locationRepo struct {
	s *Store
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
