// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria, con semántica transaccional por snapshot/rollback. Lo usan los tests
// de aplicación y HTTP, y sirve como backend embebido en procesos sin PostgreSQL.
// Las transacciones se serializan con un mutex de store: una garantía más
// estricta que la serialización por clave del backend de PostgreSQL.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

type recordKey struct {
	itemID     string
	locationID string
}

type alertKey struct {
	itemID     string
	locationID string
	alertType  string
}

// Store contiene todo el estado en memoria. Los repos siempre copian entidades
// al entrar y al salir, para que los callers no puedan mutar el estado interno.
type Store struct {
	mu        sync.Mutex
	records   map[recordKey]entity.StockRecord
	movements []entity.StockMovement
	lastSeq   map[recordKey]int64
	alerts    map[alertKey]entity.StockAlert
	items     map[string]entity.ItemMaster
	locations map[string]entity.Location
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		records:   make(map[recordKey]entity.StockRecord),
		lastSeq:   make(map[recordKey]int64),
		alerts:    make(map[alertKey]entity.StockAlert),
		items:     make(map[string]entity.ItemMaster),
		locations: make(map[string]entity.Location),
	}
}

// SeedItem registra un ítem del catálogo (stand-in del catálogo externo).
func (s *Store) SeedItem(item entity.ItemMaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// SeedLocation registra una ubicación del maestro.
func (s *Store) SeedLocation(loc entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.ID] = loc
}

// SetReservedQuantity fija la cantidad reservada de una clave, emulando al
// colaborador externo de reservas (el núcleo solo lee esta columna).
func (s *Store) SetReservedQuantity(itemID, locationID string, reserved decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := recordKey{itemID, locationID}
	rec, ok := s.records[k]
	if !ok {
		rec = entity.StockRecord{
			ItemID:     itemID,
			LocationID: locationID,
			Quantity:   decimal.Zero,
		}
	}
	rec.ReservedQuantity = reserved
	s.records[k] = rec
}

// snapshot clona el estado mutable para poder hacer rollback.
type snapshot struct {
	records      map[recordKey]entity.StockRecord
	movementsLen int
	lastSeq      map[recordKey]int64
	alerts       map[alertKey]entity.StockAlert
}

func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		records:      make(map[recordKey]entity.StockRecord, len(s.records)),
		movementsLen: len(s.movements),
		lastSeq:      make(map[recordKey]int64, len(s.lastSeq)),
		alerts:       make(map[alertKey]entity.StockAlert, len(s.alerts)),
	}
	for k, v := range s.records {
		snap.records[k] = v
	}
	for k, v := range s.lastSeq {
		snap.lastSeq[k] = v
	}
	for k, v := range s.alerts {
		snap.alerts[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.records = snap.records
	// El libro es append-only: deshacer es truncar a la longitud previa.
	s.movements = s.movements[:snap.movementsLen]
	s.lastSeq = snap.lastSeq
	s.alerts = snap.alerts
}

// lockIf toma el mutex solo fuera de transacción (dentro, el runner ya lo tiene).
func (s *Store) lockIf(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) ensureRecord(k recordKey) entity.StockRecord {
	rec, ok := s.records[k]
	if !ok {
		rec = entity.StockRecord{
			ItemID:     k.itemID,
			LocationID: k.locationID,
			Quantity:   decimal.Zero,
		}
		s.records[k] = rec
	}
	return rec
}

func (s *Store) appendMovement(m *entity.StockMovement) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	k := recordKey{m.ItemID, m.LocationID}
	s.movements = append(s.movements, *m)
	if m.Sequence > s.lastSeq[k] {
		s.lastSeq[k] = m.Sequence
	}
}
