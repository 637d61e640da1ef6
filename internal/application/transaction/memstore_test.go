package transaction_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

type itemKey struct{ txn, product string }

// memStore simula el almacenamiento relacional: lecturas sin bloqueo fuera de Run
// y unidades de trabajo serializadas (equivalente al bloqueo de fila) con escrituras
// que solo se aplican si fn termina sin error.
type memStore struct {
	unit sync.Mutex // una unidad de trabajo a la vez
	mu   sync.RWMutex

	products map[string]entity.Product
	txns     map[string]entity.Transaction
	items    map[itemKey]entity.LineItem

	// onRun se ejecuta al inicio de cada unidad de trabajo, con el bloqueo tomado.
	onRun func(s *memStore)
	// upsertErr fuerza un fallo en la segunda escritura.
	upsertErr error
	// runErr hace fallar Run sin ejecutar fn.
	runErr  error
	commits int
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]entity.Product{},
		txns:     map[string]entity.Transaction{},
		items:    map[itemKey]entity.LineItem{},
	}
}

func (s *memStore) putProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memStore) putTransaction(t entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[t.ID] = t
}

func (s *memStore) putItem(it entity.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[itemKey{it.TransactionID, it.ProductID}] = it
}

func (s *memStore) stockOf(id string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products[id].StockQuantity
}

func (s *memStore) itemsOf(txnID string) []entity.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.LineItem
	for k, v := range s.items {
		if k.txn == txnID {
			out = append(out, v)
		}
	}
	return out
}

// ── lecturas sin bloqueo ──

type memTransactionRepo struct{ s *memStore }

func (r memTransactionRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.txns[id]
	if !ok {
		return nil, nil
	}
	if t.Register != nil {
		reg := *t.Register
		t.Register = &reg
	}
	return &t, nil
}

type memProductRepo struct{ s *memStore }

func (r memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r memProductRepo) UpdateStock(context.Context, string, decimal.Decimal) error {
	panic("UpdateStock fuera de una unidad de trabajo")
}

// ── unidad de trabajo ──

type memUnit struct {
	s        *memStore
	products map[string]decimal.Decimal
	items    map[itemKey]entity.LineItem
}

type memUnitProducts struct{ u *memUnit }

func (r memUnitProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := memProductRepo{r.u.s}.GetByID(ctx, id)
	if p != nil {
		if q, ok := r.u.products[id]; ok {
			p.StockQuantity = q
		}
	}
	return p, err
}

func (r memUnitProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r memUnitProducts) UpdateStock(_ context.Context, id string, q decimal.Decimal) error {
	r.u.products[id] = q
	return nil
}

type memUnitItems struct{ u *memUnit }

func (r memUnitItems) GetForUpdate(_ context.Context, txnID, productID string) (*entity.LineItem, error) {
	k := itemKey{txnID, productID}
	if it, ok := r.u.items[k]; ok {
		return &it, nil
	}
	r.u.s.mu.RLock()
	defer r.u.s.mu.RUnlock()
	it, ok := r.u.s.items[k]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r memUnitItems) Upsert(_ context.Context, it *entity.LineItem) error {
	if r.u.s.upsertErr != nil {
		return r.u.s.upsertErr
	}
	r.u.items[itemKey{it.TransactionID, it.ProductID}] = *it
	return nil
}

type memRunner struct{ s *memStore }

func (m memRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.LineItemRepository) error) error {
	s := m.s
	s.unit.Lock()
	defer s.unit.Unlock()
	if s.runErr != nil {
		return s.runErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.onRun != nil {
		s.onRun(s)
	}
	u := &memUnit{s: s, products: map[string]decimal.Decimal{}, items: map[itemKey]entity.LineItem{}}
	if err := fn(memUnitProducts{u}, memUnitItems{u}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, q := range u.products {
		p := s.products[id]
		p.StockQuantity = q
		s.products[id] = p
	}
	for k, it := range u.items {
		s.items[k] = it
	}
	s.commits++
	return nil
}
