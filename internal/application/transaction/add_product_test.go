package transaction_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/transaction"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTxnID     = "00000000-0000-0000-0000-00000000000a"
	testProductID = "00000000-0000-0000-0000-00000000000b"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// setup crea una caja abierta del usuario de test, una transacción STARTED y un producto con stock.
func setup(t *testing.T, stockQty string) (*memStore, *transaction.AddProductUseCase) {
	t.Helper()
	s := newMemStore()
	s.putProduct(entity.Product{ID: testProductID, Name: "Arroz", StockQuantity: dec(stockQty), DecimalPrecision: 2})
	s.putTransaction(entity.Transaction{
		ID:         testTxnID,
		RegisterID: "reg-1",
		Status:     entity.TransactionStatusStarted,
		Register:   &entity.Register{ID: "reg-1", UserID: testUserID, OpenedAt: time.Now()},
	})
	return s, newUseCase(s, time.Second)
}

func newUseCase(s *memStore, timeout time.Duration) *transaction.AddProductUseCase {
	return transaction.NewAddProductUseCase(
		memRunner{s}, memTransactionRepo{s}, memProductRepo{s},
		logger.Nop(), noop.NewTracerProvider().Tracer("test"), timeout,
	)
}

func add(uc *transaction.AddProductUseCase, qty string) error {
	return uc.Execute(context.Background(), transaction.AddProductInput{
		TransactionID: testTxnID,
		ProductID:     testProductID,
		Quantity:      qty,
		UserID:        testUserID,
	})
}

func assertStock(t *testing.T, s *memStore, want string) {
	t.Helper()
	got := s.stockOf(testProductID)
	assert.True(t, got.Equal(dec(want)), "stock esperado %s, fue %s", want, got)
}

func assertSingleItem(t *testing.T, s *memStore, want string) {
	t.Helper()
	items := s.itemsOf(testTxnID)
	require.Len(t, items, 1, "debe existir un único ítem por (transacción, producto)")
	assert.True(t, items[0].Quantity.Equal(dec(want)), "cantidad esperada %s, fue %s", want, items[0].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_PrimeraVez_CreaItemYDescuentaStock(t *testing.T) {
	s, uc := setup(t, "50.00")

	require.NoError(t, add(uc, "10"))

	assertStock(t, s, "40.00")
	assertSingleItem(t, s, "10")
}

func TestAddProduct_SegundaVez_IncrementaMismoItem(t *testing.T) {
	s, uc := setup(t, "50.00")

	require.NoError(t, add(uc, "10"))
	require.NoError(t, add(uc, "5"))

	assertStock(t, s, "35.00")
	assertSingleItem(t, s, "15")
}

func TestAddProduct_NoTocaOtrosItemsDeLaTransaccion(t *testing.T) {
	s, uc := setup(t, "50.00")
	s.putItem(entity.LineItem{TransactionID: testTxnID, ProductID: "otro-producto", Quantity: dec("2")})

	require.NoError(t, add(uc, "1"))

	items := s.itemsOf(testTxnID)
	assert.Len(t, items, 2)
}

func TestAddProduct_StockInsuficiente_NoModifica(t *testing.T) {
	s, uc := setup(t, "5.00")

	err := add(uc, "10")

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertStock(t, s, "5.00")
	assert.Empty(t, s.itemsOf(testTxnID))
	assert.Zero(t, s.commits)
}

func TestAddProduct_CajaCerrada_EsIdempotente(t *testing.T) {
	s, uc := setup(t, "50.00")
	txn := s.txns[testTxnID]
	closed := time.Now()
	txn.Register.ClosedAt = &closed
	s.putTransaction(txn)

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, add(uc, "1"), domain.ErrRegisterClosed)
	}
	assertStock(t, s, "50.00")
	assert.Empty(t, s.itemsOf(testTxnID))
	assert.Zero(t, s.commits)
}

func TestAddProduct_EstadoFinalizado(t *testing.T) {
	s, uc := setup(t, "50.00")
	txn := s.txns[testTxnID]
	txn.Status = entity.TransactionStatusFinished
	s.putTransaction(txn)

	require.ErrorIs(t, add(uc, "1"), domain.ErrInvalidStatusForLineItemEdit)
	assertStock(t, s, "50.00")
	assert.Zero(t, s.commits)
}

func TestAddProduct_UsuarioAjeno_EsNotFound(t *testing.T) {
	s, uc := setup(t, "50.00")

	err := uc.Execute(context.Background(), transaction.AddProductInput{
		TransactionID: testTxnID,
		ProductID:     testProductID,
		Quantity:      "1",
		UserID:        "00000000-0000-0000-0000-000000000999",
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assertStock(t, s, "50.00")
}

func TestAddProduct_RecursosInexistentes(t *testing.T) {
	_, uc := setup(t, "50.00")

	err := uc.Execute(context.Background(), transaction.AddProductInput{
		TransactionID: "no-existe", ProductID: testProductID, Quantity: "1", UserID: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Execute(context.Background(), transaction.AddProductInput{
		TransactionID: testTxnID, ProductID: "no-existe", Quantity: "1", UserID: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddProduct_CantidadInvalida(t *testing.T) {
	s, uc := setup(t, "50.00")

	for _, q := range []string{"", "abc", "0", "-3", "1.234", "1e99999999", "1e-99999999"} {
		t.Run(fmt.Sprintf("%q", q), func(t *testing.T) {
			assert.ErrorIs(t, add(uc, q), domain.ErrInvalidInput)
		})
	}
	assertStock(t, s, "50.00")
}

func TestAddProduct_CantidadDecimalExacta(t *testing.T) {
	s, uc := setup(t, "10.00")

	require.NoError(t, add(uc, "3.33"))

	assertStock(t, s, "6.67")
	assert.Equal(t, "6.67", s.stockOf(testProductID).StringFixed(2))
}

func TestAddProduct_FromRequest(t *testing.T) {
	s, uc := setup(t, "50.00")

	err := uc.AddProductFromRequest(context.Background(), testUserID, testTxnID, testProductID, dto.AddProductRequest{Quantity: "2.5"})

	require.NoError(t, err)
	assertStock(t, s, "47.50")
	assertSingleItem(t, s, "2.5")
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad y revalidación dentro de la transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_FalloEnSegundaEscritura_NoDejaStockDescontado(t *testing.T) {
	s, uc := setup(t, "50.00")
	s.upsertErr = errors.New("disco lleno")

	err := add(uc, "10")

	require.Error(t, err)
	assertStock(t, s, "50.00")
	assert.Empty(t, s.itemsOf(testTxnID))
}

func TestAddProduct_StockCambiaEntreValidacionYCommit(t *testing.T) {
	s, uc := setup(t, "5.00")
	// Otra venta consume stock después de la validación previa.
	s.onRun = func(s *memStore) {
		p := s.products[testProductID]
		p.StockQuantity = dec("2.00")
		s.putProduct(p)
	}

	err := add(uc, "4")

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertStock(t, s, "2.00")
	assert.Empty(t, s.itemsOf(testTxnID))
}

func TestAddProduct_StockCambiaEntreValidacionYCommit_SobregiroMenorALaEscalaFinal(t *testing.T) {
	s, _ := setup(t, "5.000")
	p := s.products[testProductID]
	p.DecimalPrecision = 3
	s.putProduct(p)
	uc := newUseCase(s, time.Second)
	s.onRun = func(s *memStore) {
		p := s.products[testProductID]
		p.StockQuantity = dec("1.000")
		s.putProduct(p)
	}

	err := add(uc, "1.005")

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertStock(t, s, "1.000")
	assert.Empty(t, s.itemsOf(testTxnID))
}

func TestAddProduct_ConflictoEsReintentable(t *testing.T) {
	s, uc := setup(t, "50.00")
	s.runErr = fmt.Errorf("%w: lock_not_available", domain.ErrConflict)

	err := add(uc, "1")

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, domain.IsRetryable(err))
	assert.False(t, domain.IsRetryable(domain.ErrInsufficientStock))
}

func TestAddProduct_TimeoutDeLaUnidadDeTrabajo_EsConflicto(t *testing.T) {
	s, _ := setup(t, "50.00")
	uc := newUseCase(s, 20*time.Millisecond)
	// Otra unidad de trabajo retiene el bloqueo más allá del timeout.
	s.unit.Lock()
	time.AfterFunc(80*time.Millisecond, s.unit.Unlock)

	err := add(uc, "1")

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, errors.Is(err, context.DeadlineExceeded))
	assertStock(t, s, "50.00")
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_Concurrente_SinActualizacionesPerdidas(t *testing.T) {
	s, uc := setup(t, "10.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = add(uc, "3")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assertStock(t, s, "4.00")
	assertSingleItem(t, s, "6")
}

func TestAddProduct_Concurrente_Conservacion(t *testing.T) {
	s, uc := setup(t, "10.00")

	const n = 15
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := add(uc, "1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 5, rejected)
	assertStock(t, s, "0.00")
	assertSingleItem(t, s, "10")
	assert.False(t, s.stockOf(testProductID).IsNegative())
}
