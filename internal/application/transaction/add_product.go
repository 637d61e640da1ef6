package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
	"github.com/jhoicas/Caja-api/internal/domain/stock"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

// DefaultTimeout límite de la unidad de trabajo si no se configura otro.
const DefaultTimeout = 10 * time.Second

// Fases de una petición; se registran como eventos del span.
const (
	phaseValidated  = "validated"
	phaseComputing  = "computing"
	phaseCommitting = "committing"
	phaseCommitted  = "committed"
	phaseAborted    = "aborted"
)

// AddProductUseCase agrega (o incrementa) un producto en una transacción abierta
// descontando el stock del producto en la misma transacción de BD.
type AddProductUseCase struct {
	txRunner        TxRunner
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	log             *logger.Logger
	tracer          trace.Tracer
	timeout         time.Duration
}

// NewAddProductUseCase construye el caso de uso. timeout <= 0 usa DefaultTimeout.
func NewAddProductUseCase(
	txRunner TxRunner,
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
	tracer trace.Tracer,
	timeout time.Duration,
) *AddProductUseCase {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AddProductUseCase{
		txRunner:        txRunner,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		log:             log,
		tracer:          tracer,
		timeout:         timeout,
	}
}

// AddProductInput entrada del caso de uso. Quantity es el delta a sumar, en texto decimal.
type AddProductInput struct {
	TransactionID string
	ProductID     string
	Quantity      string
	UserID        string
}

// AddProductFromRequest adapta el request HTTP al caso de uso Execute.
func (uc *AddProductUseCase) AddProductFromRequest(ctx context.Context, userID, transactionID, productID string, in dto.AddProductRequest) error {
	return uc.Execute(ctx, AddProductInput{
		TransactionID: transactionID,
		ProductID:     productID,
		Quantity:      in.Quantity,
		UserID:        userID,
	})
}

// Execute valida las precondiciones (sin bloqueo), y luego en una sola transacción:
// bloquea el producto (SELECT FOR UPDATE), lee el ítem actual, calcula stock y cantidad,
// revalida stock >= 0 y persiste ambos cambios. Commit o Rollback completos.
//
// No reintenta: un domain.ErrConflict se devuelve al caller para que decida.
func (uc *AddProductUseCase) Execute(ctx context.Context, in AddProductInput) error {
	ctx, span := uc.tracer.Start(ctx, "transaction.AddProduct", trace.WithAttributes(
		attribute.String("transaction.id", in.TransactionID),
		attribute.String("product.id", in.ProductID),
		attribute.String("quantity", in.Quantity),
	))
	defer span.End()

	result, err := uc.execute(ctx, span, in)
	if err != nil {
		span.AddEvent(phaseAborted)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.AddEvent(phaseCommitted, trace.WithAttributes(
		attribute.String("stock.new", result.NewStock.String()),
		attribute.String("line_item.quantity", result.NewQuantity.String()),
	))
	uc.log.Debug().
		Str("transaction_id", in.TransactionID).
		Str("product_id", in.ProductID).
		Str("delta", result.Delta().String()).
		Str("stock", result.NewStock.StringFixed(stock.FinalStockScale)).
		Str("line_item_quantity", result.NewQuantity.String()).
		Bool("merged", result.Existed).
		Msg("producto agregado a la transacción")
	return nil
}

func (uc *AddProductUseCase) execute(ctx context.Context, span trace.Span, in AddProductInput) (stock.MergeResult, error) {
	qty, err := stock.ParseQuantity(in.Quantity)
	if err != nil {
		return stock.MergeResult{}, err
	}

	txn, err := uc.transactionRepo.GetByID(ctx, in.TransactionID)
	if err != nil {
		return stock.MergeResult{}, err
	}
	if txn == nil {
		return stock.MergeResult{}, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return stock.MergeResult{}, err
	}
	if product == nil {
		return stock.MergeResult{}, domain.ErrNotFound
	}

	if err := stock.Guard(stock.GuardInput{
		Transaction: txn,
		Product:     product,
		Quantity:    qty,
		UserID:      in.UserID,
	}); err != nil {
		return stock.MergeResult{}, err
	}
	if !stock.FitsPrecision(qty, product.DecimalPrecision) {
		return stock.MergeResult{}, fmt.Errorf("%w: la cantidad admite %d decimales", domain.ErrInvalidInput, product.DecimalPrecision)
	}
	span.AddEvent(phaseValidated)

	txCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var result stock.MergeResult
	err = uc.txRunner.Run(txCtx, func(
		productRepo repository.ProductRepository,
		lineItemRepo repository.LineItemRepository,
	) error {
		locked, err := productRepo.GetForUpdate(txCtx, in.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		item, err := lineItemRepo.GetForUpdate(txCtx, in.TransactionID, in.ProductID)
		if err != nil {
			return err
		}

		// La validación previa se hizo sin bloqueo; aquí es la definitiva y sin truncar.
		if qty.GreaterThan(locked.StockQuantity) {
			return domain.ErrInsufficientStock
		}

		span.AddEvent(phaseComputing)
		var existing *decimal.Decimal
		if item != nil {
			existing = &item.Quantity
		}
		result = stock.Merge(locked.StockQuantity, existing, qty, locked.DecimalPrecision)
		if result.NewStock.IsNegative() {
			return domain.ErrInsufficientStock
		}

		span.AddEvent(phaseCommitting)
		if err := productRepo.UpdateStock(txCtx, in.ProductID, result.NewStock); err != nil {
			return err
		}
		now := time.Now()
		if item == nil {
			item = &entity.LineItem{
				TransactionID: in.TransactionID,
				ProductID:     in.ProductID,
				CreatedAt:     now,
			}
		}
		item.Quantity = result.NewQuantity
		item.UpdatedAt = now
		return lineItemRepo.Upsert(txCtx, item)
	})
	if err != nil {
		// Sin lock a tiempo: reintentable, distinto de las reglas de negocio.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil && !errors.Is(err, domain.ErrConflict) {
			return stock.MergeResult{}, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return stock.MergeResult{}, err
	}
	return result, nil
}
