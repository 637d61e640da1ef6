package stock

import "github.com/shopspring/decimal"

// MergeResult valores a persistir tras agregar un producto a la transacción.
type MergeResult struct {
	CurrentStock decimal.Decimal
	NewStock     decimal.Decimal
	NewQuantity  decimal.Decimal
	Existed      bool // ya había un ítem para (transacción, producto)
}

// Delta cantidad descontada del stock por esta operación.
func (r MergeResult) Delta() decimal.Decimal {
	return r.CurrentStock.Sub(r.NewStock)
}

// Merge decide si se crea el ítem o se incrementa el existente y calcula el nuevo stock.
// incoming es siempre la cantidad a sumar (delta), no el total deseado.
//
// Con ítem previo se "devuelve" al stock lo ya reservado y se descuenta el nuevo total,
// de modo que el descuento neto es exactamente incoming.
func Merge(current decimal.Decimal, existing *decimal.Decimal, incoming decimal.Decimal, precision int32) MergeResult {
	if existing == nil {
		return MergeResult{
			CurrentStock: current,
			NewStock:     Sub(current, incoming, FinalStockScale),
			NewQuantity:  incoming,
		}
	}
	restored := Add(current, *existing, precision)
	newQty := Add(*existing, incoming, precision)
	return MergeResult{
		CurrentStock: current,
		NewStock:     Sub(restored, newQty, FinalStockScale),
		NewQuantity:  newQty,
		Existed:      true,
	}
}
