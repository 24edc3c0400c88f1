package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// NegativeStockItem entrada con stock negativo.
type NegativeStockItem struct {
	StockID     string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
}

// NegativeStockReport entradas negativas de un usuario, de mayor a menor déficit.
type NegativeStockReport struct {
	UserID  string
	Items   []NegativeStockItem
	Deficit decimal.Decimal // suma de los faltantes (valor positivo)
}

// AlertUseCase arma el reporte de stock negativo que quedó tras las ventas.
type AlertUseCase struct {
	stockRepo repository.StockRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(stockRepo repository.StockRepository) *AlertUseCase {
	return &AlertUseCase{stockRepo: stockRepo}
}

// NegativeStockReport agrupa por usuario las entradas con cantidad menor a cero.
// Los usuarios con más déficit van primero.
func (uc *AlertUseCase) NegativeStockReport(ctx context.Context) ([]NegativeStockReport, error) {
	entries, err := uc.stockRepo.ListNegative(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []NegativeStockReport{}, nil
	}

	byUser := make(map[string]*NegativeStockReport)
	var order []string
	for _, e := range entries {
		r, ok := byUser[e.UserID]
		if !ok {
			r = &NegativeStockReport{UserID: e.UserID, Deficit: decimal.Zero}
			byUser[e.UserID] = r
			order = append(order, e.UserID)
		}
		r.Items = append(r.Items, NegativeStockItem{
			StockID:     e.ID,
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			Quantity:    e.Quantity,
		})
		r.Deficit = r.Deficit.Add(e.Quantity.Neg())
	}

	reports := make([]NegativeStockReport, 0, len(order))
	for _, id := range order {
		r := byUser[id]
		sort.SliceStable(r.Items, func(i, j int) bool { return r.Items[i].Quantity.LessThan(r.Items[j].Quantity) })
		reports = append(reports, *r)
	}
	// Tiebreak: user_id para salida estable.
	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].Deficit.Equal(reports[j].Deficit) {
			return reports[i].Deficit.GreaterThan(reports[j].Deficit)
		}
		return reports[i].UserID < reports[j].UserID
	})
	return reports, nil
}
