// Package pdf genera el comprobante de venta en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Vendedor + email    │  COMPROBANTE + N° + Fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + email + teléfono       │  Estado          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  NOTAS + QR con el identificador de la venta                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var statusLabels = map[string]string{
	entity.SaleStatusCompleted: "Completada",
	entity.SaleStatusPending:   "Pendiente",
	entity.SaleStatusCancelled: "Cancelada",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ sales.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateSaleReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateSaleReceipt(_ context.Context, data sales.ReceiptData) ([]byte, error) {
	if data.Sale == nil {
		return nil, fmt.Errorf("pdf: venta nula")
	}
	seller := sellerName(data.Seller)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(seller, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Sale, data.Seller))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(data.Sale, data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(data.Sale.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data.Sale))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(data.Sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: vendedor (izq) y número + fecha (der).
func headerRow(sale *entity.Sale, seller *entity.Profile) core.Row {
	email := ""
	if seller != nil {
		email = seller.Email
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(sellerName(seller), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(email, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+shortID(sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+sale.SaleDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente y estado de la venta.
func customerRow(sale *entity.Sale, customer *entity.Customer) core.Row {
	name, email, phone := sale.CustomerName, "", ""
	if customer != nil {
		name, email, phone = customer.Name, customer.Email, customer.Phone
	}
	return row.New(14).Add(
		col.New(9).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(name, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s", nonEmpty(email, "-"), nonEmpty(phone, "-")),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(3).Add(
			text.New("ESTADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(statusLabels[sale.Status], sale.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 6,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de la venta.
func tableItemRows(items []entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(nonEmpty(it.ProductName, it.ProductID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(it.PriceAtSale),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New("$"+formatMoney(it.TotalItemAmount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(sale *entity.Sale) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(sale.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRows: notas de la venta y QR con el identificador completo.
func footerRows(sale *entity.Sale) []core.Row {
	notes := strings.TrimSpace(sale.Notes)
	return []core.Row{
		row.New(40).Add(
			col.New(8).Add(
				text.New("NOTAS", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(nonEmpty(notes, "Sin notas."), props.Text{
					Size: 8, Top: 6, Color: colorGray,
				}),
			),
			col.New(4).Add(code.NewQr("venta:"+sale.ID, props.Rect{
				Percent: 90,
				Center:  true,
			})),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sellerName(p *entity.Profile) string {
	if p == nil {
		return "Comprobante"
	}
	full := strings.TrimSpace(p.FirstName + " " + p.LastName)
	return nonEmpty(full, nonEmpty(p.Email, "Comprobante"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
