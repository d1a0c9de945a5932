// Package pdf implementa la generación del Certificado de Conformidad de la
// hoja de trabajo (declaración del fabricante para dispositivos a medida).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Laboratorio  │  N° Hoja + Fecha de aprobación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DISPOSITIVO: paciente (ref. anónima) / tono / notas         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Material | Lote | Cant | Llegada | Caducidad         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DECLARACIÓN + QR de verificación                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

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

	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/application/worksheet"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/pkg/logger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 13, Green: 84, Blue: 93}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

var _ worksheet.ConformityDocumentWriter = (*ConformityWriter)(nil)

// ConformityWriter genera el certificado con Maroto v2 y lo persiste en el
// directorio de documentos configurado.
type ConformityWriter struct {
	labName   string
	outputDir string
	log       *logger.Logger
}

// NewConformityWriter construye el escritor. Crea el directorio si no existe.
func NewConformityWriter(labName, outputDir string, log *logger.Logger) (*ConformityWriter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("pdf: crear directorio de documentos: %w", err)
	}
	return &ConformityWriter{labName: labName, outputDir: outputDir, log: log}, nil
}

// Write genera el certificado y lo escribe como <numero>-r<revision>.pdf.
func (w *ConformityWriter) Write(_ context.Context, ws *entity.Worksheet, rows []dto.TraceabilityRow) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Certificado de Conformidad "+ws.Number, true).
		WithAuthor(w.labName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(w.headerRow(ws))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(deviceRow(ws))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range materialRows(rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range declarationRows(ws) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}

	name := fmt.Sprintf("%s-r%d.pdf", ws.Number, ws.Revision)
	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, doc.GetBytes(), 0o644); err != nil {
		return fmt.Errorf("pdf: escribir %s: %w", path, err)
	}

	w.log.Info().Str("worksheet", ws.Number).Str("path", path).
		Msg("certificado de conformidad generado")
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: laboratorio (izq) y N° hoja + fecha de aprobación (der).
func (w *ConformityWriter) headerRow(ws *entity.Worksheet) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(w.labName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Laboratorio de prótesis dental", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CERTIFICADO DE CONFORMIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(ws.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+time.Now().Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// deviceRow: identificación del dispositivo fabricado.
func deviceRow(ws *entity.Worksheet) core.Row {
	manufacture := "—"
	if ws.ManufactureAt != nil {
		manufacture = ws.ManufactureAt.Format("02/01/2006")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DISPOSITIVO A MEDIDA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Paciente (ref.): %s   |   Revisión: %d   |   Inicio de fabricación: %s",
				ws.PatientRef, ws.Revision, manufacture,
			), props.Text{Size: 9, Top: 6}),
			text.New(fmt.Sprintf("Tono: %s   |   Notas: %s",
				nonEmpty(ws.Shade, "—"), nonEmpty(ws.Notes, "—"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de materiales consumidos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Material", 4, align.Left),
		h("Lote", 3, align.Left),
		h("Cant.", 2, align.Right),
		h("Llegada", 1, align.Center),
		h("Caducidad", 2, align.Center),
	)
}

// materialRows: una fila por material con su lote consumido. Los lotes
// retirados o caducados después del consumo se resaltan en rojo.
func materialRows(rows []dto.TraceabilityRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		lot := r.LotNumber
		lotColor := colorGray
		if r.LotRecalled {
			lot += " (RETIRADO)"
			lotColor = colorAlert
		} else if r.LotExpired {
			lot += " (CADUCADO)"
			lotColor = colorAlert
		}
		arrival, expiry := "—", "—"
		if r.ArrivalDate != nil {
			arrival = r.ArrivalDate.Format("02/01/06")
		}
		if r.ExpiryDate != nil {
			expiry = r.ExpiryDate.Format("02/01/06")
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				fmt.Sprintf("%s — %s", r.MaterialCode, r.MaterialName),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(lot, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1, Color: lotColor,
			})),
			col.New(2).Add(text.New(
				r.Quantity.String()+" "+r.Unit,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(arrival, props.Text{
				Size: 7, Align: align.Center, Top: 1,
			})),
			col.New(2).Add(text.New(expiry, props.Text{
				Size: 7, Align: align.Center, Top: 1,
			})),
		))
	}
	return result
}

// declarationRows: declaración de conformidad + QR de verificación.
func declarationRows(ws *entity.Worksheet) []core.Row {
	qrData := fmt.Sprintf("worksheet:%s;number:%s;rev:%d", ws.ID, ws.Number, ws.Revision)
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DECLARACIÓN DEL FABRICANTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(40).Add(
			col.New(4).Add(code.NewQr(qrData, props.Rect{
				Percent: 90,
				Center:  true,
			})),
			col.New(8).Add(
				text.New(
					"El laboratorio declara que el dispositivo a medida identificado en este "+
						"documento fue fabricado conforme a la prescripción recibida y que los "+
						"materiales consumidos corresponden a los lotes listados, con trazabilidad "+
						"completa hasta su llegada.",
					props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray},
				),
				text.New("CERTIFICADO DE CONFORMIDAD\nDISPOSITIVO DENTAL A MEDIDA", props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 24,
					Left: 3, Color: colorPrimary,
				}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
