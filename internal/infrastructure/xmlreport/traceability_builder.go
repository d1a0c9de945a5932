// Package xmlreport construye el reporte XML de trazabilidad de una hoja de
// trabajo: el formato de intercambio que el laboratorio entrega al auditor o al
// cliente junto al certificado de conformidad.
package xmlreport

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
)

// BuildTraceabilityXML serializa la vista de trazabilidad como XML indentado.
//
// Estructura:
//
//	<TraceabilityReport worksheet="HT-000123" status="APPROVED" generated="...">
//	  <Material code="CR-CO-01" name="..." unit="g">
//	    <Quantity>12.5</Quantity>
//	    <Lot number="L-2026-001" status="AVAILABLE" arrival="2026-01-10" expiry="2027-01-10"/>
//	  </Material>
//	</TraceabilityReport>
//
// Un material planificado pero sin consumir lleva <Pending/> en vez de <Lot>.
func BuildTraceabilityXML(view *dto.TraceabilityResponse) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("TraceabilityReport")
	root.CreateAttr("worksheet", view.WorksheetNumber)
	root.CreateAttr("status", view.Status)
	root.CreateAttr("generated", time.Now().UTC().Format(time.RFC3339))

	for _, r := range view.Rows {
		mat := root.CreateElement("Material")
		mat.CreateAttr("code", r.MaterialCode)
		mat.CreateAttr("name", r.MaterialName)
		mat.CreateAttr("unit", r.Unit)
		mat.CreateElement("Quantity").SetText(r.Quantity.String())

		if r.NotConsumed {
			mat.CreateElement("Pending")
			continue
		}

		lot := mat.CreateElement("Lot")
		lot.CreateAttr("number", r.LotNumber)
		lot.CreateAttr("status", r.LotStatus)
		if r.ArrivalDate != nil {
			lot.CreateAttr("arrival", r.ArrivalDate.Format("2006-01-02"))
		}
		if r.ExpiryDate != nil {
			lot.CreateAttr("expiry", r.ExpiryDate.Format("2006-01-02"))
		}
		lot.CreateAttr("recalled", strconv.FormatBool(r.LotRecalled))
		lot.CreateAttr("expired", strconv.FormatBool(r.LotExpired))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlreport: serializar reporte: %w", err)
	}
	return out, nil
}
