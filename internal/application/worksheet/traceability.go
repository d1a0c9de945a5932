package worksheet

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// GetTraceability arma la vista de trazabilidad de materiales de la hoja: por
// cada registro (plan o consumo) el material, el lote concreto si ya se consumió
// y las banderas de cumplimiento que la capa llamadora muestra o exporta.
func (uc *UseCase) GetTraceability(ctx context.Context, worksheetID string) (*dto.TraceabilityResponse, error) {
	ws, err := uc.worksheetRepo.GetByID(ctx, worksheetID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: hoja %s", domain.ErrNotFound, worksheetID)
	}

	records, err := uc.plansRepo.ListByWorksheet(ctx, worksheetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows := make([]dto.TraceabilityRow, 0, len(records))
	for _, rec := range records {
		row := dto.TraceabilityRow{
			MaterialCode: rec.MaterialID,
			Quantity:     rec.Quantity,
			NotConsumed:  !rec.Consumed(),
		}
		if material, err := uc.materialRepo.GetByID(ctx, rec.MaterialID); err == nil && material != nil {
			row.MaterialCode = material.Code
			row.MaterialName = material.Name
			row.Unit = material.Unit
		}
		if rec.LotID != nil {
			lot, err := uc.lotRepo.GetByID(ctx, *rec.LotID)
			if err != nil {
				return nil, err
			}
			if lot != nil {
				arrival := lot.ArrivalDate
				row.LotNumber = lot.LotNumber
				row.ArrivalDate = &arrival
				row.ExpiryDate = lot.ExpiryDate
				row.LotStatus = lot.Status
				row.LotRecalled = lot.Status == entity.LotStatusRecalled
				row.LotExpired = lot.Status == entity.LotStatusExpired ||
					(lot.ExpiryDate != nil && lot.ExpiryDate.Before(now))
			}
		}
		rows = append(rows, row)
	}

	return &dto.TraceabilityResponse{
		WorksheetID:     ws.ID,
		WorksheetNumber: ws.Number,
		Status:          ws.Status,
		Rows:            rows,
	}, nil
}
