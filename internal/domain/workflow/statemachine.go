// Package workflow define la máquina de estados del ciclo de vida de la hoja de
// trabajo: la tabla estática de transiciones permitidas, los roles autorizados a
// entrar en cada estado destino y los efectos secundarios declarados por entrada.
//
// La tabla es un servicio de dominio puro: no toca la base de datos. El motor
// (internal/application/worksheet) valida contra ella dentro de la misma
// transacción que escribe el nuevo estado, releyendo el estado actual con la fila
// bloqueada para cerrar la carrera lectura/escritura.
package workflow

import (
	"fmt"

	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// Effect identifica un efecto secundario a ejecutar al entrar en un estado.
// Es un enum cerrado resuelto en compilación: un efecto inexistente no puede
// llegar a producción como sí podría con despacho por nombre.
type Effect int

const (
	// EffectConsumeMaterials consume FIFO cada plan de material de la hoja.
	// Solo se declara al entrar a IN_PRODUCTION; en retrabajo (REJECTED ->
	// IN_PRODUCTION) no quedan planes sin lote y el efecto es no-op.
	EffectConsumeMaterials Effect = iota
	// EffectStampManufactureDate sella la fecha de inicio de fabricación.
	EffectStampManufactureDate
	// EffectStampCompletionDate sella la fecha de finalización.
	EffectStampCompletionDate
	// EffectRequestConformityDocument deja el hecho auditable DOCUMENT_REQUESTED;
	// el render del PDF lo hace un colaborador externo tras el commit.
	EffectRequestConformityDocument
	// EffectResetOrder devuelve la orden padre a su estado previo a la asignación
	// (segunda entrada de auditoría).
	EffectResetOrder
)

// String para logs y auditoría.
func (e Effect) String() string {
	switch e {
	case EffectConsumeMaterials:
		return "consumeMaterials"
	case EffectStampManufactureDate:
		return "stampManufactureDate"
	case EffectStampCompletionDate:
		return "stampCompletionDate"
	case EffectRequestConformityDocument:
		return "requestConformityDocument"
	case EffectResetOrder:
		return "resetOrder"
	}
	return fmt.Sprintf("Effect(%d)", int(e))
}

// Transition es una arista del grafo: estado destino, roles que pueden entrar a
// él y efectos a ejecutar (en orden) dentro de la transacción de la transición.
type Transition struct {
	Target  string
	Roles   []string
	Effects []Effect
}

// transitions es la tabla estática de aristas salientes por estado actual.
// Los estados terminales (COMPLETED, CANCELLED, VOIDED) no aparecen como clave
// con aristas: una vez alcanzados la entidad solo admite lecturas y auditoría.
var transitions = map[string][]Transition{
	entity.WorksheetStatusEditable: {
		{
			Target:  entity.WorksheetStatusInProduction,
			Roles:   []string{entity.RoleTechnician, entity.RoleAdmin},
			Effects: []Effect{EffectConsumeMaterials, EffectStampManufactureDate},
		},
		cancelEdge, voidEdge,
	},
	entity.WorksheetStatusInProduction: {
		{
			Target: entity.WorksheetStatusPendingReview,
			Roles:  []string{entity.RoleTechnician, entity.RoleAdmin},
		},
		cancelEdge, voidEdge,
	},
	entity.WorksheetStatusPendingReview: {
		{
			Target:  entity.WorksheetStatusApproved,
			Roles:   []string{entity.RoleQuality, entity.RoleAdmin},
			Effects: []Effect{EffectRequestConformityDocument},
		},
		{
			Target: entity.WorksheetStatusRejected,
			Roles:  []string{entity.RoleQuality, entity.RoleAdmin},
		},
		cancelEdge, voidEdge,
	},
	entity.WorksheetStatusApproved: {
		{
			Target:  entity.WorksheetStatusCompleted,
			Roles:   []string{entity.RoleTechnician, entity.RoleAdmin},
			Effects: []Effect{EffectStampCompletionDate},
		},
		cancelEdge, voidEdge,
	},
	entity.WorksheetStatusRejected: {
		{
			// Retrabajo: vuelve a producción. Los efectos declarados son los
			// mismos de la entrada normal; consumeMaterials no encuentra planes
			// pendientes y no toca el inventario.
			Target:  entity.WorksheetStatusInProduction,
			Roles:   []string{entity.RoleTechnician, entity.RoleAdmin},
			Effects: []Effect{EffectConsumeMaterials, EffectStampManufactureDate},
		},
		cancelEdge, voidEdge,
	},
	entity.WorksheetStatusCompleted: {},
	entity.WorksheetStatusCancelled: {},
	entity.WorksheetStatusVoided:    {},
}

// Aristas comunes desde cualquier estado no terminal.
var (
	cancelEdge = Transition{
		Target:  entity.WorksheetStatusCancelled,
		Roles:   []string{entity.RoleQuality, entity.RoleAdmin},
		Effects: []Effect{EffectResetOrder},
	}
	voidEdge = Transition{
		Target:  entity.WorksheetStatusVoided,
		Roles:   []string{entity.RoleAdmin},
		Effects: []Effect{EffectResetOrder},
	}
)

// Known indica si el estado pertenece al conjunto definido.
func Known(status string) bool {
	_, ok := transitions[status]
	return ok
}

// IsTerminal indica si el estado no tiene aristas salientes.
func IsTerminal(status string) bool {
	edges, ok := transitions[status]
	return ok && len(edges) == 0
}

// Find devuelve la arista current -> target, o nil si no existe en la tabla.
func Find(current, target string) *Transition {
	for i := range transitions[current] {
		if transitions[current][i].Target == target {
			return &transitions[current][i]
		}
	}
	return nil
}

// ValidateTransition valida en orden: estado actual conocido, arista permitida,
// rol autorizado para el destino. Devuelve la arista para que el despachador
// ejecute sus efectos declarados.
func ValidateTransition(current, target, role string) (*Transition, error) {
	if !Known(current) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidState, current)
	}
	edge := Find(current, target)
	if edge == nil {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, current, target)
	}
	for _, r := range edge.Roles {
		if r == role {
			return edge, nil
		}
	}
	return nil, fmt.Errorf("%w: rol %q no puede entrar a %s", domain.ErrUnauthorized, role, target)
}

// Statuses devuelve el conjunto de estados definidos (para validaciones y tests).
func Statuses() []string {
	out := make([]string, 0, len(transitions))
	for s := range transitions {
		out = append(out, s)
	}
	return out
}
