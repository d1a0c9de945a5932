package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los casos de uso los envuelven
// con fmt.Errorf("%w: ...") para añadir contexto (número de hoja, código de material,
// transición intentada) y los handlers los mapean a HTTP con errors.Is.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrInvalidReference = errors.New("referencia inválida")
	ErrConflict         = errors.New("conflicto con el estado actual")

	// Motor de ciclo de vida
	ErrInvalidState             = errors.New("estado desconocido o corrupto")
	ErrIllegalTransition        = errors.New("transición no permitida")
	ErrUnauthorized             = errors.New("rol no autorizado para la transición")
	ErrNotEditable              = errors.New("la hoja de trabajo no es editable")
	ErrDuplicateActiveWorksheet = errors.New("la orden ya tiene una hoja de trabajo activa")

	// Inventario de lotes
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrLotNotRestorable  = errors.New("el lote no admite restauración")

	// Auth
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrForbidden          = errors.New("acceso denegado")
)
