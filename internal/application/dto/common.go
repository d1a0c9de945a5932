package dto

// ErrorResponse respuesta de error estándar de la API. Code es un código máquina
// estable; Message lleva el contexto accionable (número de hoja, material, arista).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
