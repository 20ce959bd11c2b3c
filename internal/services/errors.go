package services

import (
	"errors"
	"fmt"

	"github.com/guiaturistica/reportes-api/internal/models"
)

// Common service errors
var (
	ErrNotFound            = errors.New("registro no encontrado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInvalidState        = errors.New("transición de estado inválida")
	ErrInvalidReportType   = errors.New("tipo de reporte inválido")
	ErrDataUnavailable     = errors.New("fuente de datos no disponible")
	ErrRendererUnavailable = errors.New("renderizador no disponible")
	ErrShuttingDown        = errors.New("servicio detenido")
)

// DataUnavailableError reports which data source call failed
type DataUnavailableError struct {
	Op  string
	Err error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDataUnavailable, e.Op, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// RendererUnavailableError reports which export target cannot render
type RendererUnavailableError struct {
	Target models.ExportTarget
	Err    error
}

func (e *RendererUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrRendererUnavailable, e.Target)
	}
	return fmt.Sprintf("%s: %s: %v", ErrRendererUnavailable, e.Target, e.Err)
}

func (e *RendererUnavailableError) Unwrap() error { return e.Err }

func (e *RendererUnavailableError) Is(target error) bool {
	return target == ErrRendererUnavailable
}
