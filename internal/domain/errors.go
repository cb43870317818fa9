package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrDuplicateFile  = errors.New("el archivo ya fue cargado previamente")
	ErrDuplicateDate  = errors.New("ya existe un registro para esa fecha de stock")
	ErrLoadInProgress = errors.New("ya existe una carga de stock en proceso")
	ErrFutureDate     = errors.New("la fecha del stock no puede ser futura")
	ErrEmptyFile      = errors.New("el archivo no contiene datos")
	ErrUserNotFound   = errors.New("usuario no encontrado")
)
