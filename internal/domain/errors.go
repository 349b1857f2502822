package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrCredentialsMissing credenciales del API remoto ausentes: aborta la
	// sincronización antes de cualquier llamada de red.
	ErrCredentialsMissing = errors.New("credenciales del API remoto no configuradas")

	// ErrSessionExpired la sesión remota venció; el caller debe construir una nueva.
	ErrSessionExpired = errors.New("sesión remota expirada")

	// ErrSyncInProgress ya hay una sincronización activa; las sesiones de sync
	// no se solapan (el orquestador las serializa rechazando la segunda).
	ErrSyncInProgress = errors.New("ya hay una sincronización en curso")
)
