// Package woo implementa el adaptador del API REST de WooCommerce (v3):
// credenciales, cliente HTTP paginado y las estrategias de descarga que
// consume el motor de sincronización.
package woo

import (
	stdsync "sync"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain"
)

// Session guarda las credenciales del API remoto. Las credenciales pueden
// venir del entorno (sin vencimiento) o configurarse en caliente por un
// admin, caso en el que vencen tras el TTL para no retener llaves ajenas
// indefinidamente.
type Session struct {
	mu             stdsync.RWMutex
	baseURL        string
	consumerKey    string
	consumerSecret string
	expiresAt      time.Time // cero = sin vencimiento (credenciales de entorno)
	ttl            time.Duration
}

// NewSession crea la sesión con credenciales del entorno. Cualquier campo
// vacío deja la sesión sin configurar; Ready lo reporta.
func NewSession(baseURL, key, secret string, ttl time.Duration) *Session {
	return &Session{
		baseURL:        baseURL,
		consumerKey:    key,
		consumerSecret: secret,
		ttl:            ttl,
	}
}

// Configure fija credenciales en caliente con vencimiento por TTL.
func (s *Session) Configure(baseURL, key, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = baseURL
	s.consumerKey = key
	s.consumerSecret = secret
	s.expiresAt = time.Now().Add(s.ttl)
}

// Ready verifica que haya credenciales utilizables.
func (s *Session) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.baseURL == "" || s.consumerKey == "" || s.consumerSecret == "" {
		return domain.ErrCredentialsMissing
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return domain.ErrSessionExpired
	}
	return nil
}

// credentials devuelve una copia consistente de las credenciales actuales.
func (s *Session) credentials() (baseURL, key, secret string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL, s.consumerKey, s.consumerSecret
}
