// Package token реализует генерацию и проверку сессионных токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для выпуска и валидации токенов сессии.
// MakerImpl — конкретная реализация с использованием секретного ключа и срока жизни.
package token

import (
	"time"

	"github.com/magabrotheeeer/sanitation-identity/internal/models"
)

// Maker описывает интерфейс для выпуска и проверки сессионных токенов.
//
// Методы позволяют выпустить токен с идентификатором учётной записи, почтой и ролью,
// а также разобрать токен и извлечь из него claims.
type Maker interface {
	// IssueToken выпускает подписанный токен сессии для учётной записи.
	IssueToken(accountUID, email string, role models.Role) (string, error)
	// ParseToken возвращает *SessionClaims, если токен целостен и не истёк.
	// Истёкший токен отличим от подделанного: ошибка оборачивает ErrTokenExpired.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
//
// Ключ — конфигурация уровня процесса: загружается один раз на старте,
// его ротация делает недействительными все выданные сессии.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// TTL возвращает срок жизни выпускаемых токенов.
// Используется для выставления MaxAge сессионной куки.
func (m *MakerImpl) TTL() time.Duration {
	return m.tokenTTL
}
