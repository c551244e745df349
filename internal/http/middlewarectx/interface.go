// Package middlewarectx содержит HTTP middleware шлюза авторизации:
// проверку сессионной куки и проверку возможностей по таблице ролей.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/sanitation-identity/internal/lib/token"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// AccountUID — ключ для идентификатора учётной записи в контексте
	AccountUID Key = "account_uid"
	// Email — ключ для почты в контексте
	Email Key = "email"
	// Role — ключ для роли в контексте
	Role Key = "role"
)

// SessionService описывает интерфейс сервиса для проверки сессии
// и чтения живого состояния учётной записи.
type SessionService interface {
	ValidateSession(ctx context.Context, tokenStr string) (*token.SessionClaims, error)
	IsAccountDisabled(ctx context.Context, uid string) (bool, error)
}
