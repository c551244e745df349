// SessionClaims расширяет стандартные claims JWT, добавляя идентификатор
// учётной записи, почту и роль. Сессия полностью бессерверная: валидность
// определяется только подписью и сроком действия, состояния на сервере нет,
// поэтому отзыв токена до естественного истечения невозможен.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/sanitation-identity/internal/models"
)

// ErrTokenExpired возвращается (в обёртке), когда токен корректно подписан, но истёк.
// Истечение — не инцидент безопасности, в отличие от провала проверки подписи.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid возвращается (в обёртке), когда подпись или структура токена не прошли проверку.
var ErrTokenInvalid = errors.New("token invalid")

// SessionClaims описывает данные сессии, хранящиеся в токене.
type SessionClaims struct {
	AccountUID           string      `json:"uid"`   // Идентификатор учётной записи
	Email                string      `json:"email"` // Электронная почта
	Role                 models.Role `json:"role"`  // Роль учётной записи
	jwt.RegisteredClaims             // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// IssueToken выпускает токен сессии с заданными uid, email и role,
// подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (m *MakerImpl) IssueToken(accountUID, email string, role models.Role) (string, error) {
	claims := SessionClaims{
		AccountUID: accountUID,
		Email:      email,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ParseToken разбирает токен сессии, проверяет подпись и срок действия,
// возвращает SessionClaims, если токен корректен.
//
// Внешне оба исхода означают «не аутентифицирован», но истёкший токен
// отличим через errors.Is(err, ErrTokenExpired) — для логирования
// их нужно разделять.
func (m *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "token.ParseToken"
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTokenInvalid, err)
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenInvalid)
	}
	return claims, nil
}
