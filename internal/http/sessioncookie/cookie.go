// Package sessioncookie устанавливает и очищает сессионную куку.
//
// Кука непрозрачна для клиента: значение — подписанный токен сессии.
// Выход из системы реализован перезаписью куки уже истёкшим значением;
// отзыв сессии раньше естественного истечения в этой схеме невозможен.
package sessioncookie

import (
	"net/http"
	"time"
)

// Name — имя сессионной куки.
const Name = "session"

// Set выставляет сессионную куку с токеном на срок ttl.
// Secure включается только в продуктивном окружении: локальная разработка
// идёт без TLS.
func Set(w http.ResponseWriter, tokenValue string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    tokenValue,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear перезаписывает сессионную куку пустым истёкшим значением.
// Операция идемпотентна и не требует действующей сессии.
func Clear(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
