// Package secretcode реализует выпуск и проверку одноразовых кодов,
// отправляемых на почту при подтверждении учётной записи и сбросе пароля.
//
// Код — шестизначная числовая строка из криптографически стойкого источника.
// Сравнение кодов выполняется за константное время, чтобы исключить
// утечку по времени ответа.
package secretcode

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

// Length — длина кода в цифрах.
const Length = 6

// Issued — выпущенный код вместе со сроком действия.
type Issued struct {
	Code      string
	ExpiresAt time.Time
}

// Outcome — результат проверки кода.
type Outcome int

const (
	// Valid — код совпал и не истёк.
	Valid Outcome = iota
	// Expired — срок действия кода прошёл, значение кода не проверялось.
	Expired
	// Mismatch — код не совпал либо отсутствует.
	Mismatch
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case Expired:
		return "expired"
	case Mismatch:
		return "mismatch"
	}
	return "unknown"
}

// Issue выпускает новый одноразовый код со сроком действия ttl.
//
// Повторный выпуск для той же учётной записи перезаписывает предыдущий код:
// одновременно действует не более одного кода на назначение.
func Issue(ttl time.Duration) (Issued, error) {
	const op = "secretcode.Issue"
	// 100000..999999, без ведущих нулей — как в исходных письмах.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return Issued{}, fmt.Errorf("%s: %w", op, err)
	}
	return Issued{
		Code:      fmt.Sprintf("%06d", n.Int64()+100000),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// Verify проверяет предъявленный код против сохранённого.
//
// Истечение срока проверяется до сравнения значений: по истёкшему коду
// нельзя узнать, совпадал ли он. Сравнение — constant-time.
// На исходе Valid вызывающая сторона обязана атомарно очистить сохранённый
// код вместе с авторизуемым переходом состояния (однократность использования).
func Verify(stored *string, supplied string, expiresAt *time.Time, now time.Time) Outcome {
	if stored == nil || expiresAt == nil {
		return Mismatch
	}
	if now.After(*expiresAt) {
		return Expired
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(supplied)) != 1 {
		return Mismatch
	}
	return Valid
}
