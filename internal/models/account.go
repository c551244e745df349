// Package models содержит доменную модель учётной записи системы,
// включающую данные для входа, роль, состояние верификации и состояние
// блокировки. Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Role — закрытое перечисление ролей учётных записей.
type Role string

const (
	// RoleBusiness — владелец бизнеса, подающий заявки на санитарные разрешения.
	RoleBusiness Role = "business"
	// RoleOfficer — инспектор санитарного надзора.
	RoleOfficer Role = "officer"
	// RoleAdmin — администратор системы.
	RoleAdmin Role = "admin"
)

// Valid сообщает, входит ли значение в закрытое перечисление ролей.
func (r Role) Valid() bool {
	switch r {
	case RoleBusiness, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// Account представляет зарегистрированную учётную запись системы.
type Account struct {
	UID                string     // Уникальный идентификатор учётной записи
	Email              string     // Электронная почта (хранится в нижнем регистре, уникальная)
	PasswordHash       string     // bcrypt-хэш пароля, никогда не отдаётся наружу
	FullName           *string    // ФИО, обязательно только для инспекторов
	Role               Role       // Роль учётной записи
	AssignedArea       *string    // Закреплённый район (для инспекторов и администраторов)
	BusinessAccount    *string    // Ссылка на владеющую бизнес-учётку (невладеющая обратная ссылка)
	Verified           bool       // Подтверждена ли электронная почта
	VerificationCode   *string    // Одноразовый код подтверждения почты
	VerificationExpiry *time.Time // Срок действия кода подтверждения
	ResetCode          *string    // Одноразовый код сброса пароля
	ResetExpiry        *time.Time // Срок действия кода сброса
	AccountDisabled    bool       // Заблокирована ли учётная запись администратором
	WhoDisabled        *string    // Администратор, выполнивший блокировку
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Status возвращает строковый статус учётной записи для внешних ответов.
func (a *Account) Status() string {
	if a.AccountDisabled {
		return "disabled"
	}
	return "active"
}

// SafeAccount — очищенная проекция учётной записи для ответов API.
// Не содержит хэша пароля и секретных кодов.
type SafeAccount struct {
	UID             string  `json:"id"`
	Email           string  `json:"email"`
	Role            Role    `json:"role"`
	FullName        *string `json:"full_name,omitempty"`
	AssignedArea    *string `json:"assigned_area,omitempty"`
	BusinessAccount *string `json:"business_account,omitempty"`
	Verified        bool    `json:"verified"`
	Status          string  `json:"status"`
}

// Sanitize возвращает безопасную проекцию учётной записи.
func (a *Account) Sanitize() SafeAccount {
	return SafeAccount{
		UID:             a.UID,
		Email:           a.Email,
		Role:            a.Role,
		FullName:        a.FullName,
		AssignedArea:    a.AssignedArea,
		BusinessAccount: a.BusinessAccount,
		Verified:        a.Verified,
		Status:          a.Status(),
	}
}

// EmailJob — задание на отправку письма с одноразовым кодом,
// публикуемое в очередь уведомлений.
type EmailJob struct {
	Email   string `json:"email"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"` // verification или reset
}
