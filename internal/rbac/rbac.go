// Package rbac содержит единую таблицу возможностей: операция → допустимые роли.
//
// Все проверки ролей идут только через эту таблицу; разрозненных ad hoc
// сравнений строк в обработчиках быть не должно.
package rbac

import "github.com/magabrotheeeer/sanitation-identity/internal/models"

// Capability — именованная привилегированная операция.
type Capability string

const (
	// CapManageAccounts — блокировка и разблокировка учётных записей.
	CapManageAccounts Capability = "accounts:manage"
	// CapViewAccounts — чтение списка и карточек учётных записей.
	CapViewAccounts Capability = "accounts:view"
	// CapInspect — действия инспекций (используется внешними маршрутами-коллабораторами).
	CapInspect Capability = "inspections:act"
)

// table — единственный источник соответствия возможностей ролям.
var table = map[Capability][]models.Role{
	CapManageAccounts: {models.RoleAdmin},
	CapViewAccounts:   {models.RoleAdmin, models.RoleOfficer},
	CapInspect:        {models.RoleAdmin, models.RoleOfficer},
}

// Allowed сообщает, разрешена ли возможность cap роли role.
// Неизвестная возможность не разрешена никому.
func Allowed(role models.Role, cap Capability) bool {
	for _, r := range table[cap] {
		if r == role {
			return true
		}
	}
	return false
}
