// Package repository реализует хранилище учётных записей на основе PostgreSQL.
// Предоставляет методы создания и чтения учётных записей, условные атомарные
// обновления одноразовых кодов и управление флагом блокировки.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, на которые опираются сервисы и обработчики.
var (
	// ErrAccountNotFound — учётная запись не найдена.
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateEmail — почта уже зарегистрирована.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с учётными записями.
//
// Соединение создаётся один раз на старте процесса и закрывается при
// остановке; глобального состояния пакет не держит.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'accounts'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table accounts missing or query error: %w", err)
	}
	return nil
}
