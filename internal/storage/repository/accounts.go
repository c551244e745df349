package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/sanitation-identity/internal/models"
)

// Строки выбираются и сравниваются по lower(email): то же правило нормализации,
// которым закреплена уникальность в accounts_email_lower_idx.
const accountColumns = `uid, email, password_hash, full_name, role, assigned_area,
	      business_account, verified, verification_code, verification_expiry,
	      reset_code, reset_expiry, account_disabled, who_disabled, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	a := &models.Account{}
	var fullName, assignedArea, businessAccount, verificationCode, resetCode, whoDisabled sql.NullString
	var verificationExpiry, resetExpiry sql.NullTime
	if err := row.Scan(&a.UID, &a.Email, &a.PasswordHash, &fullName, &a.Role, &assignedArea,
		&businessAccount, &a.Verified, &verificationCode, &verificationExpiry,
		&resetCode, &resetExpiry, &a.AccountDisabled, &whoDisabled, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if fullName.Valid {
		a.FullName = &fullName.String
	}
	if assignedArea.Valid {
		a.AssignedArea = &assignedArea.String
	}
	if businessAccount.Valid {
		a.BusinessAccount = &businessAccount.String
	}
	if verificationCode.Valid {
		a.VerificationCode = &verificationCode.String
	}
	if verificationExpiry.Valid {
		t := verificationExpiry.Time
		a.VerificationExpiry = &t
	}
	if resetCode.Valid {
		a.ResetCode = &resetCode.String
	}
	if resetExpiry.Valid {
		t := resetExpiry.Time
		a.ResetExpiry = &t
	}
	if whoDisabled.Valid {
		a.WhoDisabled = &whoDisabled.String
	}
	return a, nil
}

// RegisterAccount сохраняет новую учётную запись и возвращает её UID.
// Для бизнес-учёток business_account проставляется ссылкой на саму запись.
func (s *Storage) RegisterAccount(ctx context.Context, account models.Account) (string, error) {
	const op = "storage.RegisterAccount"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	// Вставка и self-ссылка бизнес-учётки фиксируются одной транзакцией:
	// строка без ссылки ошибку не переживает.
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	query := `INSERT INTO accounts (email, password_hash, full_name, role, assigned_area,
			      verified, verification_code, verification_expiry)
			  VALUES (lower($1), $2, $3, $4, $5, $6, $7, $8)
			  RETURNING uid;`
	if err := tx.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.FullName, account.Role, account.AssignedArea,
		account.Verified, account.VerificationCode, account.VerificationExpiry).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if account.Role == models.RoleBusiness {
		linkQuery := `UPDATE accounts SET business_account = uid, updated_at = now() WHERE uid = $1`
		if _, err := tx.ExecContext(ctx, linkQuery, newUID); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetAccountByEmail возвращает учётную запись по почте.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE lower(email) = lower($1)`
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// GetAccountByUID возвращает учётную запись по её UID.
func (s *Storage) GetAccountByUID(ctx context.Context, uid string) (*models.Account, error) {
	const op = "storage.GetAccountByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE uid = $1`
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListAccounts возвращает учётные записи, при необходимости фильтруя по роли.
func (s *Storage) ListAccounts(ctx context.Context, role string) ([]*models.Account, error) {
	const op = "storage.ListAccounts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts`
	args := []any{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY created_at`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetVerificationCode перезаписывает код подтверждения почты и срок его действия.
// Предыдущий код при этом перестаёт действовать: на учётку — не более одного кода.
func (s *Storage) SetVerificationCode(ctx context.Context, email, code string, expiry time.Time) error {
	const op = "storage.SetVerificationCode"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET verification_code = $1, verification_expiry = $2, updated_at = now()
			  WHERE lower(email) = lower($3) AND NOT verified`
	res, err := s.DB.ExecContext(ctx, query, code, expiry, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return nil
}

// ConsumeVerificationCode атомарно помечает почту подтверждённой и очищает код.
// Обновление условное: строка меняется, только если сохранённый код всё ещё
// равен предъявленному. false означает, что код уже был использован параллельным
// запросом либо перевыпущен.
func (s *Storage) ConsumeVerificationCode(ctx context.Context, email, code string) (bool, error) {
	const op = "storage.ConsumeVerificationCode"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET verified = TRUE, verification_code = NULL, verification_expiry = NULL, updated_at = now()
			  WHERE lower(email) = lower($1) AND verification_code = $2 AND NOT verified`
	res, err := s.DB.ExecContext(ctx, query, email, code)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

// SetResetCode перезаписывает код сброса пароля и срок его действия.
func (s *Storage) SetResetCode(ctx context.Context, email, code string, expiry time.Time) error {
	const op = "storage.SetResetCode"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET reset_code = $1, reset_expiry = $2, updated_at = now()
			  WHERE lower(email) = lower($3)`
	res, err := s.DB.ExecContext(ctx, query, code, expiry, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return nil
}

// ConsumeResetCode атомарно записывает новый хэш пароля и очищает код сброса.
// Смена пароля и очистка кода — одно условное обновление: из гонки двух запросов
// с одним кодом успешным выйдет ровно один.
func (s *Storage) ConsumeResetCode(ctx context.Context, email, code, newPasswordHash string) (bool, error) {
	const op = "storage.ConsumeResetCode"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET password_hash = $1, reset_code = NULL, reset_expiry = NULL, updated_at = now()
			  WHERE lower(email) = lower($2) AND reset_code = $3`
	res, err := s.DB.ExecContext(ctx, query, newPasswordHash, email, code)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

// SetAccountDisabled выставляет флаг блокировки. При блокировке фиксируется
// администратор-инициатор, при разблокировке ссылка очищается.
func (s *Storage) SetAccountDisabled(ctx context.Context, uid string, disabled bool, actorUID *string) (*models.Account, error) {
	const op = "storage.SetAccountDisabled"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var whoDisabled *string
	if disabled {
		whoDisabled = actorUID
	}
	query := `UPDATE accounts
			  SET account_disabled = $1, who_disabled = $2, updated_at = now()
			  WHERE uid = $3
			  RETURNING ` + accountColumns
	a, err := scanAccount(s.DB.QueryRowContext(ctx, query, disabled, whoDisabled, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
