// Package services содержит логику бизнес-уровня для работы с учётными записями:
// регистрация, подтверждение почты, вход, сброс пароля и блокировка.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/sanitation-identity/internal/cache"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/password"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/secretcode"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/token"
	"github.com/magabrotheeeer/sanitation-identity/internal/metrics"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	"github.com/magabrotheeeer/sanitation-identity/internal/rabbitmq"
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

// Ошибки доменного уровня. Обработчики отображают их в HTTP-статусы,
// не раскрывая деталей наружу.
var (
	// ErrInvalidCredentials — вход отклонён. Нарочно не различает
	// «нет такой учётки» и «неверный пароль», чтобы не допускать перечисления.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified — почта не подтверждена, вход запрещён.
	ErrNotVerified = errors.New("email not verified")
	// ErrAccountDisabled — учётная запись заблокирована администратором.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrAlreadyVerified — почта уже подтверждена.
	ErrAlreadyVerified = errors.New("email already verified")
	// ErrCodeMismatch — предъявленный код не совпал либо уже использован.
	ErrCodeMismatch = errors.New("code mismatch")
	// ErrCodeExpired — срок действия кода истёк.
	ErrCodeExpired = errors.New("code expired")
	// ErrInvalidRole — роль вне закрытого перечисления или запрещена для регистрации.
	ErrInvalidRole = errors.New("invalid role")
	// ErrFullNameRequired — для инспектора обязательны ФИО.
	ErrFullNameRequired = errors.New("full name required for officer accounts")
)

// AccountRepository описывает контракт хранилища учётных записей.
type AccountRepository interface {
	RegisterAccount(ctx context.Context, account models.Account) (string, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByUID(ctx context.Context, uid string) (*models.Account, error)
	ListAccounts(ctx context.Context, role string) ([]*models.Account, error)
	SetVerificationCode(ctx context.Context, email, code string, expiry time.Time) error
	ConsumeVerificationCode(ctx context.Context, email, code string) (bool, error)
	SetResetCode(ctx context.Context, email, code string, expiry time.Time) error
	ConsumeResetCode(ctx context.Context, email, code, newPasswordHash string) (bool, error)
	SetAccountDisabled(ctx context.Context, uid string, disabled bool, actorUID *string) (*models.Account, error)
}

// CodePublisher публикует задание на отправку письма с кодом.
type CodePublisher interface {
	Publish(routingKey string, message any) error
}

// ProjectionCache кэширует очищенные проекции учётных записей.
type ProjectionCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// projectionTTL — срок жизни кэшированной проекции. Короткий: шлюз авторизации
// допускает устаревание статуса не дольше этого окна.
const projectionTTL = time.Minute

// AuthService отвечает за регистрацию, вход, подтверждение почты,
// сброс пароля и блокировку учётных записей.
type AuthService struct {
	accounts   AccountRepository
	tokenMaker token.Maker
	publisher  CodePublisher
	cache      ProjectionCache
	log        *slog.Logger

	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(accounts AccountRepository, tokenMaker token.Maker, publisher CodePublisher,
	cache ProjectionCache, log *slog.Logger, verificationTTL, resetTTL time.Duration) *AuthService {
	return &AuthService{
		accounts:        accounts,
		tokenMaker:      tokenMaker,
		publisher:       publisher,
		cache:           cache,
		log:             log,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

// RegisterParams — входные данные регистрации учётной записи.
type RegisterParams struct {
	Email    string
	Password string
	Role     models.Role
	FullName string
}

// Register создает новую учётную запись с хэшированием пароля.
//
// Бизнес-учётка создаётся неподтверждённой: выпускается код подтверждения
// и в очередь уходит письмо. Учётка инспектора заводится администратором
// и сразу считается подтверждённой.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*models.SafeAccount, error) {
	const op = "services.auth.Register"

	if params.Role != models.RoleBusiness && params.Role != models.RoleOfficer {
		return nil, ErrInvalidRole
	}
	if params.Role == models.RoleOfficer && params.FullName == "" {
		return nil, ErrFullNameRequired
	}

	hashed, err := password.GetHash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	account := models.Account{
		Email:        params.Email,
		PasswordHash: hashed,
		Role:         params.Role,
		Verified:     params.Role == models.RoleOfficer,
	}
	if params.FullName != "" {
		account.FullName = &params.FullName
	}

	var issued secretcode.Issued
	if params.Role == models.RoleBusiness {
		issued, err = secretcode.Issue(s.verificationTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		account.VerificationCode = &issued.Code
		account.VerificationExpiry = &issued.ExpiresAt
	}

	uid, err := s.accounts.RegisterAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	account.UID = uid
	if params.Role == models.RoleBusiness {
		account.BusinessAccount = &uid
		metrics.CodesIssuedTotal.WithLabelValues("verification").Inc()
		// Код уже сохранён: сбой публикации не откатывает состояние,
		// код остаётся действительным и может быть переотправлен.
		if err := s.publisher.Publish(rabbitmq.RoutingKeyVerification, models.EmailJob{
			Email:   account.Email,
			Code:    issued.Code,
			Purpose: "verification",
		}); err != nil {
			s.log.Error("failed to publish verification email", sl.Err(err))
		}
	}

	safe := account.Sanitize()
	return &safe, nil
}

// VerifyEmail подтверждает почту по одноразовому коду.
//
// Очистка кода и установка флага verified — одно условное обновление:
// код используется не более одного раза даже при параллельных запросах.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	const op = "services.auth.VerifyEmail"

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Verified {
		return ErrAlreadyVerified
	}

	switch secretcode.Verify(account.VerificationCode, code, account.VerificationExpiry, time.Now().UTC()) {
	case secretcode.Expired:
		return ErrCodeExpired
	case secretcode.Mismatch:
		return ErrCodeMismatch
	}

	ok, err := s.accounts.ConsumeVerificationCode(ctx, email, code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		// Код успели использовать или перевыпустить между проверкой и списанием.
		return ErrCodeMismatch
	}
	if err := s.cache.Invalidate(ctx, cache.AccountKey(account.UID)); err != nil {
		s.log.Error("failed to invalidate account projection", sl.Err(err))
	}
	return nil
}

// ResendVerificationCode перевыпускает код подтверждения и ставит письмо в очередь.
// Новый код перезаписывает предыдущий вместе со сроком действия.
func (s *AuthService) ResendVerificationCode(ctx context.Context, email string) error {
	const op = "services.auth.ResendVerificationCode"

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Verified {
		return ErrAlreadyVerified
	}

	issued, err := secretcode.Issue(s.verificationTTL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.accounts.SetVerificationCode(ctx, email, issued.Code, issued.ExpiresAt); err != nil {
		return err
	}
	metrics.CodesIssuedTotal.WithLabelValues("verification").Inc()

	if err := s.publisher.Publish(rabbitmq.RoutingKeyVerification, models.EmailJob{
		Email:   account.Email,
		Code:    issued.Code,
		Purpose: "verification",
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Login проверяет учётные данные и выпускает токен сессии.
//
// Отсутствующая учётка и неверный пароль дают один и тот же результат.
// Неподтверждённая почта блокирует вход. Блокировка учётки отклоняет вход
// только для инспекторов — для остальных ролей она применяется на шлюзе
// авторизации при привилегированных операциях (наблюдаемое поведение исходной
// системы, сохранено сознательно).
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.SafeAccount, error) {
	const op = "services.auth.Login"

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", nil, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}
	if !account.Verified {
		metrics.LoginsTotal.WithLabelValues("not_verified").Inc()
		return "", nil, ErrNotVerified
	}
	if account.Role == models.RoleOfficer && account.AccountDisabled {
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		return "", nil, ErrAccountDisabled
	}
	if err := password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, ErrInvalidCredentials
	}

	sessionToken, err := s.tokenMaker.IssueToken(account.UID, account.Email, account.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	safe := account.Sanitize()
	return sessionToken, &safe, nil
}

// ValidateSession проверяет токен сессии и возвращает его claims.
// Истечение и провал целостности считаются в метриках раздельно.
func (s *AuthService) ValidateSession(_ context.Context, tokenStr string) (*token.SessionClaims, error) {
	claims, err := s.tokenMaker.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
		} else {
			metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}
	metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	return claims, nil
}

// RequestPasswordReset выпускает код сброса и ставит письмо в очередь.
//
// Отсутствующая учётка отдаёт ErrAccountNotFound и наружу уходит 404 —
// наблюдаемая утечка перечисления исходной системы, сохранена сознательно,
// а не исправлена молча.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "services.auth.RequestPasswordReset"

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	issued, err := secretcode.Issue(s.resetTTL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.accounts.SetResetCode(ctx, email, issued.Code, issued.ExpiresAt); err != nil {
		return err
	}
	metrics.CodesIssuedTotal.WithLabelValues("reset").Inc()

	if err := s.publisher.Publish(rabbitmq.RoutingKeyReset, models.EmailJob{
		Email:   account.Email,
		Code:    issued.Code,
		Purpose: "reset",
	}); err != nil {
		// Код уже сохранён и действителен, письмо можно запросить повторно.
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// VerifyResetCode проверяет код сброса, не меняя состояния.
// Это read-only проба для клиента; однократность обеспечивается только
// в ApplyPasswordReset.
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Как и в исходной системе: неизвестная почта неотличима от неверного кода.
			return ErrCodeMismatch
		}
		return err
	}

	switch secretcode.Verify(account.ResetCode, code, account.ResetExpiry, time.Now().UTC()) {
	case secretcode.Expired:
		return ErrCodeExpired
	case secretcode.Mismatch:
		return ErrCodeMismatch
	}
	return nil
}

// ApplyPasswordReset повторно проверяет код и атомарно записывает новый пароль.
//
// Повторная проверка обязательна: VerifyResetCode не списывает код, и без неё
// возможен повтор. Запись пароля и очистка кода — одно условное обновление.
func (s *AuthService) ApplyPasswordReset(ctx context.Context, email, code, newPassword string) error {
	const op = "services.auth.ApplyPasswordReset"

	if err := s.VerifyResetCode(ctx, email, code); err != nil {
		return err
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ok, err := s.accounts.ConsumeResetCode(ctx, email, code, hashed)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		// Параллельный запрос уже использовал этот код.
		return ErrCodeMismatch
	}
	return nil
}

// GetAccount возвращает очищенную проекцию учётной записи, используя кэш.
func (s *AuthService) GetAccount(ctx context.Context, uid string) (*models.SafeAccount, error) {
	var cached models.SafeAccount
	key := cache.AccountKey(uid)
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Error("failed to read account projection from cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	account, err := s.accounts.GetAccountByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	safe := account.Sanitize()
	if err := s.cache.Set(ctx, key, safe, projectionTTL); err != nil {
		s.log.Error("failed to cache account projection", sl.Err(err))
	}
	return &safe, nil
}

// ListAccounts возвращает очищенные проекции, при необходимости фильтруя по роли.
func (s *AuthService) ListAccounts(ctx context.Context, role string) ([]models.SafeAccount, error) {
	accounts, err := s.accounts.ListAccounts(ctx, role)
	if err != nil {
		return nil, err
	}
	result := make([]models.SafeAccount, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, a.Sanitize())
	}
	return result, nil
}

// SetAccountEnabled блокирует или разблокирует учётную запись.
// Выполняется только администратором; инициатор блокировки фиксируется.
// Выданные сессии при этом продолжают действовать до естественного истечения:
// блокировка применяется на шлюзе авторизации.
func (s *AuthService) SetAccountEnabled(ctx context.Context, uid string, enabled bool, actorUID string) (*models.SafeAccount, error) {
	account, err := s.accounts.SetAccountDisabled(ctx, uid, !enabled, &actorUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, cache.AccountKey(uid)); err != nil {
		s.log.Error("failed to invalidate account projection", sl.Err(err))
	}
	safe := account.Sanitize()
	return &safe, nil
}

// IsAccountDisabled читает актуальный флаг блокировки из хранилища.
// Claims токена могут устареть относительно действий администратора,
// поэтому привилегированные операции перепроверяют живое состояние.
func (s *AuthService) IsAccountDisabled(ctx context.Context, uid string) (bool, error) {
	account, err := s.accounts.GetAccountByUID(ctx, uid)
	if err != nil {
		return false, err
	}
	return account.AccountDisabled, nil
}
