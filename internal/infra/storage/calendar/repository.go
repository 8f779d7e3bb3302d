package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CleaningBooking/pkg/psqlbuilder"
)

const (
	tableDayPolicies  = "day_policies"
	tableBlockedDates = "blocked_dates"
	tableSettings     = "settings"
)

// uniqueViolationCode код ошибки PostgreSQL при нарушении уникальности
const uniqueViolationCode = "23505"

var dayPolicyColumns = []string{
	"weekday",
	"is_open",
	"start_time",
	"end_time",
	"daily_capacity",
	"updated_at",
}

var blockedDateColumns = []string{
	"id",
	"date",
	"reason",
	"created_at",
}

// Repository репозиторий календаря: политики дней недели, заблокированные даты и глобальный лимит
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetDayPolicy получает политику для дня недели
func (r *Repository) GetDayPolicy(ctx context.Context, weekday time.Weekday) (*domain.DayPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(dayPolicyColumns...).
		From(tableDayPolicies).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayPolicy - build select query: %v", ErrBuildQuery, err)
	}

	policy, err := scanDayPolicy(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDayPolicy - scan policy: %v", ErrScanRow, err)
	}

	return policy, nil
}

// ListDayPolicies получает все политики, отсортированные по дню недели
func (r *Repository) ListDayPolicies(ctx context.Context) ([]*domain.DayPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(dayPolicyColumns...).
		From(tableDayPolicies).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDayPolicies - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDayPolicies - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.DayPolicy, 0, 7)
	for rows.Next() {
		policy, err := scanDayPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDayPolicies - scan row: %v", ErrScanRow, err)
		}
		policies = append(policies, policy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDayPolicies - rows error: %v", ErrScanRow, err)
	}

	return policies, nil
}

// UpsertDayPolicies создает или обновляет политики по ключу weekday
// Политики никогда не удаляются
func (r *Repository) UpsertDayPolicies(ctx context.Context, policies []domain.DayPolicy) error {
	if len(policies) == 0 {
		return nil
	}

	insert := insertDayPolicies(policies).
		Suffix("ON CONFLICT (weekday) DO UPDATE SET " +
			"is_open = EXCLUDED.is_open, " +
			"start_time = EXCLUDED.start_time, " +
			"end_time = EXCLUDED.end_time, " +
			"daily_capacity = EXCLUDED.daily_capacity, " +
			"updated_at = NOW()")

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertDayPolicies - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := dbmetrics.GetExecutor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertDayPolicies - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CountDayPolicies возвращает количество сохраненных политик
func (r *Repository) CountDayPolicies(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableDayPolicies).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountDayPolicies - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountDayPolicies - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// SeedDefaultDayPolicies заполняет стандартную неделю, если таблица пуста
// Если есть хотя бы одна политика, ничего не делает: неполная неделя НЕ дополняется.
// Возвращает true, если засев был выполнен
func (r *Repository) SeedDefaultDayPolicies(ctx context.Context) (bool, error) {
	count, err := r.CountDayPolicies(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	// DO NOTHING: параллельный засев не должен падать на конфликте ключа
	query, args, err := insertDayPolicies(domain.DefaultWeek()).
		Suffix("ON CONFLICT (weekday) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: SeedDefaultDayPolicies - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := dbmetrics.GetExecutor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("%w: SeedDefaultDayPolicies - execute insert: %v", ErrExecQuery, err)
	}

	return true, nil
}

// ListBlockedDates получает заблокированные даты в диапазоне [from, to], по возрастанию даты
func (r *Repository) ListBlockedDates(ctx context.Context, from, to time.Time) ([]*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockedDateColumns...).
		From(tableBlockedDates).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]*domain.BlockedDate, 0)
	for rows.Next() {
		blocked, err := scanBlockedDate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBlockedDates - scan row: %v", ErrScanRow, err)
		}
		dates = append(dates, blocked)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// GetBlockedDateByDay ищет блокировку на конкретный день (точное совпадение даты)
func (r *Repository) GetBlockedDateByDay(ctx context.Context, day time.Time) (*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockedDateColumns...).
		From(tableBlockedDates).
		Where(squirrel.Eq{"date": day.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDateByDay - build select query: %v", ErrBuildQuery, err)
	}

	blocked, err := scanBlockedDate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockedDateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedDateByDay - scan blocked date: %v", ErrScanRow, err)
	}

	return blocked, nil
}

// AddBlockedDate блокирует день целиком
func (r *Repository) AddBlockedDate(ctx context.Context, day time.Time, reason string) (*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if strings.TrimSpace(reason) == "" {
		reason = domain.ReasonClosed
	}

	query, args, err := psqlbuilder.Insert(tableBlockedDates).
		Columns("date", "reason").
		Values(day.Format(domain.DateFormat), reason).
		Suffix("RETURNING " + strings.Join(blockedDateColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddBlockedDate - build insert query: %v", ErrBuildQuery, err)
	}

	blocked, err := scanBlockedDate(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBlockedDateExists
		}
		return nil, fmt.Errorf("%w: AddBlockedDate - execute insert: %v", ErrExecQuery, err)
	}

	return blocked, nil
}

// RemoveBlockedDate снимает блокировку по ID
func (r *Repository) RemoveBlockedDate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableBlockedDates).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveBlockedDate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedDateNotFound
	}

	return nil
}

// GetCapacityOverride читает глобальный дневной лимит
// nil означает, что лимит не задан
func (r *Repository) GetCapacityOverride(ctx context.Context) (*int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("value").
		From(tableSettings).
		Where(squirrel.Eq{"key": domain.CapacityOverrideKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCapacityOverride - build select query: %v", ErrBuildQuery, err)
	}

	var raw string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCapacityOverride - scan value: %v", ErrScanRow, err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidSetting, domain.CapacityOverrideKey, raw)
	}

	return &value, nil
}

// SetCapacityOverride задает глобальный дневной лимит; nil удаляет настройку
func (r *Repository) SetCapacityOverride(ctx context.Context, value *int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		query string
		args  []interface{}
		err   error
	)

	if value == nil {
		query, args, err = psqlbuilder.Delete(tableSettings).
			Where(squirrel.Eq{"key": domain.CapacityOverrideKey}).
			ToSql()
	} else {
		query, args, err = psqlbuilder.Insert(tableSettings).
			Columns("key", "value").
			Values(domain.CapacityOverrideKey, strconv.Itoa(*value)).
			Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
			ToSql()
	}
	if err != nil {
		return fmt.Errorf("%w: SetCapacityOverride - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetCapacityOverride - execute query: %v", ErrExecQuery, err)
	}

	return nil
}

func insertDayPolicies(policies []domain.DayPolicy) squirrel.InsertBuilder {
	insert := psqlbuilder.Insert(tableDayPolicies).
		Columns("weekday", "is_open", "start_time", "end_time", "daily_capacity")

	for _, p := range policies {
		insert = insert.Values(int(p.Weekday), p.IsOpen, p.StartTime, p.EndTime, p.DailyCapacity)
	}

	return insert
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDayPolicy(row rowScanner) (*domain.DayPolicy, error) {
	var (
		policy    domain.DayPolicy
		weekday   int
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&weekday,
		&policy.IsOpen,
		&policy.StartTime,
		&policy.EndTime,
		&policy.DailyCapacity,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	policy.Weekday = time.Weekday(weekday)
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}

func scanBlockedDate(row rowScanner) (*domain.BlockedDate, error) {
	var (
		blocked   domain.BlockedDate
		createdAt sql.NullTime
	)

	err := row.Scan(
		&blocked.ID,
		&blocked.Date,
		&blocked.Reason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	blocked.CreatedAt = createdAt.Time

	return &blocked, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode
}
