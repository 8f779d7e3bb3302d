package lead

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CleaningBooking/pkg/psqlbuilder"
)

const tableLeads = "leads"

var leadColumns = []string{
	"id",
	"status",
	"first_name",
	"last_name",
	"email",
	"phone",
	"zip_code",
	"street",
	"city",
	"service_type",
	"intensity",
	"frequency",
	"bedrooms",
	"bathrooms",
	"square_feet",
	"unit_count",
	"business_name",
	"extras",
	"promo_code",
	"total_price",
	"service_date",
	"service_time",
	"details",
	"staff_id",
	"customer_type",
	"booked_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с лидами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория лидов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает лид в статусе draft
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.Status == "" {
		lead.Status = domain.LeadStatusDraft
	}
	if lead.CustomerType == "" {
		lead.CustomerType = domain.CustomerTypeNew
	}

	values := editableValues(lead)
	values["id"] = lead.ID.String()
	values["status"] = lead.Status
	values["customer_type"] = lead.CustomerType

	query, args, err := psqlbuilder.Insert(tableLeads).
		SetMap(values).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	lead.CreatedAt = createdAt.Time
	lead.UpdatedAt = updatedAt.Time

	return lead, nil
}

// Update перезаписывает данные мастера у лида в статусе draft (last write wins)
// Статус, сотрудник и даты жизненного цикла не меняются
func (r *Repository) Update(ctx context.Context, lead *domain.Lead) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableLeads).
		SetMap(editableValues(lead)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lead.ID.String(), "status": domain.LeadStatusDraft}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	// Лид мог быть подтвержден параллельно
	if rowsAffected == 0 {
		return ErrLeadNotDraft
	}

	return nil
}

// GetByID получает лид по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// uuid.UUID - массив байт, squirrel развернул бы его в IN (...), поэтому передаем строку
	selectBuilder := psqlbuilder.Select(leadColumns...).
		From(tableLeads).
		Where(squirrel.Eq{"id": id.String()})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	lead, err := scanLead(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lead: %v", ErrScanRow, err)
	}

	return lead, nil
}

// List получает лиды по фильтру
//
// Примеры:
//
// 1. Лиды, занимающие вместимость дня:
//    filter := domain.LeadsFilter{From: &dayStart, To: &dayEnd, Statuses: domain.CountedStatuses}
//
// 2. Прошлые подтвержденные заказы клиента:
//    filter := domain.LeadsFilter{Email: &email, Statuses: []domain.LeadStatus{domain.LeadStatusBooked}}
func (r *Repository) List(ctx context.Context, filter domain.LeadsFilter) ([]*domain.Lead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(leadColumns...).
		From(tableLeads)

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"service_date": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"service_date": *filter.To})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.Email != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("lower(email) = lower(?)", *filter.Email))
	}
	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": filter.ExcludeID.String()})
	}

	byDate := filter.From != nil || filter.To != nil
	if byDate {
		selectBuilder = selectBuilder.OrderBy("service_date ASC", "service_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("created_at DESC")
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}

	// Блокируем лиды дня при подтверждении бронирования
	if dbmetrics.IsInTransaction(ctx) && byDate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	leads := make([]*domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return leads, nil
}

// MarkBooked переводит лид из draft в booked
// Повторный вызов возвращает ErrLeadNotDraft
func (r *Repository) MarkBooked(ctx context.Context, id uuid.UUID, bookedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableLeads).
		Set("status", domain.LeadStatusBooked).
		Set("booked_at", bookedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String(), "status": domain.LeadStatusDraft}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLeadNotDraft
	}

	return nil
}

// AssignStaff назначает (или снимает при nil) сотрудника
// Данные об услуге не меняются
func (r *Repository) AssignStaff(ctx context.Context, id uuid.UUID, staffID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableLeads).
		Set("staff_id", staffID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AssignStaff - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AssignStaff - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AssignStaff - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLeadNotFound
	}

	return nil
}

// editableValues поля, которые заполняет мастер
func editableValues(lead *domain.Lead) map[string]interface{} {
	extras := lead.Extras
	if extras == nil {
		extras = []string{}
	}

	details := "{}"
	if len(lead.Details) > 0 {
		details = string(lead.Details)
	}

	return map[string]interface{}{
		"first_name":    lead.FirstName,
		"last_name":     lead.LastName,
		"email":         lead.Email,
		"phone":         lead.Phone,
		"zip_code":      lead.ZipCode,
		"street":        lead.Street,
		"city":          lead.City,
		"service_type":  lead.ServiceType,
		"intensity":     lead.Intensity,
		"frequency":     lead.Frequency,
		"bedrooms":      lead.Bedrooms,
		"bathrooms":     lead.Bathrooms,
		"square_feet":   lead.SquareFeet,
		"unit_count":    lead.UnitCount,
		"business_name": lead.BusinessName,
		"extras":        pq.StringArray(extras),
		"promo_code":    lead.PromoCode,
		"total_price":   lead.TotalPrice,
		"service_date":  lead.ServiceDate,
		"service_time":  lead.ServiceTime,
		"details":       details,
	}
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*domain.Lead, error) {
	var (
		lead                 domain.Lead
		details              []byte
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&lead.ID,
		&lead.Status,
		&lead.FirstName,
		&lead.LastName,
		&lead.Email,
		&lead.Phone,
		&lead.ZipCode,
		&lead.Street,
		&lead.City,
		&lead.ServiceType,
		&lead.Intensity,
		&lead.Frequency,
		&lead.Bedrooms,
		&lead.Bathrooms,
		&lead.SquareFeet,
		&lead.UnitCount,
		&lead.BusinessName,
		pq.Array(&lead.Extras),
		&lead.PromoCode,
		&lead.TotalPrice,
		&lead.ServiceDate,
		&lead.ServiceTime,
		&details,
		&lead.StaffID,
		&lead.CustomerType,
		&lead.BookedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(details) > 0 {
		lead.Details = json.RawMessage(details)
	}
	lead.CreatedAt = createdAt.Time
	lead.UpdatedAt = updatedAt.Time

	return &lead, nil
}
