package lead

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CleaningBooking/pkg/ptr"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

func newMockRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), db, mock
}

func leadRow(id uuid.UUID, status string, serviceDate *time.Time, serviceTime interface{}) []driver.Value {
	now := time.Now()
	var date interface{}
	if serviceDate != nil {
		date = *serviceDate
	}
	return []driver.Value{
		id.String(), status,
		"Jane", "Doe", "jane@example.com", "555-0100",
		"10001", "1 Main St", "New York",
		"residential", "deep", "weekly",
		2, 1, 900, 0, "",
		"{inside_oven,laundry}", nil, 245.5,
		date, serviceTime,
		[]byte(`{"zip":"10001"}`), nil, "new", nil,
		now, now,
	}
}

func TestGetByID(t *testing.T) {
	repo, _, mock := newMockRepo(t)
	id := uuid.New()
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, status, .* FROM leads WHERE id = \$1$`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(leadColumns).AddRow(leadRow(id, "draft", &date, "10:00")...))

	lead, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, lead.ID)
	assert.Equal(t, domain.LeadStatusDraft, lead.Status)
	assert.Equal(t, domain.ServiceTypeResidential, lead.ServiceType)
	assert.Equal(t, []string{"inside_oven", "laundry"}, lead.Extras)
	assert.Nil(t, lead.PromoCode)
	require.NotNil(t, lead.ServiceTime)
	assert.Equal(t, types.TimeString("10:00"), *lead.ServiceTime)
	assert.JSONEq(t, `{"zip":"10001"}`, string(lead.Details))
	assert.Nil(t, lead.StaffID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM leads`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestGetByID_LocksRowInTransaction(t *testing.T) {
	repo, db, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM leads WHERE id = \$1 FOR UPDATE`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(leadColumns).AddRow(leadRow(id, "draft", nil, nil)...))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	lead, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, lead.ServiceDate)
	assert.Nil(t, lead.ServiceTime)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_AssignsIDAndDraftStatus(t *testing.T) {
	repo, _, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO leads \(.*\) VALUES \(.*\) RETURNING created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	lead, err := repo.Create(context.Background(), &domain.Lead{
		Email:       "jane@example.com",
		ServiceType: domain.ServiceTypeCommercial,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, lead.ID)
	assert.Equal(t, domain.LeadStatusDraft, lead.Status)
	assert.Equal(t, domain.CustomerTypeNew, lead.CustomerType)
	assert.Equal(t, now, lead.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_OnlyDrafts(t *testing.T) {
	repo, _, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE leads SET .* WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Lead{ID: id, Email: "jane@example.com"})
	assert.ErrorIs(t, err, ErrLeadNotDraft)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkBooked(t *testing.T) {
	repo, _, mock := newMockRepo(t)
	id := uuid.New()
	bookedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE leads SET status = \$1, booked_at = \$2, updated_at = NOW\(\) WHERE id = \$3 AND status = \$4`).
		WithArgs("booked", bookedAt, id.String(), "draft").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkBooked(context.Background(), id, bookedAt))

	// Повторное подтверждение не проходит
	mock.ExpectExec(`UPDATE leads SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.MarkBooked(context.Background(), id, bookedAt), ErrLeadNotDraft)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DayRange(t *testing.T) {
	repo, _, mock := newMockRepo(t)
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	start, end := domain.DayBounds(day)

	mock.ExpectQuery(`FROM leads WHERE service_date >= \$1 AND service_date <= \$2 AND status IN \(\$3,\$4\) ORDER BY service_date ASC, service_time ASC`).
		WithArgs(start, end, "draft", "booked").
		WillReturnRows(sqlmock.NewRows(leadColumns).
			AddRow(leadRow(uuid.New(), "draft", &day, "09:00")...).
			AddRow(leadRow(uuid.New(), "booked", &day, "10:00")...))

	leads, err := repo.List(context.Background(), domain.LeadsFilter{
		From:     &start,
		To:       &end,
		Statuses: domain.CountedStatuses,
	})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, types.TimeString("10:00"), *leads[1].ServiceTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ReturningCustomer(t *testing.T) {
	repo, _, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM leads WHERE status IN \(\$1\) AND lower\(email\) = lower\(\$2\) ORDER BY created_at DESC LIMIT 5`).
		WithArgs("booked", "Jane@Example.com").
		WillReturnRows(sqlmock.NewRows(leadColumns))

	leads, err := repo.List(context.Background(), domain.LeadsFilter{
		Email:    ptr.Ptr("Jane@Example.com"),
		Statuses: []domain.LeadStatus{domain.LeadStatusBooked},
		Limit:    5,
	})
	require.NoError(t, err)
	assert.Empty(t, leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignStaff_NotFound(t *testing.T) {
	repo, _, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE leads SET staff_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AssignStaff(context.Background(), uuid.New(), ptr.Ptr(int64(3)))
	assert.ErrorIs(t, err, ErrLeadNotFound)
}
