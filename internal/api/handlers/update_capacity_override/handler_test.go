package update_capacity_override

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubService struct {
	err   error
	value *int
	calls int
}

func (s *stubService) SetCapacityOverride(_ context.Context, value *int) error {
	s.calls++
	s.value = value
	return s.err
}

func put(svc CalendarService, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/calendar/capacity-override", strings.NewReader(body))
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_SetAndClear(t *testing.T) {
	svc := &stubService{}

	rec := put(svc, `{"capacity":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.value)
	assert.Equal(t, 0, *svc.value)
	assert.JSONEq(t, `{"capacity":0}`, rec.Body.String())

	rec = put(svc, `{"capacity":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.value)
	assert.Equal(t, 2, svc.calls)
}

func TestHandle_Invalid(t *testing.T) {
	rec := put(&stubService{err: calendar.ErrInvalidInput}, `{"capacity":500}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc := &stubService{}
	rec = put(svc, `{"capacity":"many"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}
