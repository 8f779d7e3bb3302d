package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	resp *getAvailableSlots.Response
	err  error
	req  *getAvailableSlots.Request
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.req = req
	return s.resp, s.err
}

func TestHandle_OpenDay(t *testing.T) {
	uc := &stubUseCase{resp: &getAvailableSlots.Response{
		Date:              time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Open:              true,
		Slots:             []types.TimeString{"09:00", "11:00"},
		EffectiveCapacity: 3,
		BookedCount:       1,
	}}
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2025-03-03", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "2025-03-03", body.Date)
	assert.Equal(t, []string{"09:00", "11:00"}, body.Slots)
	assert.Equal(t, 3, uc.req.Date.Day())
}

func TestHandle_Unresolvable(t *testing.T) {
	uc := &stubUseCase{err: fmt.Errorf("%w: db down", getAvailableSlots.ErrAvailabilityUnresolvable)}
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2025-03-03", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"open":false,"slots":[],"error":"Could not fetch slots"}`, rec.Body.String())
}

func TestHandle_BadDate(t *testing.T) {
	for _, query := range []string{"", "?date=03/03/2025"} {
		rec := httptest.NewRecorder()
		NewHandler(&stubUseCase{}, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}
