package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/ptr"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "1"}, nil
}

func bookedLead() *domain.Lead {
	return &domain.Lead{
		ID:          uuid.MustParse("8f14e45f-ceea-467f-a0e6-0f4b4b1f4a11"),
		Status:      domain.LeadStatusBooked,
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		ServiceType: domain.ServiceTypeResidential,
		ServiceDate: ptr.Ptr(time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)),
		ServiceTime: ptr.Ptr(types.TimeString("10:00")),
		TotalPrice:  190,
	}
}

func TestEnqueueBookingConfirmed(t *testing.T) {
	q := &fakeEnqueuer{}
	n := New(q, "notifications", 5, time.UTC)

	require.NoError(t, n.EnqueueBookingConfirmed(context.Background(), bookedLead()))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeBookingConfirmed, q.tasks[0].Type())
	assert.Len(t, q.opts[0], 3)

	var payload BookingConfirmedPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "jane@example.com", payload.Email)
	assert.Equal(t, "Jane Doe", payload.FullName)
	assert.Equal(t, "2025-03-03", payload.ServiceDate)
	assert.Equal(t, "10:00", payload.ServiceTime)
}

func TestEnqueueBookingConfirmed_DuplicateIsNotAnError(t *testing.T) {
	n := New(&fakeEnqueuer{err: asynq.ErrTaskIDConflict}, "notifications", 5, time.UTC)
	assert.NoError(t, n.EnqueueBookingConfirmed(context.Background(), bookedLead()))
}

func TestEnqueueBookingConfirmed_QueueFailure(t *testing.T) {
	n := New(&fakeEnqueuer{err: errors.New("redis down")}, "notifications", 5, time.UTC)
	assert.ErrorIs(t, n.EnqueueBookingConfirmed(context.Background(), bookedLead()), ErrEnqueue)
}
