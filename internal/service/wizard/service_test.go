package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/infra/cache/session"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads"
	leadModels "github.com/m04kA/SMC-CleaningBooking/internal/service/leads/models"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/wizard/models"
	"github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
	flow "github.com/m04kA/SMC-CleaningBooking/internal/wizard"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type stubLeads struct {
	created     []*domain.Lead
	updated     []uuid.UUID
	finalized   []*domain.Lead
	createErr   error
	finalizeErr error
	previous    []*domain.Lead
	byID        map[uuid.UUID]*domain.Lead
}

func (l *stubLeads) Quote(fields *domain.Lead) (*leadModels.Quote, error) {
	if fields.PromoCode != nil && *fields.PromoCode == "BAD" {
		return nil, leads.ErrInvalidPromoCode
	}
	return &leadModels.Quote{Subtotal: 190, Total: 190}, nil
}

func (l *stubLeads) CreateLead(_ context.Context, fields *domain.Lead) (uuid.UUID, error) {
	if l.createErr != nil {
		return uuid.Nil, l.createErr
	}
	l.created = append(l.created, fields)
	return uuid.New(), nil
}

func (l *stubLeads) UpdateLead(_ context.Context, id uuid.UUID, _ *domain.Lead) error {
	l.updated = append(l.updated, id)
	return nil
}

func (l *stubLeads) Finalize(_ context.Context, id uuid.UUID, fields *domain.Lead) (*domain.Lead, error) {
	if l.finalizeErr != nil {
		return nil, l.finalizeErr
	}
	booked := *fields
	booked.ID = id
	booked.Status = domain.LeadStatusBooked
	l.finalized = append(l.finalized, &booked)
	return &booked, nil
}

func (l *stubLeads) GetByID(_ context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead, ok := l.byID[id]
	if !ok {
		return nil, leads.ErrLeadNotFound
	}
	return lead, nil
}

func (l *stubLeads) FindReturningCustomer(context.Context, string) ([]*domain.Lead, error) {
	return l.previous, nil
}

type stubAvailability struct {
	slots   []types.TimeString
	reason  string
	err     error
	lastReq *get_available_slots.Request
}

func (a *stubAvailability) Execute(_ context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error) {
	a.lastReq = req
	if a.err != nil {
		return nil, a.err
	}
	return &get_available_slots.Response{Date: req.Date, Open: len(a.slots) > 0, Slots: a.slots, Reason: a.reason}, nil
}

type recordingMetrics struct{ transitions []string }

func (m *recordingMetrics) ObserveWizardTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

type fixture struct {
	svc          *Service
	leads        *stubLeads
	availability *stubAvailability
	metrics      *recordingMetrics
	redis        *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		leads:        &stubLeads{byID: map[uuid.UUID]*domain.Lead{}},
		availability: &stubAvailability{slots: []types.TimeString{"09:00", "10:00", "11:00"}},
		metrics:      &recordingMetrics{},
		redis:        mr,
	}
	f.svc = NewService(flow.NewEngine(), session.NewStore(client, time.Hour), f.leads, f.availability, f.metrics, time.UTC, nopLogger{})
	f.svc.timeProvider = fixedTime{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return f
}

func (f *fixture) start(t *testing.T, mode string) string {
	t.Helper()
	resp, err := f.svc.Start(context.Background(), &models.StartRequest{Mode: mode})
	require.NoError(t, err)
	return resp.SessionID
}

func (f *fixture) advance(t *testing.T, id string, data string) *models.SessionResponse {
	t.Helper()
	resp, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(data)})
	require.NoError(t, err)
	return resp
}

// toReview проводит нового клиента до шага review
func (f *fixture) toReview(t *testing.T) string {
	t.Helper()
	id := f.start(t, "new")
	f.advance(t, id, `{"zipCode":"10001"}`)
	f.advance(t, id, `{"serviceType":"residential"}`)
	f.advance(t, id, `{"intensity":"standard","bedrooms":2,"bathrooms":1}`)
	f.advance(t, id, `{"extras":["oven"]}`)
	f.advance(t, id, `{"frequency":"weekly"}`)
	f.advance(t, id, `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"5551234567"}`)
	f.advance(t, id, `{"serviceDate":"2025-03-03","serviceTime":"10:00"}`)
	resp := f.advance(t, id, `{"street":"1 Main St","city":"New York"}`)
	require.Equal(t, string(flow.StepReview), resp.CurrentStep)
	return id
}

func TestStart(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Start(context.Background(), &models.StartRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepZip), resp.CurrentStep)
	assert.False(t, resp.CanGoBack)
	assert.True(t, f.redis.Exists("wizard:session:"+resp.SessionID))

	resp, err = f.svc.Start(context.Background(), &models.StartRequest{Mode: "returning"})
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepReturningLookup), resp.CurrentStep)
	assert.Equal(t, domain.CustomerTypeReturning, resp.Data.CustomerType)

	_, err = f.svc.Start(context.Background(), &models.StartRequest{Mode: "vip"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdvance_ResidentialPathToBooking(t *testing.T) {
	f := newFixture(t)
	id := f.toReview(t)

	// Лид создан при уходе с contact_quote и обновлен на schedule и address
	require.Len(t, f.leads.created, 1)
	assert.Equal(t, "jane@example.com", f.leads.created[0].Email)
	assert.Len(t, f.leads.updated, 2)

	resp := f.advance(t, id, `{}`)
	assert.Equal(t, string(flow.StepSuccess), resp.CurrentStep)
	assert.True(t, resp.Completed)
	assert.False(t, resp.CanGoBack)
	assert.Equal(t, 190.0, resp.Data.TotalPrice)

	require.Len(t, f.leads.finalized, 1)
	final := f.leads.finalized[0]
	assert.Equal(t, "1 Main St", final.Street)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), *final.ServiceDate)
	assert.Equal(t, types.TimeString("10:00"), *final.ServiceTime)
	assert.Equal(t, resp.Data.LeadID, final.ID.String())

	assert.Len(t, f.metrics.transitions, 9)
	assert.Equal(t, "review->success", f.metrics.transitions[8])

	_, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvance_ValidationKeepsStepAndData(t *testing.T) {
	f := newFixture(t)
	id := f.start(t, "new")

	_, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(`{"zipCode":"12"}`)})
	var validationErr *flow.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "zipCode", validationErr.Field)

	resp, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepZip), resp.CurrentStep)
	assert.Equal(t, "12", resp.Data.ZipCode)
}

func TestAdvance_InvalidPatch(t *testing.T) {
	f := newFixture(t)
	id := f.start(t, "new")

	_, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(`{"zipCode":`)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdvance_InvalidPromoCode(t *testing.T) {
	f := newFixture(t)
	id := f.start(t, "new")
	f.advance(t, id, `{"zipCode":"10001"}`)
	f.advance(t, id, `{"serviceType":"property_management"}`)
	f.advance(t, id, `{"businessName":"Acme","unitCount":4}`)

	_, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(
		`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"5551234567","promoCode":"bad"}`)})
	var validationErr *flow.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "promoCode", validationErr.Field)
	assert.Empty(t, f.leads.created)
}

func TestAdvance_SaveFailureDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	f.leads.createErr = errors.New("db down")
	id := f.start(t, "new")
	f.advance(t, id, `{"zipCode":"10001"}`)
	f.advance(t, id, `{"serviceType":"property_management"}`)
	f.advance(t, id, `{"businessName":"Acme","unitCount":4}`)

	resp := f.advance(t, id, `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"5551234567"}`)
	assert.Equal(t, string(flow.StepSchedule), resp.CurrentStep)
	assert.Empty(t, resp.Data.LeadID)
}

func TestAdvance_ScheduleChecksOfferedSlots(t *testing.T) {
	f := newFixture(t)
	id := f.toReview(t)

	// Черновик сессии не должен занимать собственный слот
	require.NotNil(t, f.availability.lastReq.ExcludeLeadID)

	resp, err := f.svc.Edit(context.Background(), id, &models.EditRequest{Step: string(flow.StepSchedule)})
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepSchedule), resp.CurrentStep)

	_, err = f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(`{"serviceTime":"15:00"}`)})
	var validationErr *flow.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "serviceTime", validationErr.Field)

	_, err = f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(`{"serviceDate":"2025-02-28","serviceTime":"10:00"}`)})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "serviceDate", validationErr.Field)

	f.availability.slots = nil
	f.availability.reason = "Closed"
	_, err = f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(`{"serviceDate":"2025-03-09"}`)})
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "Closed")

	f.availability.err = get_available_slots.ErrAvailabilityUnresolvable
	_, err = f.svc.Advance(context.Background(), id, &models.AdvanceRequest{})
	assert.ErrorIs(t, err, ErrSlotsUnavailable)
}

func TestAdvance_FinalizeOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		finalizeErr error
		wantStep    flow.StepID
		wantErr     error
		wantField   string
	}{
		{name: "duplicate submit", finalizeErr: leads.ErrAlreadyBooked, wantStep: flow.StepSuccess},
		{name: "store failure", finalizeErr: leads.ErrInternal, wantStep: flow.StepReview, wantErr: ErrBookingFailed},
		{name: "slot taken meanwhile", finalizeErr: leads.ErrBookingRejected, wantStep: flow.StepReview, wantField: "serviceTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.toReview(t)
			f.leads.finalizeErr = tt.finalizeErr

			_, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{})
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				var validationErr *flow.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.wantField, validationErr.Field)
			default:
				require.NoError(t, err)
			}

			resp, err := f.svc.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantStep), resp.CurrentStep)
		})
	}
}

func TestBackAndEdit(t *testing.T) {
	f := newFixture(t)
	id := f.start(t, "new")

	resp, err := f.svc.Back(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepZip), resp.CurrentStep)

	f.advance(t, id, `{"zipCode":"10001"}`)
	f.advance(t, id, `{"serviceType":"commercial"}`)

	resp, err = f.svc.Back(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepServiceType), resp.CurrentStep)
	assert.Equal(t, domain.ServiceTypeCommercial, resp.Data.ServiceType)

	resp, err = f.svc.Edit(context.Background(), id, &models.EditRequest{Step: string(flow.StepZip)})
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepZip), resp.CurrentStep)

	_, err = f.svc.Edit(context.Background(), id, &models.EditRequest{Step: string(flow.StepReview)})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Edit(context.Background(), id, &models.EditRequest{Step: "payment"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReturningCustomerPath(t *testing.T) {
	f := newFixture(t)
	previous := &domain.Lead{
		ID:          uuid.New(),
		Status:      domain.LeadStatusBooked,
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Phone:       "5551234567",
		ZipCode:     "10001",
		Street:      "1 Main St",
		City:        "New York",
		ServiceType: domain.ServiceTypeResidential,
		Intensity:   domain.IntensityStandard,
		Frequency:   domain.FrequencyWeekly,
		Bedrooms:    2,
		Bathrooms:   1,
	}
	f.leads.byID[previous.ID] = previous

	id := f.start(t, "returning")

	_, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(`{"lookupEmail":"jane@example.com"}`)})
	var validationErr *flow.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "lookupEmail", validationErr.Field)

	f.leads.previous = []*domain.Lead{previous}
	resp := f.advance(t, id, `{}`)
	assert.Equal(t, string(flow.StepPropertySelect), resp.CurrentStep)
	require.Len(t, resp.Data.PreviousProperties, 1)

	resp = f.advance(t, id, `{"selectedLeadId":"`+previous.ID.String()+`"}`)
	assert.Equal(t, string(flow.StepQuickReconfigure), resp.CurrentStep)
	assert.Equal(t, "1 Main St", resp.Data.Street)
	assert.Equal(t, domain.CustomerTypeReturning, resp.Data.CustomerType)

	resp = f.advance(t, id, `{"intensity":"deep","frequency":"monthly"}`)
	assert.Equal(t, string(flow.StepSchedule), resp.CurrentStep)
	require.Len(t, f.leads.created, 1)
	assert.Equal(t, domain.IntensityDeep, f.leads.created[0].Intensity)
	assert.Equal(t, domain.CustomerTypeReturning, f.leads.created[0].CustomerType)
}

func TestSessionNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	id := f.start(t, "new")
	f.redis.FastForward(2 * time.Hour)
	_, err = f.svc.Back(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAdvance_ReviewRevalidatesEarlierSteps(t *testing.T) {
	tests := []struct {
		name      string
		patch     string
		wantField string
		wantErr   error
		wantStep  flow.StepID
	}{
		{
			name:      "broken contact and zip",
			patch:     `{"email":"not-an-email","zipCode":"xx"}`,
			wantField: "zipCode",
			wantStep:  flow.StepReview,
		},
		{
			name:      "broken email only",
			patch:     `{"email":"not-an-email"}`,
			wantField: "email",
			wantStep:  flow.StepReview,
		},
		{
			name:     "cleared address",
			patch:    `{"street":"","city":"","email":"not-an-email","zipCode":"xx"}`,
			wantErr:  ErrInvalidTransition,
			wantStep: flow.StepAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.toReview(t)

			_, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(tt.patch)})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				var validationErr *flow.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.wantField, validationErr.Field)
			}

			assert.Empty(t, f.leads.finalized)

			resp, err := f.svc.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantStep), resp.CurrentStep)
			assert.False(t, resp.Completed)
		})
	}
}

func TestAdvance_PatchBreakingGuardMovesToFallback(t *testing.T) {
	f := newFixture(t)
	id := f.start(t, "new")
	f.advance(t, id, `{"zipCode":"10001"}`)
	resp := f.advance(t, id, `{"serviceType":"residential"}`)
	require.Equal(t, string(flow.StepResidentialDetails), resp.CurrentStep)

	_, err := f.svc.Advance(context.Background(), id, &models.AdvanceRequest{Data: json.RawMessage(`{"serviceType":"commercial"}`)})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resp, err = f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepServiceType), resp.CurrentStep)
	assert.Equal(t, domain.ServiceTypeCommercial, resp.Data.ServiceType)

	// Дальше мастер идет по ветке нового типа уборки
	resp = f.advance(t, id, `{}`)
	assert.Equal(t, string(flow.StepCommercialDetails), resp.CurrentStep)
}

func TestGet_ResolvesStoredStepWithBrokenGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.sessions.Save(ctx, &flow.State{
		SessionID:     "stale",
		Mode:          flow.ModeNew,
		CurrentStepID: flow.StepReview,
		History:       []flow.StepID{flow.StepZip, flow.StepServiceType},
		Data: flow.FormData{
			ZipCode:     "10001",
			ServiceType: domain.ServiceTypeCommercial,
			Email:       "jane@example.com",
			ServiceDate: "2025-03-03",
			ServiceTime: "10:00",
		},
	}))

	resp, err := f.svc.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, string(flow.StepAddress), resp.CurrentStep)

	stored, err := f.svc.sessions.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, flow.StepAddress, stored.CurrentStepID)
}
