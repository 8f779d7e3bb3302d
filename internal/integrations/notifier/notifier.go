package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// TypeBookingConfirmed тип задачи уведомления о подтвержденном бронировании
const TypeBookingConfirmed = "booking:confirmed"

// ErrEnqueue возвращается, если задачу не удалось поставить в очередь
var ErrEnqueue = errors.New("notifier: failed to enqueue task")

// Enqueuer интерфейс клиента очереди (реализуется *asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// BookingConfirmedPayload данные для письма клиенту
// Само письмо отправляет отдельный обработчик очереди
type BookingConfirmedPayload struct {
	LeadID       string  `json:"leadId"`
	Email        string  `json:"email"`
	FullName     string  `json:"fullName"`
	ServiceType  string  `json:"serviceType"`
	ServiceDate  string  `json:"serviceDate"`
	ServiceTime  string  `json:"serviceTime"`
	Street       string  `json:"street"`
	City         string  `json:"city"`
	TotalPrice   float64 `json:"totalPrice"`
	CustomerType string  `json:"customerType"`
}

// Notifier ставит задачи уведомлений в очередь asynq
type Notifier struct {
	client   Enqueuer
	queue    string
	maxRetry int
	loc      *time.Location
}

// New создает notifier
func New(client Enqueuer, queue string, maxRetry int, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.Local
	}
	return &Notifier{client: client, queue: queue, maxRetry: maxRetry, loc: loc}
}

// NewBookingConfirmedTask формирует задачу по подтвержденному лиду
func NewBookingConfirmedTask(lead *domain.Lead, loc *time.Location) (*asynq.Task, error) {
	payload := BookingConfirmedPayload{
		LeadID:       lead.ID.String(),
		Email:        lead.Email,
		FullName:     lead.FullName(),
		ServiceType:  string(lead.ServiceType),
		Street:       lead.Street,
		City:         lead.City,
		TotalPrice:   lead.TotalPrice,
		CustomerType: string(lead.CustomerType),
	}
	if lead.ServiceDate != nil {
		payload.ServiceDate = lead.ServiceDate.In(loc).Format(domain.DateFormat)
	}
	if lead.ServiceTime != nil {
		payload.ServiceTime = lead.ServiceTime.String()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingConfirmed, b), nil
}

// EnqueueBookingConfirmed ставит уведомление в очередь
// TaskID равен ID лида, поэтому повторная постановка не дублирует письмо
func (n *Notifier) EnqueueBookingConfirmed(ctx context.Context, lead *domain.Lead) error {
	task, err := NewBookingConfirmedTask(lead, n.loc)
	if err != nil {
		return fmt.Errorf("%w: build task: %v", ErrEnqueue, err)
	}

	_, err = n.client.EnqueueContext(ctx, task,
		asynq.Queue(n.queue),
		asynq.MaxRetry(n.maxRetry),
		asynq.TaskID(TypeBookingConfirmed+":"+lead.ID.String()),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("%w: %v", ErrEnqueue, err)
	}
	return nil
}
