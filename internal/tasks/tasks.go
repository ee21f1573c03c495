package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"procurement/internal/negotiation"
	"procurement/models"
)

const (
	TypeNegotiationEvent = "negotiation:event"

	QueueDefault = "default"
)

// EventPayload is the body of a negotiation event task. EventID is fixed when
// the event is published so retries write the same notifications.
type EventPayload struct {
	EventID string            `json:"event_id"`
	Event   negotiation.Event `json:"event"`
}

func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

// --- Publishing ---

// Enqueuer is the part of *asynq.Client the publisher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher turns committed negotiation events into background tasks.
type Publisher struct {
	client Enqueuer
}

func NewPublisher(client Enqueuer) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, evt negotiation.Event) error {
	eventID := uuid.NewString()
	payload, err := json.Marshal(EventPayload{EventID: eventID, Event: evt})
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	task := asynq.NewTask(TypeNegotiationEvent, payload,
		asynq.TaskID(eventID),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if _, err := p.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", evt.Type, err)
	}
	return nil
}

// --- Processing ---

type NotificationStore interface {
	VendorUserID(ctx context.Context, vendorID int64) (int64, error)
	ContractorUserID(ctx context.Context, contractorID int64) (int64, error)
	CreateNotification(ctx context.Context, n *models.Notification) (bool, error)
}

// TaskProcessor handles background tasks.
type TaskProcessor struct {
	store NotificationStore
	log   logrus.FieldLogger
}

func NewTaskProcessor(store NotificationStore, log logrus.FieldLogger) *TaskProcessor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TaskProcessor{store: store, log: log}
}

type party int

const (
	partyVendor party = iota
	partyContractor
)

type notice struct {
	to      party
	message string
	link    string
}

// noticesFor decides who hears about an event and what they are told.
func noticesFor(evt negotiation.Event) []notice {
	enquiryLink := "/enquiries/" + evt.EnquiryCode
	switch evt.Type {
	case negotiation.EventEnquiryCreated:
		return []notice{{partyVendor, fmt.Sprintf("New enquiry %s received", evt.EnquiryCode), enquiryLink}}
	case negotiation.EventVendorReplied:
		return []notice{{partyContractor, fmt.Sprintf("Vendor replied to enquiry %s", evt.EnquiryCode), enquiryLink}}
	case negotiation.EventCounterOffer:
		return []notice{{partyVendor, fmt.Sprintf("New counter offer on enquiry %s", evt.EnquiryCode), enquiryLink}}
	case negotiation.EventOrderPlaced:
		msg := fmt.Sprintf("Order %s placed for enquiry %s", evt.OrderCode, evt.EnquiryCode)
		link := "/orders/" + evt.OrderCode
		return []notice{{partyVendor, msg, link}, {partyContractor, msg, link}}
	default:
		return nil
	}
}

func (p *TaskProcessor) HandleNegotiationEventTask(ctx context.Context, t *asynq.Task) error {
	var payload EventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal event payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.EventID == "" {
		return fmt.Errorf("event payload without event_id: %w", asynq.SkipRetry)
	}

	notices := noticesFor(payload.Event)
	if len(notices) == 0 {
		p.log.WithField("event", payload.Event.Type).Warn("no notifications for event type")
		return nil
	}

	for _, n := range notices {
		userID, err := p.recipient(ctx, n.to, payload.Event)
		if errors.Is(err, models.ErrNotFound) {
			p.log.WithError(err).WithField("event_id", payload.EventID).Warn("notification recipient missing")
			continue
		}
		if err != nil {
			return fmt.Errorf("resolve recipient: %w", err)
		}

		created, err := p.store.CreateNotification(ctx, &models.Notification{
			EventID: payload.EventID,
			UserID:  userID,
			Message: n.message,
			Link:    n.link,
		})
		if err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		p.log.WithFields(logrus.Fields{
			"event_id": payload.EventID,
			"user_id":  userID,
			"created":  created,
		}).Debug("notification handled")
	}
	return nil
}

func (p *TaskProcessor) recipient(ctx context.Context, to party, evt negotiation.Event) (int64, error) {
	if to == partyVendor {
		return p.store.VendorUserID(ctx, evt.VendorID)
	}
	return p.store.ContractorUserID(ctx, evt.ContractorID)
}

// NewServeMux registers every task handler of the processor.
func NewServeMux(p *TaskProcessor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNegotiationEvent, p.HandleNegotiationEventTask)
	return mux
}

func NewServer(opt asynq.RedisClientOpt, concurrency int, log logrus.FieldLogger) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueDefault: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.WithError(err).WithField("task_type", task.Type()).Error("task failed")
		}),
	})
}
