package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"procurement/internal/negotiation"
	"procurement/internal/tasks"
	"procurement/models"
)

// --- Mocks ---

type MockStore struct {
	mock.Mock
}

func (m *MockStore) VendorUserID(ctx context.Context, vendorID int64) (int64, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ContractorUserID(ctx context.Context, contractorID int64) (int64, error) {
	args := m.Called(ctx, contractorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CreateNotification(ctx context.Context, n *models.Notification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

func eventTask(t *testing.T, eventID string, evt negotiation.Event) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(tasks.EventPayload{EventID: eventID, Event: evt})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeNegotiationEvent, payload)
}

// --- Tests ---

func TestPublishEnqueuesEventTask(t *testing.T) {
	enq := new(MockEnqueuer)
	var captured *asynq.Task
	enq.On("EnqueueContext", mock.Anything, mock.AnythingOfType("*asynq.Task")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*asynq.Task) }).
		Return(&asynq.TaskInfo{}, nil)

	evt := negotiation.Event{Type: negotiation.EventEnquiryCreated, EnquiryID: 1, EnquiryCode: "ENQ1001", VendorID: 3, ContractorID: 4}
	require.NoError(t, tasks.NewPublisher(enq).Publish(context.Background(), evt))

	require.NotNil(t, captured)
	assert.Equal(t, tasks.TypeNegotiationEvent, captured.Type())

	var payload tasks.EventPayload
	require.NoError(t, json.Unmarshal(captured.Payload(), &payload))
	assert.NotEmpty(t, payload.EventID)
	assert.Equal(t, evt, payload.Event)
	enq.AssertExpectations(t)
}

func TestPublishWrapsEnqueueError(t *testing.T) {
	enq := new(MockEnqueuer)
	boom := errors.New("redis down")
	enq.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, boom)

	err := tasks.NewPublisher(enq).Publish(context.Background(), negotiation.Event{Type: negotiation.EventOrderPlaced})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "order.placed")
}

func TestHandleEnquiryCreatedNotifiesVendor(t *testing.T) {
	store := new(MockStore)
	logger, _ := test.NewNullLogger()
	p := tasks.NewTaskProcessor(store, logger)

	store.On("VendorUserID", mock.Anything, int64(3)).Return(int64(30), nil)
	store.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.EventID == "evt-1" && n.UserID == 30 &&
			n.Message == "New enquiry ENQ1001 received" && n.Link == "/enquiries/ENQ1001"
	})).Return(true, nil)

	task := eventTask(t, "evt-1", negotiation.Event{
		Type: negotiation.EventEnquiryCreated, EnquiryCode: "ENQ1001", VendorID: 3, ContractorID: 4,
	})
	require.NoError(t, p.HandleNegotiationEventTask(context.Background(), task))

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "ContractorUserID", mock.Anything, mock.Anything)
}

func TestHandleVendorReplyNotifiesContractor(t *testing.T) {
	store := new(MockStore)
	p := tasks.NewTaskProcessor(store, nil)

	store.On("ContractorUserID", mock.Anything, int64(4)).Return(int64(40), nil)
	store.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == 40 && n.Message == "Vendor replied to enquiry ENQ1002"
	})).Return(true, nil)

	task := eventTask(t, "evt-2", negotiation.Event{
		Type: negotiation.EventVendorReplied, EnquiryCode: "ENQ1002", VendorID: 3, ContractorID: 4,
	})
	require.NoError(t, p.HandleNegotiationEventTask(context.Background(), task))
	store.AssertExpectations(t)
}

func TestHandleOrderPlacedNotifiesBothSides(t *testing.T) {
	store := new(MockStore)
	p := tasks.NewTaskProcessor(store, nil)

	store.On("VendorUserID", mock.Anything, int64(3)).Return(int64(30), nil)
	store.On("ContractorUserID", mock.Anything, int64(4)).Return(int64(40), nil)
	store.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.Link == "/orders/OID1001" && n.Message == "Order OID1001 placed for enquiry ENQ1001"
	})).Return(true, nil).Twice()

	task := eventTask(t, "evt-3", negotiation.Event{
		Type: negotiation.EventOrderPlaced, EnquiryCode: "ENQ1001", OrderCode: "OID1001", VendorID: 3, ContractorID: 4,
	})
	require.NoError(t, p.HandleNegotiationEventTask(context.Background(), task))
	store.AssertExpectations(t)
}

func TestHandleRedeliveryIsHarmless(t *testing.T) {
	store := new(MockStore)
	p := tasks.NewTaskProcessor(store, nil)

	store.On("VendorUserID", mock.Anything, int64(3)).Return(int64(30), nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).Return(false, nil)

	task := eventTask(t, "evt-4", negotiation.Event{Type: negotiation.EventCounterOffer, EnquiryCode: "ENQ1001", VendorID: 3})
	require.NoError(t, p.HandleNegotiationEventTask(context.Background(), task))
}

func TestHandleMissingRecipientIsSkipped(t *testing.T) {
	store := new(MockStore)
	logger, hook := test.NewNullLogger()
	p := tasks.NewTaskProcessor(store, logger)

	store.On("VendorUserID", mock.Anything, int64(3)).Return(int64(0), models.ErrNotFound)

	task := eventTask(t, "evt-5", negotiation.Event{Type: negotiation.EventCounterOffer, EnquiryCode: "ENQ1001", VendorID: 3})
	require.NoError(t, p.HandleNegotiationEventTask(context.Background(), task))

	store.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "notification recipient missing", hook.LastEntry().Message)
}

func TestHandleStoreErrorIsRetried(t *testing.T) {
	store := new(MockStore)
	p := tasks.NewTaskProcessor(store, nil)
	boom := errors.New("connection reset")

	store.On("ContractorUserID", mock.Anything, int64(4)).Return(int64(40), nil)
	store.On("CreateNotification", mock.Anything, mock.Anything).Return(false, boom)

	task := eventTask(t, "evt-6", negotiation.Event{Type: negotiation.EventVendorReplied, EnquiryCode: "ENQ1001", ContractorID: 4})
	err := p.HandleNegotiationEventTask(context.Background(), task)
	require.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleBadPayloadSkipsRetry(t *testing.T) {
	p := tasks.NewTaskProcessor(new(MockStore), nil)

	err := p.HandleNegotiationEventTask(context.Background(), asynq.NewTask(tasks.TypeNegotiationEvent, []byte("{not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = p.HandleNegotiationEventTask(context.Background(), eventTask(t, "", negotiation.Event{Type: negotiation.EventOrderPlaced}))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleUnknownEventTypeIsIgnored(t *testing.T) {
	store := new(MockStore)
	p := tasks.NewTaskProcessor(store, nil)

	task := eventTask(t, "evt-7", negotiation.Event{Type: "enquiry.archived"})
	require.NoError(t, p.HandleNegotiationEventTask(context.Background(), task))
	store.AssertExpectations(t)
}
