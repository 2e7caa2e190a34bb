package order_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/auth"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/logger"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/models"
	"github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/order"
	orderdb "github.com/rishabsaini31-maker/Orgo-Bloom-sub001/internal/order/db"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) GetOrderWithItems(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) CancelOrderTx(ctx context.Context, ord *models.Order, historyNotes string) error {
	args := m.Called(ctx, ord, historyNotes)
	return args.Error(0)
}

func (m *MockDBLayer) ApplyOrderPatch(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) GetHistoryByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderStatusHistory), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Emit(ctx context.Context, userID, title, message string, typ models.NotificationType, link string) error {
	args := m.Called(ctx, userID, title, message, typ, link)
	return args.Error(0)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) PublishOrderCancelled(ord models.Order) error {
	args := m.Called(ord)
	return args.Error(0)
}

func (m *MockKafkaProducer) PublishOrderUpdated(ord models.Order) error {
	args := m.Called(ord)
	return args.Error(0)
}

func testOrder(status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:          uuid.New().String(),
		OrderNumber: "OB-1001",
		UserID:      "user123",
		Status:      status,
		Total:       decimal.NewFromFloat(149.50),
		CreatedAt:   time.Now(),
	}
}

func newTestService(db *MockDBLayer, notify *MockNotifier, kafka *MockKafkaProducer) *order.OrderService {
	return order.NewOrderService(db, notify, kafka, logger.NewLogger())
}

func TestCancel_PendingOrder(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	ord := testOrder(models.OrderPending)
	mockDB.On("GetOrderByID", mock.Anything, ord.ID).Return(ord, nil)
	mockDB.On("CancelOrderTx", mock.Anything, ord, "cancelled by customer: changed my mind").Return(nil)
	mockNotify.On("Emit", mock.Anything, "user123", "Order Cancelled",
		"Your order OB-1001 has been cancelled.", models.NotificationOrder, "/orders/"+ord.ID).Return(nil)
	mockKafka.On("PublishOrderCancelled", mock.Anything).Return(nil)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	result, err := svc.Cancel(context.Background(), ord.ID, "user123", "changed my mind")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, models.OrderCancelled, result.Status)
	assert.Equal(t, "changed my mind", result.CancelReason)
	assert.False(t, result.CancelledAt.IsZero())
	mockDB.AssertExpectations(t)
	mockNotify.AssertExpectations(t)
	mockKafka.AssertExpectations(t)
}

func TestCancel_DefaultReason(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	ord := testOrder(models.OrderProcessing)
	mockDB.On("GetOrderByID", mock.Anything, ord.ID).Return(ord, nil)
	mockDB.On("CancelOrderTx", mock.Anything, ord, "cancelled by customer: "+order.DefaultCancelReason).Return(nil)
	mockNotify.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockKafka.On("PublishOrderCancelled", mock.Anything).Return(nil)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	result, err := svc.Cancel(context.Background(), ord.ID, "user123", "")

	assert.NoError(t, err)
	assert.Equal(t, order.DefaultCancelReason, result.CancelReason)
	mockDB.AssertExpectations(t)
}

func TestCancel_ShippedOrderRejected(t *testing.T) {
	for _, status := range []models.OrderStatus{models.OrderShipped, models.OrderDelivered, models.OrderCancelled} {
		mockDB := new(MockDBLayer)
		mockNotify := new(MockNotifier)
		mockKafka := new(MockKafkaProducer)

		ord := testOrder(status)
		mockDB.On("GetOrderByID", mock.Anything, ord.ID).Return(ord, nil)

		svc := newTestService(mockDB, mockNotify, mockKafka)
		result, err := svc.Cancel(context.Background(), ord.ID, "user123", "too late")

		assert.ErrorIs(t, err, order.ErrInvalidTransition, "status %s", status)
		assert.Nil(t, result)
		mockDB.AssertNotCalled(t, "CancelOrderTx", mock.Anything, mock.Anything, mock.Anything)
		mockNotify.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockKafka.AssertNotCalled(t, "PublishOrderCancelled", mock.Anything)
	}
}

func TestCancel_NotOwner(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	ord := testOrder(models.OrderPending)
	mockDB.On("GetOrderByID", mock.Anything, ord.ID).Return(ord, nil)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	result, err := svc.Cancel(context.Background(), ord.ID, "someone-else", "")

	// Another user's order is indistinguishable from a missing one.
	assert.ErrorIs(t, err, order.ErrNotFound)
	assert.Nil(t, result)
	mockDB.AssertNotCalled(t, "CancelOrderTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_MissingOrder(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	mockDB.On("GetOrderByID", mock.Anything, "nope").Return(nil, sql.ErrNoRows)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	_, err := svc.Cancel(context.Background(), "nope", "user123", "")

	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestCancel_ConcurrentTransitionLosesRace(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	ord := testOrder(models.OrderPending)
	mockDB.On("GetOrderByID", mock.Anything, ord.ID).Return(ord, nil)
	mockDB.On("CancelOrderTx", mock.Anything, mock.Anything, mock.Anything).Return(orderdb.ErrNoRowsAffected)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	_, err := svc.Cancel(context.Background(), ord.ID, "user123", "")

	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	mockNotify.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_NotificationFailureDoesNotFailCancel(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	ord := testOrder(models.OrderPending)
	mockDB.On("GetOrderByID", mock.Anything, ord.ID).Return(ord, nil)
	mockDB.On("CancelOrderTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockNotify.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)
	mockKafka.On("PublishOrderCancelled", mock.Anything).Return(assert.AnError)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	result, err := svc.Cancel(context.Background(), ord.ID, "user123", "")

	assert.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, result.Status)
}

func TestAdminTransition_NonAdminForbidden(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	status := models.OrderShipped
	svc := newTestService(mockDB, mockNotify, mockKafka)
	_, err := svc.AdminTransition(context.Background(), "order1", auth.RoleCustomer, models.OrderPatch{Status: &status})

	assert.ErrorIs(t, err, order.ErrForbidden)
	mockDB.AssertNotCalled(t, "ApplyOrderPatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminTransition_AppliesPatch(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	status := models.OrderShipped
	tracking := "TRACK-42"
	patch := models.OrderPatch{Status: &status, TrackingNumber: &tracking}

	updated := testOrder(models.OrderShipped)
	updated.TrackingNumber = tracking
	mockDB.On("ApplyOrderPatch", mock.Anything, updated.ID, patch).Return(updated, nil)
	mockKafka.On("PublishOrderUpdated", mock.Anything).Return(nil)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	result, err := svc.AdminTransition(context.Background(), updated.ID, auth.RoleAdmin, patch)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderShipped, result.Status)
	assert.Equal(t, "TRACK-42", result.TrackingNumber)
	// The override skips the customer state machine and writes no
	// history row, so no notifier call either.
	mockNotify.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockDB.AssertExpectations(t)
	mockKafka.AssertExpectations(t)
}

func TestAdminTransition_AllowsBackwardsStatus(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	// DELIVERED back to PROCESSING: nonsense for a customer, legal for
	// an admin correction.
	status := models.OrderProcessing
	patch := models.OrderPatch{Status: &status}
	updated := testOrder(models.OrderProcessing)
	mockDB.On("ApplyOrderPatch", mock.Anything, updated.ID, patch).Return(updated, nil)
	mockKafka.On("PublishOrderUpdated", mock.Anything).Return(nil)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	result, err := svc.AdminTransition(context.Background(), updated.ID, auth.RoleAdmin, patch)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, result.Status)
}

func TestAdminTransition_UnknownStatus(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	status := models.OrderStatus("TELEPORTED")
	svc := newTestService(mockDB, mockNotify, mockKafka)
	_, err := svc.AdminTransition(context.Background(), "order1", auth.RoleAdmin, models.OrderPatch{Status: &status})

	assert.ErrorIs(t, err, order.ErrInvalidStatus)
	mockDB.AssertNotCalled(t, "ApplyOrderPatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminTransition_EmptyPatch(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	_, err := svc.AdminTransition(context.Background(), "order1", auth.RoleAdmin, models.OrderPatch{})

	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

func TestGetHistory_ReturnsTrail(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	ord := testOrder(models.OrderProcessing)
	trail := []models.OrderStatusHistory{
		{ID: "h1", OrderID: ord.ID, Status: models.OrderPending},
		{ID: "h2", OrderID: ord.ID, Status: models.OrderProcessing},
	}
	mockDB.On("GetOrderByID", mock.Anything, ord.ID).Return(ord, nil)
	mockDB.On("GetHistoryByOrder", mock.Anything, ord.ID).Return(trail, nil)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	history, err := svc.GetHistory(context.Background(), ord.ID, "user123")

	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, models.OrderPending, history[0].Status)
}

func TestGetHistory_NotOwner(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	ord := testOrder(models.OrderProcessing)
	mockDB.On("GetOrderByID", mock.Anything, ord.ID).Return(ord, nil)

	svc := newTestService(mockDB, mockNotify, mockKafka)
	_, err := svc.GetHistory(context.Background(), ord.ID, "intruder")

	assert.ErrorIs(t, err, order.ErrNotFound)
	mockDB.AssertNotCalled(t, "GetHistoryByOrder", mock.Anything, mock.Anything)
}

func TestGetOrder_OwnershipConflation(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockNotify := new(MockNotifier)
	mockKafka := new(MockKafkaProducer)

	ord := testOrder(models.OrderPending)
	mockDB.On("GetOrderWithItems", mock.Anything, ord.ID).Return(ord, nil)
	mockDB.On("GetOrderWithItems", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	svc := newTestService(mockDB, mockNotify, mockKafka)

	got, err := svc.GetOrder(context.Background(), ord.ID, "user123")
	assert.NoError(t, err)
	assert.Equal(t, ord.ID, got.ID)

	_, errForeign := svc.GetOrder(context.Background(), ord.ID, "intruder")
	_, errMissing := svc.GetOrder(context.Background(), "missing", "user123")
	assert.ErrorIs(t, errForeign, order.ErrNotFound)
	assert.ErrorIs(t, errMissing, order.ErrNotFound)
	assert.Equal(t, errForeign.Error(), errMissing.Error())
}
