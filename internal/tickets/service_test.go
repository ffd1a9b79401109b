package tickets_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"
	"ms-checkout/internal/tickets"
	"ms-checkout/internal/tickets/qr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetTicketByID(ctx context.Context, ticketID string) (*models.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockStore) GetTicketsByOrder(ctx context.Context, orderID string) ([]models.Ticket, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockStore) GetTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockStore) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockStore) MarkTicketCheckedIn(ctx context.Context, ticketID string) error {
	return m.Called(ctx, ticketID).Error(0)
}

func setup(t *testing.T) (*MockStore, *qr.Generator, *tickets.Service, string, *models.Ticket) {
	t.Helper()
	store := new(MockStore)
	generator := qr.NewGenerator("door-scanner-secret")
	service := tickets.NewService(store, generator, logger.NewLogger())

	ticket := &models.Ticket{
		TicketID: "ticket-1",
		OrderID:  "order-1",
		EventID:  "event-1",
		UserID:   "user-1",
		QRToken:  qr.NewToken(),
		IssuedAt: time.Now(),
	}

	payload := encryptEnvelope(t, generator, ticket)
	return store, generator, service, payload, ticket
}

// encryptEnvelope produces the scanner-side string: what the QR image
// decodes to before the door app calls CheckIn.
func encryptEnvelope(t *testing.T, g *qr.Generator, ticket *models.Ticket) string {
	t.Helper()
	payload, err := g.EncryptEnvelope(ticket.TicketID, ticket.OrderID, ticket.EventID, ticket.QRToken)
	require.NoError(t, err)
	return payload
}

func TestCheckInHappyPath(t *testing.T) {
	store, _, service, payload, ticket := setup(t)
	ctx := context.Background()

	store.On("GetTicketByID", ctx, "ticket-1").Return(ticket, nil)
	store.On("GetOrderByID", ctx, "order-1").Return(&models.Order{
		ID: "order-1", PaymentStatus: models.PaymentPaid,
	}, nil)
	store.On("MarkTicketCheckedIn", ctx, "ticket-1").Return(nil)

	got, err := service.CheckIn(ctx, "event-1", payload)
	require.NoError(t, err)
	assert.True(t, got.CheckedIn)
	store.AssertCalled(t, "MarkTicketCheckedIn", ctx, "ticket-1")
}

func TestCheckInRejectsUnpaidOrder(t *testing.T) {
	store, _, service, payload, ticket := setup(t)
	ctx := context.Background()

	store.On("GetTicketByID", ctx, "ticket-1").Return(ticket, nil)
	store.On("GetOrderByID", ctx, "order-1").Return(&models.Order{
		ID: "order-1", PaymentStatus: models.PaymentPending,
	}, nil)

	_, err := service.CheckIn(ctx, "event-1", payload)
	assert.ErrorIs(t, err, tickets.ErrOrderNotPaid)
	store.AssertNotCalled(t, "MarkTicketCheckedIn", mock.Anything, mock.Anything)
}

func TestCheckInRejectsSecondScan(t *testing.T) {
	store, _, service, payload, ticket := setup(t)
	ctx := context.Background()

	ticket.CheckedIn = true
	store.On("GetTicketByID", ctx, "ticket-1").Return(ticket, nil)

	_, err := service.CheckIn(ctx, "event-1", payload)
	assert.ErrorIs(t, err, tickets.ErrAlreadyCheckedIn)
	store.AssertNotCalled(t, "MarkTicketCheckedIn", mock.Anything, mock.Anything)
}

func TestCheckInRejectsWrongEvent(t *testing.T) {
	store, _, service, payload, ticket := setup(t)
	ctx := context.Background()

	store.On("GetTicketByID", ctx, "ticket-1").Return(ticket, nil)

	_, err := service.CheckIn(ctx, "event-2", payload)
	assert.ErrorIs(t, err, tickets.ErrWrongEvent)
}

func TestCheckInRejectsRotatedToken(t *testing.T) {
	store, _, service, payload, ticket := setup(t)
	ctx := context.Background()

	// Stored ticket was reissued with a new token after the payload was made.
	ticket.QRToken = qr.NewToken()
	store.On("GetTicketByID", ctx, "ticket-1").Return(ticket, nil)

	_, err := service.CheckIn(ctx, "event-1", payload)
	assert.ErrorIs(t, err, tickets.ErrTokenMismatch)
}

func TestCheckInRejectsGarbagePayload(t *testing.T) {
	_, _, service, _, _ := setup(t)

	_, err := service.CheckIn(context.Background(), "event-1", "not-a-payload")
	assert.ErrorIs(t, err, tickets.ErrInvalidQRPayload)
}

func TestCheckInMissingTicket(t *testing.T) {
	store, _, service, payload, _ := setup(t)
	ctx := context.Background()

	store.On("GetTicketByID", ctx, "ticket-1").Return(nil, errors.New("sql: no rows in result set"))

	_, err := service.CheckIn(ctx, "event-1", payload)
	assert.ErrorIs(t, err, tickets.ErrTicketNotFound)
}

func TestTicketsByUserPassesThrough(t *testing.T) {
	store, _, service, _, _ := setup(t)
	ctx := context.Background()

	expected := []models.Ticket{{TicketID: "t-1"}, {TicketID: "t-2"}}
	store.On("GetTicketsByUser", ctx, "user-1").Return(expected, nil)

	got, err := service.TicketsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}
