package tickets

import (
	"context"
	"errors"
	"fmt"

	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"
	"ms-checkout/internal/tickets/qr"
)

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")
	ErrTokenMismatch    = errors.New("QR token does not match ticket")
	ErrWrongEvent       = errors.New("ticket belongs to another event")
	ErrOrderNotPaid     = errors.New("order is not paid")
	ErrInvalidQRPayload = errors.New("QR payload could not be decrypted")
)

// Store is the persistence surface for ticket lookups and check-in.
type Store interface {
	GetTicketByID(ctx context.Context, ticketID string) (*models.Ticket, error)
	GetTicketsByOrder(ctx context.Context, orderID string) ([]models.Ticket, error)
	GetTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	MarkTicketCheckedIn(ctx context.Context, ticketID string) error
}

// Decrypter reverses the QR envelope encryption done at issuance.
type Decrypter interface {
	Decrypt(encoded string) (ticketID, token string, err error)
}

type Service struct {
	store  Store
	qr     Decrypter
	logger *logger.Logger
}

func NewService(store Store, decrypter Decrypter, log *logger.Logger) *Service {
	return &Service{store: store, qr: decrypter, logger: log}
}

func (s *Service) TicketsByOrder(ctx context.Context, orderID string) ([]models.Ticket, error) {
	return s.store.GetTicketsByOrder(ctx, orderID)
}

func (s *Service) TicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	return s.store.GetTicketsByUser(ctx, userID)
}

// CheckIn validates a scanned QR payload against the stored ticket and marks
// it used. A ticket checks in exactly once, only for its own event, and only
// when the backing order is paid.
func (s *Service) CheckIn(ctx context.Context, eventID, qrPayload string) (*models.Ticket, error) {
	ticketID, token, err := s.qr.Decrypt(qrPayload)
	if err != nil {
		s.logger.Warn("CHECKIN", fmt.Sprintf("Failed to decrypt QR payload: %v", err))
		return nil, ErrInvalidQRPayload
	}

	ticket, err := s.store.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, ErrTicketNotFound
	}

	if ticket.QRToken != token {
		s.logger.Warn("CHECKIN", fmt.Sprintf("Token mismatch for ticket %s", ticketID))
		return nil, ErrTokenMismatch
	}
	if ticket.EventID != eventID {
		return nil, ErrWrongEvent
	}
	if ticket.CheckedIn {
		return ticket, ErrAlreadyCheckedIn
	}

	order, err := s.store.GetOrderByID(ctx, ticket.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order for ticket %s: %w", ticketID, err)
	}
	if order.PaymentStatus != models.PaymentPaid {
		return nil, ErrOrderNotPaid
	}

	if err := s.store.MarkTicketCheckedIn(ctx, ticketID); err != nil {
		return nil, fmt.Errorf("failed to mark ticket %s checked in: %w", ticketID, err)
	}

	ticket.CheckedIn = true
	s.logger.Info("CHECKIN", fmt.Sprintf("Ticket %s checked in for event %s", ticketID, eventID))
	return ticket, nil
}

// ReissueQR regenerates the PNG for an existing ticket without rotating its
// token, so a lost image can be recovered from the stored envelope fields.
func (s *Service) ReissueQR(ctx context.Context, generator *qr.Generator, ticketID string) ([]byte, error) {
	ticket, err := s.store.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, ErrTicketNotFound
	}
	return generator.Generate(ticket.TicketID, ticket.OrderID, ticket.EventID, ticket.QRToken)
}
