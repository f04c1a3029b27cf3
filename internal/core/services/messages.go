package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Tanmayraut16/Neon-Chat/internal/core/contracts"
	"github.com/Tanmayraut16/Neon-Chat/internal/core/domain"
	"github.com/Tanmayraut16/Neon-Chat/pkg/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("message-service")

type IMessageService interface {
	// Send persists the message and then hands it to the router for live
	// delivery. The route outcome never affects Send's result: persistence
	// alone decides success.
	Send(ctx context.Context, senderID, recipientID uuid.UUID, text, imageDataURI string) (*domain.Message, error)
	// History returns the two-party conversation, oldest first.
	History(ctx context.Context, callerID, otherID uuid.UUID) ([]domain.Message, error)
}

type MessageService struct {
	log       *slog.Logger
	repo      domain.MessageRepository
	router    contracts.Router
	media     contracts.MediaStore
	txManager TxRunner
}

func NewMessageService(
	log *slog.Logger,
	repo domain.MessageRepository,
	router contracts.Router,
	media contracts.MediaStore,
	txManager TxRunner,
) *MessageService {
	return &MessageService{
		log:       log,
		repo:      repo,
		router:    router,
		media:     media,
		txManager: txManager,
	}
}

func (s *MessageService) Send(
	ctx context.Context,
	senderID, recipientID uuid.UUID,
	text, imageDataURI string,
) (*domain.Message, error) {
	ctx, span := tracer.Start(ctx, "MessageService.Send", trace.WithAttributes(
		attribute.String("message.sender_id", senderID.String()),
		attribute.String("message.recipient_id", recipientID.String()),
	))
	defer span.End()

	if text == "" && imageDataURI == "" {
		span.RecordError(domain.ErrInvalidMessage)
		return nil, domain.ErrInvalidMessage
	}
	var imageURL string
	if imageDataURI != "" {
		var err error
		if imageURL, err = s.media.Upload(ctx, imageDataURI); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "image upload failed")
			s.log.ErrorContext(ctx, "messages - send - image upload failed", logging.Err(err))
			return nil, err
		}
	}
	msg := &domain.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		ImageURL:    imageURL,
		CreatedAt:   time.Now(),
	}
	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.Save(txCtx, msg)
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		s.log.ErrorContext(ctx, "messages - send - save failed",
			logging.MessageID(msg.ID.String()), logging.Err(err))
		return nil, err
	}

	// Post-persist hook: live delivery is best-effort and its outcome is
	// recorded, never returned. The recipient reads from history otherwise.
	result := s.router.Route(ctx, domain.OutboundFromMessage(msg))
	span.SetAttributes(attribute.String("route.status", string(result.Status)))
	s.log.InfoContext(ctx, "messages - send - message persisted",
		logging.MessageID(msg.ID.String()),
		slog.String("route_status", string(result.Status)),
		slog.Int("route_failed", len(result.Failed)))
	return msg, nil
}

func (s *MessageService) History(ctx context.Context, callerID, otherID uuid.UUID) ([]domain.Message, error) {
	ctx, span := tracer.Start(ctx, "MessageService.History")
	defer span.End()
	msgs, err := s.repo.ListBetween(ctx, callerID, otherID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "db read failed")
		s.log.ErrorContext(ctx, "messages - history - list between failed", logging.Err(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("message_count", len(msgs)))
	return msgs, nil
}
