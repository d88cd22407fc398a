package webhook

import (
	"context"
	"encoding/json"
	"time"

	"linebridge/internal/logger"
	"linebridge/internal/store"
	"linebridge/pkg/errors"
	"linebridge/pkg/logging"
	"linebridge/pkg/metrics"
)

// Appender is the slice of the message store the ingestor needs.
type Appender interface {
	Append(ctx context.Context, rec store.MessageRecord) error
}

// Service validates, decodes and persists inbound webhook deliveries.
type Service struct {
	store  Appender
	secret []byte
	logger logger.Logger
}

func NewService(appender Appender, channelSecret string, log logger.Logger) *Service {
	return &Service{
		store:  appender,
		secret: []byte(channelSecret),
		logger: log,
	}
}

// Result summarizes one processed delivery.
type Result struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
	Skipped  int `json:"skipped"`
}

// HandleEvent verifies the delivery signature, then decodes and appends each
// event in the batch. A malformed event is logged and skipped without
// aborting its siblings; a failed signature check or store write rejects the
// delivery with nothing (further) persisted.
func (s *Service) HandleEvent(ctx context.Context, body []byte, signature string) (Result, error) {
	start := time.Now()

	if err := VerifySignature(s.secret, body, signature); err != nil {
		metrics.IncWebhookRequest("rejected")
		return Result{}, err
	}

	var batch batchRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		metrics.IncWebhookRequest("malformed")
		return Result{}, errors.ErrMalformedEvent.WithCause(err)
	}

	result := Result{Received: len(batch.Events)}

	for i, raw := range batch.Events {
		rec, ok, err := DecodeEvent(raw)
		if err != nil {
			// Per-event isolation: one bad event never fails the batch.
			metrics.IncWebhookEvent("unknown", "malformed")
			s.logger.WarnwCtx(ctx, "Skipping malformed event", "index", i, "error", err)
			result.Skipped++
			continue
		}
		if !ok {
			metrics.IncWebhookEvent("non_message", "skipped")
			result.Skipped++
			continue
		}

		evCtx := logging.WithMessageID(ctx, rec.ID)
		if err := s.store.Append(evCtx, rec); err != nil {
			metrics.IncWebhookEvent(string(rec.Type), "error")
			metrics.IncWebhookRequest("error")
			metrics.ObserveWebhookDuration(time.Since(start), "error")
			return result, err
		}

		metrics.IncWebhookEvent(string(rec.Type), "stored")
		s.logger.InfowCtx(evCtx, "Message stored", "type", rec.Type, "sender_id", rec.SenderID)
		result.Stored++
	}

	metrics.IncWebhookRequest("accepted")
	metrics.ObserveWebhookDuration(time.Since(start), "accepted")
	return result, nil
}
