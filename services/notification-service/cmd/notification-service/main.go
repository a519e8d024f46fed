package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/climatize/climatize/libs/config"
	"github.com/climatize/climatize/libs/db"
	"github.com/climatize/climatize/libs/httpx"
	"github.com/climatize/climatize/libs/kafkax"
	otelx "github.com/climatize/climatize/libs/otel"
	"github.com/climatize/climatize/libs/runtime"
	"github.com/climatize/climatize/services/notification-service/internal/consumer"
	"github.com/climatize/climatize/services/notification-service/internal/email"
	"github.com/climatize/climatize/services/notification-service/internal/inbox"
	"github.com/climatize/climatize/services/notification-service/internal/outbox"
	"github.com/climatize/climatize/services/notification-service/internal/sms"
	"github.com/climatize/climatize/services/notification-service/internal/storage"
)

type reminderPayload struct {
	BookingID   string `json:"booking_id"`
	ClientID    string `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Site        string `json:"site"`
	Address     string `json:"address"`
	HoldStart   string `json:"hold_start"`
	HoldEnd     string `json:"hold_end"`
}

func reminderKind(eventType string) string {
	if strings.Contains(eventType, "pickup") {
		return "pickup"
	}
	return "delivery"
}

// buildMessage renders the customer-facing reminder in Portuguese, since
// the operation and its clients are Brazilian.
func buildMessage(kind string, p reminderPayload) (subject string, body string) {
	name := strings.TrimSpace(p.ClientName)
	if name == "" {
		name = "cliente"
	}
	when := p.HoldStart
	action := "a entrega dos climatizadores"
	subject = "Lembrete de entrega - " + p.Site
	if kind == "pickup" {
		when = p.HoldEnd
		action = "a retirada dos climatizadores"
		subject = "Lembrete de retirada - " + p.Site
	}
	if t, err := time.Parse(time.RFC3339, when); err == nil {
		when = t.Format("02/01/2006 15:04")
	}
	body = fmt.Sprintf("Olá %s, %s do evento %s está prevista para %s.", name, action, p.Site, when)
	if addr := strings.TrimSpace(p.Address); addr != "" {
		body += " Endereço: " + addr + "."
	}
	return subject, body
}

func writeOutboxSent(ctx context.Context, pool *db.Pool, outboxRepo *outbox.Repository, kind string, p reminderPayload, channel string, providerID string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if strings.TrimSpace(providerID) == "" {
		providerID = "unknown"
	}
	eventPayload, err := json.Marshal(map[string]any{
		"booking_id":  p.BookingID,
		"client_id":   p.ClientID,
		"kind":        kind,
		"channel":     channel,
		"provider_id": providerID,
		"sent_at":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	if err := outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "notification",
		AggregateID:   p.BookingID,
		EventType:     outbox.EventNotificationSent,
		Payload:       eventPayload,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func writeOutboxFailed(ctx context.Context, pool *db.Pool, outboxRepo *outbox.Repository, kind string, p reminderPayload, channel string, reason string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	eventPayload, err := json.Marshal(map[string]any{
		"booking_id":   p.BookingID,
		"client_id":    p.ClientID,
		"kind":         kind,
		"channel":      channel,
		"error_reason": reason,
		"failed_at":    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	if err := outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "notification",
		AggregateID:   p.BookingID,
		EventType:     outbox.EventNotificationFailed,
		Payload:       eventPayload,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func main() {
	service := config.String("SERVICE_NAME", "notification-service")
	port, err := config.Port("PORT", "8081")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext(context.Background())
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	inboxRepo := inbox.NewRepository(pool)
	notificationsRepo := storage.NewRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	smtpHost := config.String("SMTP_HOST", "mailpit")
	smtpPort := config.String("SMTP_PORT", "1025")
	smtpFrom := config.String("SMTP_FROM", "no-reply@climatize.local")
	emailSender := email.NewSMTPSender(smtpHost, smtpPort, smtpFrom)
	emailProviderID := "smtp"

	smsProvider := strings.ToLower(config.String("SMS_PROVIDER", "noop"))
	smsWebhookURL := config.String("SMS_WEBHOOK_URL", "")
	smsWebhookToken := config.String("SMS_WEBHOOK_TOKEN", "")
	var smsSender sms.Sender
	switch smsProvider {
	case "noop":
		smsSender = sms.NewNoopSender()
	default:
		smsSender = sms.NewWebhookSender(smsWebhookURL, smsWebhookToken)
	}

	handleReminder := func(ctx context.Context, msg kafka.Message) error {
		var payload reminderPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid reminder payload", "err", err)
			return nil
		}
		if payload.BookingID == "" || payload.ClientID == "" {
			logger.Error("missing reminder fields", "topic", msg.Topic)
			return nil
		}

		kind := reminderKind(kafkax.ExtractEventMeta(msg).EventType)
		subject, body := buildMessage(kind, payload)

		channel := ""
		recipient := ""
		switch {
		case strings.TrimSpace(payload.ClientEmail) != "":
			channel = "email"
			recipient = strings.TrimSpace(payload.ClientEmail)
		case strings.TrimSpace(payload.ClientPhone) != "":
			channel = "sms"
			recipient = strings.TrimSpace(payload.ClientPhone)
		}

		status := "sent"
		failureReason := ""
		providerID := ""
		switch channel {
		case "email":
			if err := emailSender.Send(recipient, subject, body); err != nil {
				status = "failed"
				failureReason = err.Error()
				logger.Error("email send failed", "err", err, "recipient", recipient)
			} else {
				providerID = emailProviderID
			}
		case "sms":
			if err := smsSender.Send(ctx, recipient, body); err != nil {
				status = "failed"
				failureReason = err.Error()
				logger.Error("sms send failed", "err", err, "recipient", recipient)
			} else {
				providerID = smsSender.ProviderID()
			}
		default:
			status = "failed"
			failureReason = "client has no contact details"
			logger.Error("no contact details", "booking_id", payload.BookingID, "client_id", payload.ClientID)
		}

		if err := notificationsRepo.Insert(ctx, storage.Notification{
			BookingID: payload.BookingID,
			ClientID:  payload.ClientID,
			Kind:      kind,
			Channel:   channel,
			Recipient: recipient,
			Payload:   map[string]any{"subject": subject, "body": body, "site": payload.Site},
			Status:    status,
		}); err != nil {
			logger.Error("failed to persist notification", "err", err)
			return err
		}

		if status == "failed" {
			if err := writeOutboxFailed(ctx, pool, outboxRepo, kind, payload, channel, failureReason); err != nil {
				logger.Error("failed to enqueue notification.failed", "err", err)
				return err
			}
		} else {
			if err := writeOutboxSent(ctx, pool, outboxRepo, kind, payload, channel, providerID); err != nil {
				logger.Error("failed to enqueue notification.sent", "err", err)
				return err
			}
		}

		logger.Info("reminder processed", "booking_id", payload.BookingID, "kind", kind, "channel", channel, "status", status)
		return nil
	}

	startConsumer := func(topic string) {
		if strings.TrimSpace(topic) == "" {
			return
		}
		eventConsumer := consumer.New(logger, inboxRepo, consumer.Config{
			Brokers: config.String("KAFKA_BROKERS", ""),
			GroupID: config.String("KAFKA_GROUP_ID", "notification-service"),
			Topic:   topic,
		}, handleReminder)
		go eventConsumer.Run(ctx)
	}

	startConsumer(config.String("KAFKA_CONSUME_TOPIC", "rental.reminder.delivery.due.v1"))
	startConsumer(config.String("KAFKA_CONSUME_TOPIC_2", "rental.reminder.pickup.due.v1"))

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "notification")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
