package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/clinic-booking-service/internal/config"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/in"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
)

// AppointmentListener слушает события о записях из системы клиники и сбрасывает
// кэш ленты затронутого врача: занятость его слотов поменял другой клиент.
type AppointmentListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.BookingUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

type EventResourceType string

const (
	EventResourceTypeAppointment EventResourceType = "appointment"
)

type EventRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType EventResourceType
	Action       string
}

// AppointmentEventMessage - тело события: какой врач затронут.
type AppointmentEventMessage struct {
	DoctorID      uuid.UUID `json:"doctor_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
}

func NewAppointmentListener(useCase in.BookingUseCase, cfg *config.Config, logger out.LoggerPort) (*AppointmentListener, error) {
	if !cfg.RabbitMq.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMq.AmqpUri)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMq.AmqpUri,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &AppointmentListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *AppointmentListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.AppointmentQueueName,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMq.QueueConfig.AppointmentQueueBind,
		l.cfg.RabbitMq.QueueConfig.AppointmentQueueExchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := l.processAppointmentMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	l.logger.Info("appointment.queue.started", out.LogFields{
		"queue": queue.Name,
	})

	return nil
}

func (l *AppointmentListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// Пример routingKey:
// clinic.booking-svc.appointment.created
// clinic.booking-svc.appointment.deleted
func (l *AppointmentListener) parseEventRoutingKey(msg amqp.Delivery) (EventRoutingKey, error) {
	routingKey := msg.RoutingKey
	parts := strings.Split(routingKey, ".")

	if len(parts) < 4 {
		return EventRoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return EventRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: EventResourceType(parts[2]),
		Action:       parts[3],
	}, nil
}

func (l *AppointmentListener) processAppointmentMessage(ctx context.Context, msg amqp.Delivery) error {
	eventRoutingKey, err := l.parseEventRoutingKey(msg)
	if err != nil {
		return err
	}

	if eventRoutingKey.ResourceType != EventResourceTypeAppointment {
		return nil
	}

	var msgJson AppointmentEventMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		return err
	}

	l.logger.Info("appointment.message.received", out.LogFields{
		"action":        eventRoutingKey.Action,
		"doctorId":      msgJson.DoctorID,
		"appointmentId": msgJson.AppointmentID,
	})

	// Любое событие по записи меняет занятость слотов врача
	l.useCase.InvalidateFeed(ctx, msgJson.DoctorID)

	return nil
}
