package rabbitmq

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventRoutingKey(t *testing.T) {
	listener := &AppointmentListener{}

	key, err := listener.parseEventRoutingKey(amqp.Delivery{
		RoutingKey: "clinic.booking-svc.appointment.created",
	})
	require.NoError(t, err)

	assert.Equal(t, "clinic", key.Source)
	assert.Equal(t, "booking-svc", key.Receiver)
	assert.Equal(t, EventResourceTypeAppointment, key.ResourceType)
	assert.Equal(t, "created", key.Action)
}

func TestParseEventRoutingKey_TooShort(t *testing.T) {
	listener := &AppointmentListener{}

	_, err := listener.parseEventRoutingKey(amqp.Delivery{
		RoutingKey: "clinic.appointment",
	})
	assert.Error(t, err)
}
