package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/AlgoRMind/algomind-be/internal/contribution"
	"github.com/AlgoRMind/algomind-be/internal/metrics"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaProducer_SendMessage(t *testing.T) {
	mock := mocks.NewSyncProducer(t, NewKafkaConfig())
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "7" {
			return errors.New("unexpected key " + string(key))
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var event contribution.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		if event.Amount != 25 {
			return errors.New("unexpected amount")
		}
		return nil
	})

	producer := NewKafkaProducerWith(mock, "contributions", metrics.NewMock(), discardLogger())
	defer producer.Close()

	err := producer.SendMessage(context.Background(), "7", contribution.Event{ProjectID: 7, Amount: 25})
	require.NoError(t, err)
}

func TestKafkaProducer_SendMessageFailure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, NewKafkaConfig())
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := NewKafkaProducerWith(mock, "contributions", metrics.NewMock(), discardLogger())
	defer producer.Close()

	err := producer.SendMessage(context.Background(), "1", contribution.Event{ProjectID: 1, Amount: 5})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestNewProducer_Drivers(t *testing.T) {
	p, err := NewProducer(configFor(DriverNone), metrics.NewMock(), discardLogger())
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = NewProducer(configFor("rabbitmq"), metrics.NewMock(), discardLogger())
	assert.Error(t, err)
}
