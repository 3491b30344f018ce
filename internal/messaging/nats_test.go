package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/config"
	"github.com/AlgoRMind/algomind-be/internal/contribution"
	"github.com/AlgoRMind/algomind-be/internal/metrics"
	"github.com/AlgoRMind/algomind-be/testing/testnats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configFor(driver string) config.MessagingConfig {
	return config.MessagingConfig{Driver: driver}
}

func TestNATSProducer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping NATS container test in short mode")
	}

	natsContainer := testnats.SetupSharedNATS(t)
	defer natsContainer.Cleanup(t)

	t.Run("PublishesContributionEvent", func(t *testing.T) {
		conn := natsContainer.Connect(t)
		sub, err := conn.SubscribeSync("contributions.test")
		require.NoError(t, err)
		require.NoError(t, conn.Flush())

		cfg := configFor(DriverNATS)
		cfg.NATS.URL = natsContainer.URL
		cfg.NATS.Subject = "contributions.test"

		producer, err := NewProducer(cfg, metrics.NewMock(), discardLogger())
		require.NoError(t, err)
		defer producer.Close()

		userID := int64(3)
		err = producer.SendMessage(context.Background(), "12", contribution.Event{
			ProjectID:      12,
			UserID:         &userID,
			Amount:         40,
			CurrentFund:    40,
			FundRaiseTotal: 100,
			FundRaiseCount: 1,
		})
		require.NoError(t, err)

		msg, err := sub.NextMsg(5 * time.Second)
		require.NoError(t, err)
		assert.Equal(t, "12", msg.Header.Get(KeyHeader))

		var event contribution.Event
		require.NoError(t, json.Unmarshal(msg.Data, &event))
		assert.Equal(t, int64(12), event.ProjectID)
		assert.Equal(t, int64(40), event.Amount)
		require.NotNil(t, event.UserID)
		assert.Equal(t, int64(3), *event.UserID)
	})
}
