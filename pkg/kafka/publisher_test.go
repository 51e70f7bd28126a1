package kafka

import (
	"context"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/airtime-lab/backend/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true

	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		require.Equal(t, `{"draw_id":"1"}`, string(val))
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := &publisher{clientID: "test", producer: producer}
	err := p.Publish(context.Background(), "draw_winner", &pubsub.Pack{Key: []byte("1"), Msg: []byte(`{"draw_id":"1"}`)})
	require.NoError(t, err)

	err = p.Publish(context.Background(), "draw_winner", &pubsub.Pack{Key: []byte("2"), Msg: []byte(`{}`)})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, p.Stop(context.Background()))
}
