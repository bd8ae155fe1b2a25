package audit

import (
	"context"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

type mockPublisher struct {
	msgs []kafkaGo.Message
	err  error
}

func (p *mockPublisher) WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

type countingSink struct {
	count int
}

func (s *countingSink) Emit(ctx context.Context, events ...model.Event) {
	s.count += len(events)
}

func TestKafkaSink_Emit(t *testing.T) {
	publisher := &mockPublisher{}
	sink := NewKafkaSink(publisher)

	user := model.Identity{7}
	sink.Emit(context.Background(),
		&model.SecurityEvent{Kind: model.SecurityEvent_UserBlacklisted, User: user, Reason: "Added to blacklist by admin", Timestamp: 42},
		&model.TokenClaimEvent{Claimer: user, Amount: 5, Timestamp: 43},
	)
	require.Len(t, publisher.msgs, 2)

	envelope := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(publisher.msgs[0].Value, &envelope))
	assert.Equal(t, "security", envelope["type"])
	assert.Equal(t, float64(42), envelope["timestamp"])
	assert.NotEmpty(t, envelope["id"])

	payload := envelope["payload"].(map[string]interface{})
	assert.Equal(t, "USER_BLACKLISTED", payload["event_type"])
	assert.Equal(t, user.String(), payload["user"])
	assert.Equal(t, partitionKey, publisher.msgs[1].Key)
}

func TestKafkaSink_EmitFailureIsSwallowed(t *testing.T) {
	publisher := &mockPublisher{err: errors.New("broker down")}
	sink := NewKafkaSink(publisher)
	assert.NotPanics(t, func() {
		sink.Emit(context.Background(), &model.TokenBurnEvent{Amount: 1, Description: "fee"})
	})
	assert.Empty(t, publisher.msgs)
}

func TestMulti_Emit(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	Multi{a, LogSink{}, b}.Emit(context.Background(), &model.TokenMintEvent{Amount: 1}, &model.AdminActionEvent{Action: "BLACKLIST_ADD"})
	assert.Equal(t, 2, a.count)
	assert.Equal(t, 2, b.count)
}
