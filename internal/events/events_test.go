package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ got []LessonEvent }

func (r *recorder) Publish(_ context.Context, ev LessonEvent) error {
	r.got = append(r.got, ev)
	return nil
}

func TestForwardDecodesChannelPayload(t *testing.T) {
	ev := LessonEvent{
		Type:      LessonUpdated,
		LessonIDs: []uint{4},
		Day:       2,
		Pair:      3,
		GroupIDs:  []uint{1, 7},
		At:        time.Date(2025, time.October, 6, 9, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"event_type":"lesson_updated"`)

	sink := &recorder{}
	require.NoError(t, Forward(context.Background(), payload, sink))
	require.Len(t, sink.got, 1)
	assert.Equal(t, ev, sink.got[0])
}

func TestForwardRejectsGarbage(t *testing.T) {
	sink := &recorder{}
	assert.Error(t, Forward(context.Background(), []byte("not json"), sink))
	assert.Empty(t, sink.got)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), LessonEvent{Type: LessonDeleted}))
}
