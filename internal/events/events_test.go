package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaSink_Emit(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	w := &recordingWriter{}
	sink := &KafkaSink{writer: w, topic: "appointment-events"}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	e := New(AppointmentCreated, uuid.New(), uuid.New(), "New booking", "You have a new booking")
	require.NoError(t, sink.Emit(ctx, e))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, e.AppointmentID.String(), string(msg.Key))
	assert.Equal(t, e.ID.String(), HeaderValue(msg.Headers, "event_id"))
	assert.Equal(t, string(AppointmentCreated), HeaderValue(msg.Headers, "event_type"))
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", HeaderValue(msg.Headers, "traceparent"))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, e.Title, decoded.Title)
}

func TestKafkaSink_WriteFailure(t *testing.T) {
	boom := errors.New("leader not available")
	sink := &KafkaSink{writer: &recordingWriter{err: boom}}

	err := sink.Emit(context.Background(), New(AppointmentCancelled, uuid.New(), uuid.New(), "", ""))
	assert.ErrorIs(t, err, boom)
}

func TestNewKafkaSink_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaSink(" , ", "topic")
	assert.Error(t, err)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, SplitBrokers(" kafka-1:9092, ,kafka-2:9092 "))
	assert.Nil(t, SplitBrokers(""))
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	var got []Type
	record := SinkFunc(func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	boom := errors.New("sink down")
	failing := SinkFunc(func(context.Context, Event) error { return boom })

	m := Multi{record, nil, failing, record}
	err := m.Emit(context.Background(), New(AppointmentReminder, uuid.New(), uuid.New(), "", ""))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []Type{AppointmentReminder, AppointmentReminder}, got)
	assert.NoError(t, Multi{Nop{}}.Emit(context.Background(), Event{}))
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	e := New(AppointmentConfirmed, uuid.New(), uuid.New(), "Confirmed", "")
	require.NoError(t, sink.Emit(context.Background(), e))

	entries := logs.FilterMessage("Event emitted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(AppointmentConfirmed), entries[0].ContextMap()["event_type"])
}
