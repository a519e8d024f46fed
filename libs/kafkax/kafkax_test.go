package kafkax

import (
	"context"
	"reflect"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestExtractEventMetaFallsBackToKeyAndTopic(t *testing.T) {
	msg := kafka.Message{
		Topic: "rental.booking.created.v1",
		Key:   []byte("booking-1"),
	}
	meta := ExtractEventMeta(msg)
	if meta.EventID != "booking-1" || meta.EventType != "rental.booking.created.v1" {
		t.Fatalf("meta = %+v", meta)
	}

	msg.Headers = []kafka.Header{
		{Key: HeaderEventID, Value: []byte("evt-42")},
		{Key: HeaderEventType, Value: []byte("rental.booking.canceled.v1")},
	}
	meta = ExtractEventMeta(msg)
	if meta.EventID != "evt-42" || meta.EventType != "rental.booking.canceled.v1" {
		t.Fatalf("meta with headers = %+v", meta)
	}
}

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092, kafka-2:9092 ,")
	want := []string{"kafka-1:9092", "kafka-2:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitBrokers = %v, want %v", got, want)
	}
	if out := SplitBrokers(""); out != nil {
		t.Fatalf("SplitBrokers(\"\") = %v, want nil", out)
	}
}

func TestInjectTraceHeadersAppends(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := InjectTraceHeaders(ctx, []kafka.Header{{Key: HeaderEventID, Value: []byte("evt-1")}})
	if HeaderValue(headers, "traceparent") == "" {
		t.Fatal("traceparent header not appended")
	}
	if HeaderValue(headers, HeaderEventID) != "evt-1" {
		t.Fatal("existing header lost during inject")
	}

	restored := ExtractTraceContext(context.Background(), kafka.Message{Headers: headers})
	if got := trace.SpanContextFromContext(restored).TraceID(); got != sc.TraceID() {
		t.Fatalf("trace id round trip = %s, want %s", got, sc.TraceID())
	}
}
