package fake

import (
	"io"
	"testing"
)

func TestEventSource(t *testing.T) {
	src := NewEventSource(1, 10000)

	for i := 0; i < 10000; i++ {
		ev, err := src.Record()
		if err != nil {
			t.Fatalf("unexpected error on rec %d: %v", i, err)
		}
		if ev == nil {
			t.Fatalf("unexpected nil event")
		}
		evm, ok := ev.(map[string]interface{})
		if !ok {
			t.Fatalf("expected map[string]interface{} but got %T", ev)
		}
		if _, ok := evm["ts"].(float64); !ok {
			t.Fatalf("record %d missing numeric ts: %v", i, evm)
		}
	}
	ev, err := src.Record()
	if err != io.EOF {
		t.Fatalf("should get EOF after 10k records, but %v", err)
	}
	if ev != nil {
		t.Fatalf("should have nil event after 10k records, but got %v", ev)
	}
}

func TestCatalogSource(t *testing.T) {
	src := NewCatalogSource(1)

	n := 0
	var rec interface{}
	var err error
	for rec, err = src.Record(); err == nil; rec, err = src.Record() {
		recm, ok := rec.(map[string]interface{})
		if !ok {
			t.Fatalf("expected map[string]interface{} but got %T", rec)
		}
		if _, ok := recm["song_id"].(string); !ok {
			t.Fatalf("record missing song_id: %v", recm)
		}
		n++
	}
	if err != io.EOF {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(NewGenerator(1).Catalog()) {
		t.Fatalf("wrong number of catalog records: %d", n)
	}
}
