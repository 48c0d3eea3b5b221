package etl_test

import (
	"testing"

	"github.com/sparkify/etl"
)

func TestNexter(t *testing.T) {
	n := etl.NewNexter()
	if num := n.Next(); num != 0 {
		t.Fatalf("expected 0 for Next, but %d", num)
	}
	if num := n.Next(); num != 1 {
		t.Fatalf("expected 1 for Next, but %d", num)
	}
	if num := n.Last(); num != 1 {
		t.Fatalf("expected 1 for Last, but %d", num)
	}

	n = etl.NewNexter(etl.NexterStartFrom(19))
	if num := n.Next(); num != 19 {
		t.Fatalf("expected 19 for Next, but %d", num)
	}
	if num := n.Last(); num != 19 {
		t.Fatalf("expected 19 for Last, but %d", num)
	}
}
