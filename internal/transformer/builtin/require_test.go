package builtin

import (
	"testing"

	"salesetl/pkg/records"
)

func TestRequire(t *testing.T) {
	in := []records.Record{
		{"customer_id": "17850", "invoice_no": "536365"},
		{"customer_id": nil, "invoice_no": "536366"},
		{"invoice_no": "536367"},
		{"customer_id": "", "invoice_no": "536368"},
		{"customer_id": "13047", "invoice_no": "536369"},
	}

	var dropped int
	out := Require{Fields: []string{"customer_id"}, Dropped: &dropped}.Apply(in)

	if len(out) != 2 {
		t.Fatalf("kept %d records, want 2", len(out))
	}
	if dropped != 3 {
		t.Fatalf("dropped = %d, want 3", dropped)
	}
	if out[0]["customer_id"] != "17850" || out[1]["customer_id"] != "13047" {
		t.Fatalf("wrong records kept: %#v", out)
	}
}

func TestRequire_AllPresent(t *testing.T) {
	in := []records.Record{
		{"customer_id": "1", "country": "France"},
		{"customer_id": "2", "country": "Germany"},
	}
	var dropped int
	out := Require{Fields: []string{"customer_id", "country"}, Dropped: &dropped}.Apply(in)
	if len(out) != 2 || dropped != 0 {
		t.Fatalf("kept=%d dropped=%d, want 2/0", len(out), dropped)
	}
}
