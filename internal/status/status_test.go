package status

import (
	"encoding/json"
	"testing"
)

func TestParseOrderStatus_DualEncoding(t *testing.T) {
	cases := []struct {
		in   interface{}
		want OrderStatus
	}{
		{"DepositSuccessful", OrderDepositSuccessful},
		{float64(7), OrderDepositSuccessful},
		{int(7), OrderDepositSuccessful},
		{"7", OrderDepositSuccessful},
		{"Pending", OrderPending},
		{"OrderCancelled", OrderCancelled},
		{float64(0), OrderPending},
	}
	for _, tc := range cases {
		got, err := ParseOrderStatus(tc.in)
		if err != nil {
			t.Fatalf("parse %v: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %v: got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseOrderStatus_Unknown(t *testing.T) {
	for _, in := range []interface{}{"NotAStatus", float64(99), float64(7.5), nil, true} {
		if _, err := ParseOrderStatus(in); err == nil {
			t.Fatalf("expected error for %v", in)
		}
	}
}

func TestOrderStatusJSONRoundTrip(t *testing.T) {
	for _, info := range OrderStatusTable() {
		s := OrderStatus(info.Code)
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal %v: %v", s, err)
		}
		var back OrderStatus
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != s {
			t.Fatalf("round trip %v: got %v", s, back)
		}
	}
	// numeric wire form decodes too
	var s OrderStatus
	if err := json.Unmarshal([]byte("7"), &s); err != nil {
		t.Fatalf("unmarshal numeric: %v", err)
	}
	if s != OrderDepositSuccessful {
		t.Fatalf("numeric decode: got %v", s)
	}
}

func TestOrderStatusTableComplete(t *testing.T) {
	table := OrderStatusTable()
	if len(table) != int(OrderStopService)+1 {
		t.Fatalf("table has %d rows, want %d", len(table), int(OrderStopService)+1)
	}
	seen := make(map[string]bool)
	for i, info := range table {
		if info.Code != i {
			t.Fatalf("row %d has code %d", i, info.Code)
		}
		if info.Name == "" || info.Label == "" || info.ColorHint == "" {
			t.Fatalf("row %d incomplete: %+v", i, info)
		}
		if seen[info.Name] {
			t.Fatalf("duplicate name %s", info.Name)
		}
		seen[info.Name] = true
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminals := map[OrderStatus]bool{
		OrderCompleteOrder: true,
		OrderCancelled:     true,
		OrderStopService:   true,
	}
	for _, info := range OrderStatusTable() {
		s := OrderStatus(info.Code)
		if s.Terminal() != terminals[s] {
			t.Fatalf("%v terminal = %v", s, s.Terminal())
		}
	}
}

func TestParseComplaintStatus_DualEncoding(t *testing.T) {
	cases := []struct {
		in   interface{}
		want ComplaintStatus
	}{
		{"ItemArrivedAtWarehouse", ComplaintItemArrivedAtWarehouse},
		{float64(3), ComplaintItemArrivedAtWarehouse},
		{"Refunded", ComplaintRefunded},
		{"0", ComplaintPending},
	}
	for _, tc := range cases {
		got, err := ParseComplaintStatus(tc.in)
		if err != nil {
			t.Fatalf("parse %v: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %v: got %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseComplaintStatus("Bogus"); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

func TestComplaintStatusTableComplete(t *testing.T) {
	table := ComplaintStatusTable()
	if len(table) != int(ComplaintComplete)+1 {
		t.Fatalf("table has %d rows, want %d", len(table), int(ComplaintComplete)+1)
	}
	for i, info := range table {
		if info.Code != i {
			t.Fatalf("row %d has code %d", i, info.Code)
		}
		if info.Name == "" || info.Label == "" {
			t.Fatalf("row %d incomplete: %+v", i, info)
		}
	}
}
