package lifecycle

import (
	"testing"

	"design_portal/internal/models"
	"design_portal/internal/status"
)

func TestOrderEdgeAllowed_HappyPath(t *testing.T) {
	path := []status.OrderStatus{
		status.OrderPending,
		status.OrderConsultingAndSketching,
		status.OrderDeterminingDesignPrice,
		status.OrderDoneDeterminingDesignPrice,
		status.OrderWaitDeposit,
		status.OrderDepositSuccessful,
		status.OrderAssignToDesigner,
		status.OrderDeterminingMaterialPrice,
		status.OrderDoneDesign,
		status.OrderDoneDeterminingMaterialPrice,
		status.OrderPaymentSuccess,
		status.OrderProcessing,
		status.OrderPickedPackageAndDelivery,
		status.OrderDeliveredSuccessfully,
		status.OrderCompleteOrder,
	}
	for i := 0; i < len(path)-1; i++ {
		if !OrderEdgeAllowed(path[i], path[i+1]) {
			t.Fatalf("expected %v -> %v to be legal", path[i], path[i+1])
		}
	}
}

func TestOrderEdgeAllowed_RevisionLoops(t *testing.T) {
	cases := []struct {
		from, to status.OrderStatus
	}{
		{status.OrderConsultingAndSketching, status.OrderReConsultingAndSketching},
		{status.OrderReConsultingAndSketching, status.OrderConsultingAndSketching},
		{status.OrderDeterminingDesignPrice, status.OrderReDeterminingDesignPrice},
		{status.OrderReDeterminingDesignPrice, status.OrderDeterminingDesignPrice},
		{status.OrderDoneDesign, status.OrderReDesign},
		{status.OrderReDesign, status.OrderDoneDesign},
		{status.OrderPickedPackageAndDelivery, status.OrderDeliveryFail},
		{status.OrderDeliveryFail, status.OrderReDelivery},
		{status.OrderReDelivery, status.OrderDeliveredSuccessfully},
	}
	for _, tc := range cases {
		if !OrderEdgeAllowed(tc.from, tc.to) {
			t.Fatalf("expected %v -> %v to be legal", tc.from, tc.to)
		}
	}
}

func TestOrderEdgeAllowed_Illegal(t *testing.T) {
	cases := []struct {
		from, to status.OrderStatus
	}{
		{status.OrderPending, status.OrderWaitDeposit},
		{status.OrderWaitDeposit, status.OrderPaymentSuccess},
		{status.OrderDepositSuccessful, status.OrderWaitDeposit},
		{status.OrderCompleteOrder, status.OrderProcessing},
		// terminal states never leave, not even to cancel
		{status.OrderCancelled, status.OrderPending},
		{status.OrderCompleteOrder, status.OrderCancelled},
		{status.OrderStopService, status.OrderCancelled},
	}
	for _, tc := range cases {
		if OrderEdgeAllowed(tc.from, tc.to) {
			t.Fatalf("expected %v -> %v to be illegal", tc.from, tc.to)
		}
	}
}

func TestOrderEdgeAllowed_CancelFromAnyNonTerminal(t *testing.T) {
	for _, info := range status.OrderStatusTable() {
		from := status.OrderStatus(info.Code)
		want := !from.Terminal()
		if OrderEdgeAllowed(from, status.OrderCancelled) != want {
			t.Fatalf("cancel from %v: want %v", from, want)
		}
	}
}

func TestComplaintEdgeAllowed_CommonEdges(t *testing.T) {
	for _, typ := range []models.ComplaintType{models.ComplaintRefund, models.ComplaintProductReturn} {
		cases := []struct {
			from, to status.ComplaintStatus
		}{
			{status.ComplaintPending, status.ComplaintApproved},
			{status.ComplaintPending, status.ComplaintRejected},
			{status.ComplaintApproved, status.ComplaintItemArrivedAtWarehouse},
			{status.ComplaintItemArrivedAtWarehouse, status.ComplaintProcessing},
			{status.ComplaintItemArrivedAtWarehouse, status.ComplaintRejected},
		}
		for _, tc := range cases {
			if !ComplaintEdgeAllowed(typ, tc.from, tc.to) {
				t.Fatalf("%s: expected %v -> %v to be legal", typ, tc.from, tc.to)
			}
		}
	}
}

func TestComplaintEdgeAllowed_ProductReturnNeverRefunded(t *testing.T) {
	for _, info := range status.ComplaintStatusTable() {
		from := status.ComplaintStatus(info.Code)
		if ComplaintEdgeAllowed(models.ComplaintProductReturn, from, status.ComplaintRefunded) {
			t.Fatalf("product return must never reach Refunded (from %v)", from)
		}
	}
	// the return flow continues through delivery instead
	flow := []status.ComplaintStatus{
		status.ComplaintProcessing,
		status.ComplaintDelivery,
		status.ComplaintDelivered,
		status.ComplaintComplete,
	}
	for i := 0; i < len(flow)-1; i++ {
		if !ComplaintEdgeAllowed(models.ComplaintProductReturn, flow[i], flow[i+1]) {
			t.Fatalf("expected %v -> %v for product return", flow[i], flow[i+1])
		}
	}
}

func TestComplaintEdgeAllowed_RefundNeverDelivers(t *testing.T) {
	for _, info := range status.ComplaintStatusTable() {
		from := status.ComplaintStatus(info.Code)
		if ComplaintEdgeAllowed(models.ComplaintRefund, from, status.ComplaintDelivery) {
			t.Fatalf("refund must never reach Delivery (from %v)", from)
		}
		if ComplaintEdgeAllowed(models.ComplaintRefund, from, status.ComplaintDelivered) {
			t.Fatalf("refund must never reach Delivered (from %v)", from)
		}
	}
	if !ComplaintEdgeAllowed(models.ComplaintRefund, status.ComplaintProcessing, status.ComplaintRefunded) {
		t.Fatal("expected Processing -> Refunded for refund complaints")
	}
	if !ComplaintEdgeAllowed(models.ComplaintRefund, status.ComplaintRefunded, status.ComplaintComplete) {
		t.Fatal("expected Refunded -> Complete for refund complaints")
	}
}
