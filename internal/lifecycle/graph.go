package lifecycle

import (
	"design_portal/internal/models"
	"design_portal/internal/status"
)

// orderTransitions lists the legal forward edges of the order lifecycle.
// Cancellation and service stop are handled separately: any non-terminal
// status may move to OrderCancelled or StopService.
var orderTransitions = map[status.OrderStatus][]status.OrderStatus{
	status.OrderPending: {
		status.OrderConsultingAndSketching,
	},
	status.OrderConsultingAndSketching: {
		status.OrderReConsultingAndSketching,
		status.OrderDeterminingDesignPrice,
	},
	status.OrderReConsultingAndSketching: {
		status.OrderConsultingAndSketching,
	},
	status.OrderDeterminingDesignPrice: {
		status.OrderReDeterminingDesignPrice,
		status.OrderDoneDeterminingDesignPrice,
	},
	status.OrderReDeterminingDesignPrice: {
		status.OrderDeterminingDesignPrice,
		status.OrderDoneDeterminingDesignPrice,
	},
	status.OrderDoneDeterminingDesignPrice: {
		status.OrderWaitDeposit,
	},
	status.OrderWaitDeposit: {
		status.OrderDepositSuccessful,
	},
	status.OrderDepositSuccessful: {
		status.OrderAssignToDesigner,
	},
	status.OrderAssignToDesigner: {
		status.OrderDeterminingMaterialPrice,
	},
	status.OrderDeterminingMaterialPrice: {
		status.OrderDoneDesign,
	},
	status.OrderDoneDesign: {
		status.OrderReDesign,
		status.OrderDoneDeterminingMaterialPrice,
	},
	status.OrderReDesign: {
		status.OrderDoneDesign,
	},
	status.OrderDoneDeterminingMaterialPrice: {
		status.OrderPaymentSuccess,
	},
	status.OrderPaymentSuccess: {
		status.OrderProcessing,
	},
	status.OrderProcessing: {
		status.OrderPickedPackageAndDelivery,
	},
	status.OrderPickedPackageAndDelivery: {
		status.OrderDeliveryFail,
		status.OrderDeliveredSuccessfully,
	},
	status.OrderDeliveryFail: {
		status.OrderReDelivery,
	},
	status.OrderReDelivery: {
		status.OrderDeliveredSuccessfully,
		status.OrderDeliveryFail,
	},
	status.OrderDeliveredSuccessfully: {
		status.OrderCompleteOrder,
	},
}

// OrderEdgeAllowed reports whether the order graph contains the edge.
func OrderEdgeAllowed(from, to status.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == status.OrderCancelled || to == status.OrderStopService {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedOrderTargets returns every status reachable in one transition.
func AllowedOrderTargets(from status.OrderStatus) []status.OrderStatus {
	if from.Terminal() {
		return nil
	}
	out := append([]status.OrderStatus{}, orderTransitions[from]...)
	return append(out, status.OrderCancelled, status.OrderStopService)
}

// complaintCommon holds the edges shared by both complaint variants.
var complaintCommon = map[status.ComplaintStatus][]status.ComplaintStatus{
	status.ComplaintPending: {
		status.ComplaintApproved,
		status.ComplaintRejected,
	},
	status.ComplaintApproved: {
		status.ComplaintItemArrivedAtWarehouse,
	},
	status.ComplaintItemArrivedAtWarehouse: {
		status.ComplaintProcessing,
		status.ComplaintRejected,
	},
}

// Per-variant continuations past Processing. A ProductReturn never reaches
// Refunded; a Refund never reaches Delivery or Delivered.
var complaintByType = map[models.ComplaintType]map[status.ComplaintStatus][]status.ComplaintStatus{
	models.ComplaintProductReturn: {
		status.ComplaintProcessing: {status.ComplaintDelivery},
		status.ComplaintDelivery:   {status.ComplaintDelivered},
		status.ComplaintDelivered:  {status.ComplaintComplete},
	},
	models.ComplaintRefund: {
		status.ComplaintProcessing: {status.ComplaintRefunded},
		status.ComplaintRefunded:   {status.ComplaintComplete},
	},
}

// ComplaintEdgeAllowed reports whether the variant's graph contains the edge.
func ComplaintEdgeAllowed(t models.ComplaintType, from, to status.ComplaintStatus) bool {
	if from.Terminal() {
		return false
	}
	for _, next := range complaintCommon[from] {
		if next == to {
			return true
		}
	}
	for _, next := range complaintByType[t][from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedComplaintTargets returns every status reachable in one transition
// for the given complaint variant.
func AllowedComplaintTargets(t models.ComplaintType, from status.ComplaintStatus) []status.ComplaintStatus {
	if from.Terminal() {
		return nil
	}
	out := append([]status.ComplaintStatus{}, complaintCommon[from]...)
	return append(out, complaintByType[t][from]...)
}
