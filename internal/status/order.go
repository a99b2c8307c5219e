package status

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// OrderStatus is the lifecycle stage of a service order. The backend
// historically emits both the numeric code and the string name; both decode
// to the same value here and nothing outside this package looks at the raw
// wire form.
type OrderStatus int

const (
	OrderPending OrderStatus = iota
	OrderConsultingAndSketching
	OrderReConsultingAndSketching
	OrderDeterminingDesignPrice
	OrderReDeterminingDesignPrice
	OrderDoneDeterminingDesignPrice
	OrderWaitDeposit
	OrderDepositSuccessful
	OrderAssignToDesigner
	OrderDeterminingMaterialPrice
	OrderDoneDesign
	OrderReDesign
	OrderDoneDeterminingMaterialPrice
	OrderPaymentSuccess
	OrderProcessing
	OrderPickedPackageAndDelivery
	OrderDeliveryFail
	OrderReDelivery
	OrderDeliveredSuccessfully
	OrderCompleteOrder
	OrderCancelled
	OrderStopService
)

// Info is one row of the status table served to the UI. The tables in this
// package are the single source of truth for codes, names, labels and colors.
type Info struct {
	Code      int    `json:"code"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	ColorHint string `json:"colorHint"`
}

var orderInfos = []Info{
	{int(OrderPending), "Pending", "Chờ xác nhận", "default"},
	{int(OrderConsultingAndSketching), "ConsultingAndSketching", "Tư vấn & phác thảo", "processing"},
	{int(OrderReConsultingAndSketching), "ReConsultingAndSketching", "Phác thảo lại", "warning"},
	{int(OrderDeterminingDesignPrice), "DeterminingDesignPrice", "Định giá thiết kế", "processing"},
	{int(OrderReDeterminingDesignPrice), "ReDeterminingDesignPrice", "Định giá thiết kế lại", "warning"},
	{int(OrderDoneDeterminingDesignPrice), "DoneDeterminingDesignPrice", "Đã định giá thiết kế", "cyan"},
	{int(OrderWaitDeposit), "WaitDeposit", "Chờ đặt cọc", "gold"},
	{int(OrderDepositSuccessful), "DepositSuccessful", "Đã đặt cọc", "green"},
	{int(OrderAssignToDesigner), "AssignToDesigner", "Đã giao cho nhà thiết kế", "processing"},
	{int(OrderDeterminingMaterialPrice), "DeterminingMaterialPrice", "Định giá vật liệu", "processing"},
	{int(OrderDoneDesign), "DoneDesign", "Hoàn tất thiết kế", "cyan"},
	{int(OrderReDesign), "ReDesign", "Thiết kế lại", "warning"},
	{int(OrderDoneDeterminingMaterialPrice), "DoneDeterminingMaterialPrice", "Đã định giá vật liệu", "cyan"},
	{int(OrderPaymentSuccess), "PaymentSuccess", "Đã thanh toán", "green"},
	{int(OrderProcessing), "Processing", "Đang gia công", "processing"},
	{int(OrderPickedPackageAndDelivery), "PickedPackageAndDelivery", "Đang giao hàng", "processing"},
	{int(OrderDeliveryFail), "DeliveryFail", "Giao hàng thất bại", "red"},
	{int(OrderReDelivery), "ReDelivery", "Giao lại", "warning"},
	{int(OrderDeliveredSuccessfully), "DeliveredSuccessfully", "Đã giao hàng", "green"},
	{int(OrderCompleteOrder), "CompleteOrder", "Hoàn tất đơn hàng", "green"},
	{int(OrderCancelled), "OrderCancelled", "Đã hủy", "red"},
	{int(OrderStopService), "StopService", "Ngừng dịch vụ", "red"},
}

var orderByName = func() map[string]OrderStatus {
	m := make(map[string]OrderStatus, len(orderInfos))
	for _, in := range orderInfos {
		m[in.Name] = OrderStatus(in.Code)
	}
	return m
}()

// OrderStatusTable returns the full order status table, in code order.
func OrderStatusTable() []Info {
	out := make([]Info, len(orderInfos))
	copy(out, orderInfos)
	return out
}

func (s OrderStatus) Valid() bool {
	return s >= OrderPending && s <= OrderStopService
}

func (s OrderStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
	return orderInfos[int(s)].Name
}

// Label returns the human-readable label for the status.
func (s OrderStatus) Label() string {
	if !s.Valid() {
		return ""
	}
	return orderInfos[int(s)].Label
}

// Terminal reports whether no further transition may leave the status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderCompleteOrder, OrderCancelled, OrderStopService:
		return true
	}
	return false
}

// ParseOrderStatus decodes either historical wire encoding: the numeric code
// (as int, float64 or digit string) or the string name.
func ParseOrderStatus(v interface{}) (OrderStatus, error) {
	switch t := v.(type) {
	case OrderStatus:
		if t.Valid() {
			return t, nil
		}
	case int:
		if s := OrderStatus(t); s.Valid() {
			return s, nil
		}
	case float64:
		if s := OrderStatus(int(t)); s.Valid() && float64(int(t)) == t {
			return s, nil
		}
	case string:
		if s, ok := orderByName[t]; ok {
			return s, nil
		}
		if n, err := strconv.Atoi(t); err == nil {
			if s := OrderStatus(n); s.Valid() {
				return s, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown order status %v", v)
}

// MarshalJSON emits the canonical string name.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid order status %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
