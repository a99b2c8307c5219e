package status

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ComplaintStatus is the lifecycle stage of a complaint. Dual-encoded on the
// wire the same way as OrderStatus.
type ComplaintStatus int

const (
	ComplaintPending ComplaintStatus = iota
	ComplaintApproved
	ComplaintRejected
	ComplaintItemArrivedAtWarehouse
	ComplaintProcessing
	ComplaintRefunded
	ComplaintDelivery
	ComplaintDelivered
	ComplaintComplete
)

var complaintInfos = []Info{
	{int(ComplaintPending), "Pending", "Chờ xử lý", "default"},
	{int(ComplaintApproved), "Approved", "Đã duyệt", "cyan"},
	{int(ComplaintRejected), "Rejected", "Từ chối", "red"},
	{int(ComplaintItemArrivedAtWarehouse), "ItemArrivedAtWarehouse", "Hàng đã về kho", "processing"},
	{int(ComplaintProcessing), "Processing", "Đang xử lý", "processing"},
	{int(ComplaintRefunded), "Refunded", "Đã hoàn tiền", "green"},
	{int(ComplaintDelivery), "Delivery", "Đang giao hàng", "processing"},
	{int(ComplaintDelivered), "Delivered", "Đã giao hàng", "green"},
	{int(ComplaintComplete), "Complete", "Hoàn tất", "green"},
}

var complaintByName = func() map[string]ComplaintStatus {
	m := make(map[string]ComplaintStatus, len(complaintInfos))
	for _, in := range complaintInfos {
		m[in.Name] = ComplaintStatus(in.Code)
	}
	return m
}()

// ComplaintStatusTable returns the full complaint status table, in code order.
func ComplaintStatusTable() []Info {
	out := make([]Info, len(complaintInfos))
	copy(out, complaintInfos)
	return out
}

func (s ComplaintStatus) Valid() bool {
	return s >= ComplaintPending && s <= ComplaintComplete
}

func (s ComplaintStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("ComplaintStatus(%d)", int(s))
	}
	return complaintInfos[int(s)].Name
}

func (s ComplaintStatus) Label() string {
	if !s.Valid() {
		return ""
	}
	return complaintInfos[int(s)].Label
}

// Terminal reports whether no further transition may leave the status.
func (s ComplaintStatus) Terminal() bool {
	return s == ComplaintComplete || s == ComplaintRejected
}

// ParseComplaintStatus decodes either wire encoding, numeric code or name.
func ParseComplaintStatus(v interface{}) (ComplaintStatus, error) {
	switch t := v.(type) {
	case ComplaintStatus:
		if t.Valid() {
			return t, nil
		}
	case int:
		if s := ComplaintStatus(t); s.Valid() {
			return s, nil
		}
	case float64:
		if s := ComplaintStatus(int(t)); s.Valid() && float64(int(t)) == t {
			return s, nil
		}
	case string:
		if s, ok := complaintByName[t]; ok {
			return s, nil
		}
		if n, err := strconv.Atoi(t); err == nil {
			if s := ComplaintStatus(n); s.Valid() {
				return s, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown complaint status %v", v)
}

func (s ComplaintStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid complaint status %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *ComplaintStatus) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseComplaintStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
