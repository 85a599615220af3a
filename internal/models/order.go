package models

import (
	"slices"
	"time"
)

// OrderStatus is the state of a material order request.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInSearch   OrderStatus = "in_search"
	OrderOrdered    OrderStatus = "ordered"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderRefused    OrderStatus = "refused"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderSequence is the forward path an order follows.
var OrderSequence = []OrderStatus{
	OrderPending, OrderInSearch, OrderOrdered, OrderInProgress, OrderCompleted,
}

var OrderStatuses = []OrderStatus{
	OrderPending, OrderInSearch, OrderOrdered, OrderInProgress,
	OrderCompleted, OrderRefused, OrderCancelled,
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(OrderStatuses, s)
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderRefused || s == OrderCancelled
}

type Order struct {
	ID          string      `json:"id" validate:"required"`
	Title       string      `json:"title" validate:"required,max=256"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Status      OrderStatus `json:"status" validate:"required,oneof=pending in_search ordered in_progress completed refused cancelled"`
	RequestedBy string      `json:"requestedBy" validate:"required"`
	IsUrgent    bool        `json:"isUrgent"`
	ArrivalDate *time.Time  `json:"arrivalDate"`
	Notes       string      `json:"notes"`
}

func (o *Order) Validate() error {
	return validateStruct(o)
}

// OrderPatch holds changes to an existing order. Nil fields are left as is;
// ClearArrivalDate removes a previously set date.
type OrderPatch struct {
	Status           *OrderStatus
	ArrivalDate      *time.Time
	ClearArrivalDate bool
	Notes            *string
}

func (p OrderPatch) Apply(o *Order) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.ClearArrivalDate {
		o.ArrivalDate = nil
	} else if p.ArrivalDate != nil {
		d := *p.ArrivalDate
		o.ArrivalDate = &d
	}
	if p.Notes != nil {
		o.Notes = *p.Notes
	}
}
