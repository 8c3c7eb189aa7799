package entity

import (
	"time"

	"spotshare/core/entity"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking. Transitions:
//
//	pending -> paid_wait_admin        (customer marks paid)
//	paid_wait_admin -> confirmed      (admin confirms the payment)
//	paid_wait_admin -> pending        (admin declines the payment claim)
//	pending|paid_wait_admin -> rejected (admin rejects the request)
//	confirmed -> completed            (end time passes)
//	any non-terminal -> cancelled     (customer cancels)
type BookingStatus string

const (
	StatusPending       BookingStatus = "pending"
	StatusPaidWaitAdmin BookingStatus = "paid_wait_admin"
	StatusConfirmed     BookingStatus = "confirmed"
	StatusCompleted     BookingStatus = "completed"
	StatusRejected      BookingStatus = "rejected"
	StatusCancelled     BookingStatus = "cancelled"
)

// ActiveStatuses are the states that hold a slot and count against the
// customer's active-booking cap.
var ActiveStatuses = []BookingStatus{StatusPending, StatusPaidWaitAdmin, StatusConfirmed}

// RejectableStatuses are the states an admin may reject from.
var RejectableStatuses = []BookingStatus{StatusPending, StatusPaidWaitAdmin}

func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// ConfirmOutcome reports what a confirm attempt did. Confirmation is a
// single conditional update, so N concurrent attempts on one booking yield
// exactly one Applied.
type ConfirmOutcome string

const (
	ConfirmApplied          ConfirmOutcome = "applied"
	ConfirmAlreadyConfirmed ConfirmOutcome = "already_confirmed"
	ConfirmNotPaid          ConfirmOutcome = "not_paid"
)

type Booking struct {
	Reference   string        `json:"reference" db:"reference"`
	CustomerID  uuid.UUID     `json:"customer_id" db:"customer_id"`
	SpotID      uuid.UUID     `json:"spot_id" db:"spot_id"`
	SlotID      uuid.UUID     `json:"slot_id" db:"slot_id"`
	StartTime   time.Time     `json:"start_time" db:"start_time"`
	EndTime     time.Time     `json:"end_time" db:"end_time"`
	TotalPrice  int           `json:"total_price" db:"total_price"`
	Status      BookingStatus `json:"status" db:"status"`
	PaidAt      *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty" db:"confirmed_at"`
	entity.BaseEntity
}

// BookingListing is a booking joined with its spot for list views.
type BookingListing struct {
	Booking
	SpotLabel  string    `json:"spot_label" db:"spot_label"`
	SupplierID uuid.UUID `json:"supplier_id" db:"supplier_id"`
}

// BookingStats is the admin aggregate view.
type BookingStats struct {
	Total        int `json:"total" db:"total"`
	Pending      int `json:"pending" db:"pending"`
	AwaitingPay  int `json:"awaiting_confirmation" db:"awaiting_confirmation"`
	Confirmed    int `json:"confirmed" db:"confirmed"`
	Completed    int `json:"completed" db:"completed"`
	Cancelled    int `json:"cancelled" db:"cancelled"`
	Rejected     int `json:"rejected" db:"rejected"`
	TotalRevenue int `json:"total_revenue" db:"total_revenue"`
}
