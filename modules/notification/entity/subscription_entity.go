package entity

import (
	"time"

	"spotshare/core/entity"
	availentity "spotshare/modules/availability/entity"

	"github.com/google/uuid"
)

// SlotSubscription is a standing request to be told when a matching slot
// shows up. DesiredDate nil means any date. A subscription fires at most
// once: it is deactivated in the same delivery that creates the
// notification.
type SlotSubscription struct {
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	DesiredDate *time.Time `db:"desired_date" json:"desired_date,omitempty"`
	Active      bool       `db:"active" json:"active"`
	entity.BaseEntity
}

// Matches reports whether a freed slot satisfies this subscription. A dated
// subscription matches when the slot's interval touches that calendar day.
func (s *SlotSubscription) Matches(interval availentity.Interval) bool {
	if !s.Active {
		return false
	}
	if s.DesiredDate == nil {
		return true
	}
	return interval.CoversDate(*s.DesiredDate)
}
