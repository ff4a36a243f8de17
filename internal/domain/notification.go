package domain

import "time"

type NotificationType string

const (
	NotifOverstay           NotificationType = "overstay_detected"
	NotifReservationExpired NotificationType = "reservation_expired"
	NotifReservationCreated NotificationType = "reservation_created"
	NotifCheckout           NotificationType = "checkout_completed"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id" gorm:"index"`
	Type      NotificationType `json:"type" gorm:"size:64"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty" gorm:"type:text"`
	Data      []byte           `json:"data,omitempty"`
	IsRead    bool             `json:"is_read" gorm:"index"`
	CreatedAt time.Time        `json:"created_at"`
}
