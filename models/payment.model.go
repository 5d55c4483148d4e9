package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentStatus defines the lifecycle of a payment intent
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment is one record per payment-intent attempt. It is created PENDING when
// the intent is requested and moves to COMPLETED/FAILED only via the gateway
// webhook, never by the requester.
type Payment struct {
	gorm.Model
	UserID   uint          `gorm:"index;not null" json:"user_id"`
	Amount   float64       `gorm:"not null" json:"amount"`
	Currency string        `gorm:"type:varchar(10);default:'USD'" json:"currency"`
	Status   PaymentStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	IntentID         string `gorm:"uniqueIndex;not null" json:"intent_id"` // gateway payment-intent id
	StripeCustomerID string `gorm:"type:varchar(100)" json:"-"`

	Description string         `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSON `json:"metadata"`

	IsDeleted bool `gorm:"default:false" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// PaymentPlanType defines how tuition is split
type PaymentPlanType string

const (
	PlanFullPayment    PaymentPlanType = "FULL_PAYMENT"
	PlanMonthly        PaymentPlanType = "MONTHLY"
	PlanSemester       PaymentPlanType = "SEMESTER"
	PlanCourseByCourse PaymentPlanType = "COURSE_BY_COURSE"
)

// PaymentPlan groups enrollments paid for under one billing arrangement
type PaymentPlan struct {
	gorm.Model
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	Type          PaymentPlanType `gorm:"type:varchar(30);not null" json:"type"`
	TotalAmount   float64         `gorm:"not null" json:"total_amount"`
	MonthlyAmount *float64        `json:"monthly_amount"`

	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	NextPaymentDate *time.Time `json:"next_payment_date"` // derived from Type

	IsDeleted bool `gorm:"default:false" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
