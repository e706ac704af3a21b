package models

import "time"

// Payment statuses.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// Payment is one row per payment attempt. When payment precedes
// application creation the deferred application payload travels in
// metadata (JSON) until verification succeeds.
type Payment struct {
	PaymentID        int        `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	ApplicantID      int        `gorm:"column:applicant_id" json:"applicant_id"`
	PostID           int        `gorm:"column:post_id" json:"post_id"`
	PostName         string     `gorm:"column:post_name" json:"post_name"`
	DistrictID       int        `gorm:"column:district_id" json:"district_id"`
	BaseFee          float64    `gorm:"column:base_fee" json:"base_fee"`
	PlatformFee      float64    `gorm:"column:platform_fee" json:"platform_fee"`
	CGST             float64    `gorm:"column:cgst" json:"cgst"`
	SGST             float64    `gorm:"column:sgst" json:"sgst"`
	TotalAmount      float64    `gorm:"column:total_amount" json:"total_amount"`
	PaymentStatus    string     `gorm:"column:payment_status" json:"payment_status"`
	ReceiptID        string     `gorm:"column:receipt_id" json:"receipt_id"`
	GatewayOrderID   *string    `gorm:"column:gateway_order_id" json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string    `gorm:"column:gateway_payment_id" json:"gateway_payment_id,omitempty"`
	GatewaySignature *string    `gorm:"column:gateway_signature" json:"gateway_signature,omitempty"`
	Metadata         *string    `gorm:"column:metadata" json:"metadata,omitempty"`
	PaidAt           *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (Payment) TableName() string {
	return "payments"
}
