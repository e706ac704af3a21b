package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"recruitment-portal-api/config"
	"recruitment-portal-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Payment-requirement reason codes.
const (
	PayReasonDisabled         = "PAYMENT_DISABLED"
	PayReasonFirstApplication = "FIRST_APPLICATION_FEE"
	PayReasonAlreadyPaidPost  = "ALREADY_PAID_FOR_POST"
	PayReasonSamePostName     = "SAME_POST_NAME_PAID"
	PayReasonLimitReached     = "POST_LIMIT_REACHED"
	PayReasonNewPostName      = "NEW_POST_NAME"
)

// FeeBreakdown itemizes the application fee. All amounts are rounded
// to two decimals independently; Total is their sum.
type FeeBreakdown struct {
	BaseFee     float64 `json:"base_fee"`
	PlatformFee float64 `json:"platform_fee"`
	CGST        float64 `json:"cgst"`
	SGST        float64 `json:"sgst"`
	Total       float64 `json:"total"`
}

// PaymentRequirement is the gate's structured decision.
type PaymentRequirement struct {
	Required  bool          `json:"required"`
	Reason    string        `json:"reason"`
	Breakdown *FeeBreakdown `json:"breakdown,omitempty"`
}

// ApplicationPayload is the deferred draft-creation data carried in
// payment metadata until verification succeeds.
type ApplicationPayload struct {
	DeclarationAccepted bool   `json:"declaration_accepted"`
	Place               string `json:"place,omitempty"`
	IPAddress           string `json:"ip_address,omitempty"`
	UserAgent           string `json:"user_agent,omitempty"`
}

type paymentMetadata struct {
	ApplicationData ApplicationPayload `json:"application_data"`
}

// paidPost is the slice of a prior successful payment the gate needs.
type paidPost struct {
	PostID     int
	PostName   string
	DistrictID int
}

// PaymentService decides when a fee is due, creates orders and
// verifies gateway signatures. Signature verification is a local HMAC
// computation; it never holds a database lock while computing.
type PaymentService struct {
	db          *gorm.DB
	settings    config.Settings
	application *ApplicationService
}

func NewPaymentService(db *gorm.DB, settings config.Settings, application *ApplicationService) *PaymentService {
	return &PaymentService{db: db, settings: settings, application: application}
}

// ComputeFeeBreakdown derives the fee from injected settings.
func (s *PaymentService) ComputeFeeBreakdown() FeeBreakdown {
	base := round2(s.settings.PaymentBaseFee)
	platform := round2(base * s.settings.PaymentPlatformPercent / 100)
	cgst := round2(base * s.settings.PaymentCGSTPercent / 100)
	sgst := round2(base * s.settings.PaymentSGSTPercent / 100)
	return FeeBreakdown{
		BaseFee:     base,
		PlatformFee: platform,
		CGST:        cgst,
		SGST:        sgst,
		Total:       round2(base + platform + cgst + sgst),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CheckPaymentRequired applies the gating ladder for a target post.
func (s *PaymentService) CheckPaymentRequired(applicantID, postID int) (*PaymentRequirement, error) {
	var post models.Post
	if err := s.db.Where("post_id = ? AND delete_at IS NULL", postID).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("post %d not found", postID)
		}
		return nil, err
	}

	var payments []models.Payment
	if err := s.db.
		Where("applicant_id = ? AND payment_status = ? AND delete_at IS NULL",
			applicantID, models.PaymentStatusSuccess).
		Find(&payments).Error; err != nil {
		return nil, err
	}

	prior := make([]paidPost, 0, len(payments))
	for _, p := range payments {
		prior = append(prior, paidPost{PostID: p.PostID, PostName: p.PostName, DistrictID: p.DistrictID})
	}

	target := paidPost{PostID: post.PostID, PostName: post.PostName, DistrictID: post.DistrictID}
	requirement := s.decide(prior, target)
	return &requirement, nil
}

// decide is the pure gating core. Order matters: disabled feature,
// first fee, exact post already paid, same post-name in district paid,
// distinct-name cap reached, else a new distinct post-name is charged.
func (s *PaymentService) decide(prior []paidPost, target paidPost) PaymentRequirement {
	if !s.settings.PaymentEnabled {
		return PaymentRequirement{Required: false, Reason: PayReasonDisabled}
	}

	if len(prior) == 0 {
		breakdown := s.ComputeFeeBreakdown()
		return PaymentRequirement{Required: true, Reason: PayReasonFirstApplication, Breakdown: &breakdown}
	}

	distinctNames := make(map[string]struct{})
	for _, p := range prior {
		if p.PostID == target.PostID {
			return PaymentRequirement{Required: false, Reason: PayReasonAlreadyPaidPost}
		}
		if p.DistrictID == target.DistrictID {
			distinctNames[p.PostName] = struct{}{}
		}
	}

	if _, ok := distinctNames[target.PostName]; ok {
		return PaymentRequirement{Required: false, Reason: PayReasonSamePostName}
	}

	// Beyond the cap the restriction guard blocks the application, so
	// no further charge applies.
	if len(distinctNames) >= s.settings.MaxDistinctPostNames {
		return PaymentRequirement{Required: false, Reason: PayReasonLimitReached}
	}

	breakdown := s.ComputeFeeBreakdown()
	return PaymentRequirement{Required: true, Reason: PayReasonNewPostName, Breakdown: &breakdown}
}

// CreateOrder persists a PENDING payment carrying the deferred
// application payload. The gateway order id is recorded when the
// gateway responds; here we persist our side first.
func (s *PaymentService) CreateOrder(applicantID, postID int, gatewayOrderID string, payload ApplicationPayload) (*models.Payment, error) {
	var post models.Post
	if err := s.db.Where("post_id = ? AND delete_at IS NULL", postID).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("post %d not found", postID)
		}
		return nil, err
	}

	requirement, err := s.CheckPaymentRequired(applicantID, postID)
	if err != nil {
		return nil, err
	}
	if !requirement.Required {
		return nil, NewConflictError("payment is not required for this post (%s)", requirement.Reason)
	}

	metadataJSON, err := json.Marshal(paymentMetadata{ApplicationData: payload})
	if err != nil {
		return nil, err
	}

	breakdown := s.ComputeFeeBreakdown()
	now := time.Now()
	metadata := string(metadataJSON)
	payment := models.Payment{
		ApplicantID:    applicantID,
		PostID:         post.PostID,
		PostName:       post.PostName,
		DistrictID:     post.DistrictID,
		BaseFee:        breakdown.BaseFee,
		PlatformFee:    breakdown.PlatformFee,
		CGST:           breakdown.CGST,
		SGST:           breakdown.SGST,
		TotalAmount:    breakdown.Total,
		PaymentStatus:  models.PaymentStatusPending,
		ReceiptID:      uuid.NewString(),
		GatewayOrderID: &gatewayOrderID,
		Metadata:       &metadata,
		CreateAt:       &now,
		UpdateAt:       &now,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// VerifySignature checks the gateway HMAC-SHA256 over "orderId|paymentId".
func (s *PaymentService) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.settings.PaymentSecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ConfirmPayment verifies the callback and, in one transaction, marks
// the payment SUCCESS and creates the deferred draft application. A
// duplicate callback finds SUCCESS already set and is rejected; a bad
// signature marks the payment FAILED.
func (s *PaymentService) ConfirmPayment(applicantID int, gatewayOrderID, gatewayPaymentID, signature string) (*models.Application, error) {
	// Pure local HMAC check before any lock is taken.
	signatureValid := s.VerifySignature(gatewayOrderID, gatewayPaymentID, signature)

	var application *models.Application
	signatureRejected := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("gateway_order_id = ? AND applicant_id = ? AND delete_at IS NULL",
				gatewayOrderID, applicantID).
			First(&payment).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NewNotFoundError("payment order %s not found", gatewayOrderID)
			}
			return err
		}

		if payment.PaymentStatus == models.PaymentStatusSuccess {
			return NewConflictError("payment %s already processed", gatewayOrderID)
		}

		now := time.Now()
		if !signatureValid {
			// Commit the FAILED marking; the caller still gets an error.
			signatureRejected = true
			return tx.Model(&payment).Updates(map[string]any{
				"payment_status": models.PaymentStatusFailed,
				"update_at":      now,
			}).Error
		}

		if err := tx.Model(&payment).Updates(map[string]any{
			"payment_status":     models.PaymentStatusSuccess,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  signature,
			"paid_at":            now,
			"update_at":          now,
		}).Error; err != nil {
			return err
		}

		var payload ApplicationPayload
		if payment.Metadata != nil {
			var meta paymentMetadata
			if err := json.Unmarshal([]byte(*payment.Metadata), &meta); err == nil {
				payload = meta.ApplicationData
			}
		}

		app, err := s.application.createDraftTx(tx, payment.ApplicantID, payment.PostID, payload)
		if err != nil {
			return err
		}
		application = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	if signatureRejected {
		return nil, NewValidationError("payment signature verification failed")
	}
	return application, nil
}
