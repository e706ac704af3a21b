package controllers

import (
	"fmt"
	"log"
	"time"

	"recruitment-portal-api/config"
	"recruitment-portal-api/models"
	"recruitment-portal-api/services"
	"recruitment-portal-api/utils"

	"github.com/gin-gonic/gin"
)

type PaymentCheckRequest struct {
	PostID int `json:"post_id" binding:"required"`
}

// CheckPayment reports whether a fee is due for the target post, with
// the breakdown when it is.
func CheckPayment(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	var req PaymentCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	requirement, err := paymentService().CheckPaymentRequired(applicant.ApplicantID, req.PostID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Payment requirement evaluated", requirement)
}

type CreateOrderRequest struct {
	PostID              int    `json:"post_id" binding:"required"`
	GatewayOrderID      string `json:"gateway_order_id" binding:"required"`
	DeclarationAccepted bool   `json:"declaration_accepted"`
	Place               string `json:"place"`
}

// CreatePaymentOrder persists a PENDING payment row carrying the
// deferred application payload. The gateway order itself is created by
// the client against the gateway; its order id is recorded here.
func CreatePaymentOrder(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	payload := services.ApplicationPayload{
		DeclarationAccepted: req.DeclarationAccepted,
		Place:               req.Place,
		IPAddress:           c.ClientIP(),
		UserAgent:           c.Request.UserAgent(),
	}
	payment, err := paymentService().CreateOrder(applicant.ApplicantID, req.PostID, req.GatewayOrderID, payload)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "Payment order created", payment)
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyPayment checks the gateway signature and, on success, marks
// the payment SUCCESS and creates the draft application in one
// transaction. A repeated callback is rejected as already processed.
func VerifyPayment(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	application, err := paymentService().ConfirmPayment(applicant.ApplicantID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Payment verified and application created", application)
}

// GetMyPayments lists the caller's payment attempts.
func GetMyPayments(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	var payments []models.Payment
	if err := config.DB.
		Where("applicant_id = ? AND delete_at IS NULL", applicant.ApplicantID).
		Order("create_at DESC").Find(&payments).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Payments fetched", gin.H{"payments": payments, "total": len(payments)})
}

// sendAcknowledgementMail emails the submission receipt after commit.
// Failures are logged only; mail never affects the submission result.
func sendAcknowledgementMail(applicant *models.Applicant, outcome *services.SubmitOutcome) {
	var user models.User
	if err := config.DB.Select("email").
		Where("user_id = ? AND delete_at IS NULL", applicant.UserID).
		First(&user).Error; err != nil {
		return
	}

	subject := fmt.Sprintf("Application %s received", outcome.ApplicationNumber)
	body := fmt.Sprintf(
		"<p>Dear %s %s,</p><p>Your application <b>%s</b> was submitted on %s with status <b>%s</b>.</p>",
		applicant.FirstName, applicant.LastName,
		outcome.ApplicationNumber,
		time.Now().Format("02 Jan 2006 15:04"),
		outcome.Status,
	)
	if err := config.SendMail([]string{user.Email}, subject, body); err != nil {
		log.Printf("acknowledgement mail for %s failed: %v", outcome.ApplicationNumber, err)
	}
}
