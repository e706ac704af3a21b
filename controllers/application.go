package controllers

import (
	"net/http"
	"strconv"

	"recruitment-portal-api/config"
	"recruitment-portal-api/models"
	"recruitment-portal-api/services"
	"recruitment-portal-api/utils"

	"github.com/gin-gonic/gin"
)

type CreateApplicationRequest struct {
	PostID              int    `json:"post_id" binding:"required"`
	DeclarationAccepted bool   `json:"declaration_accepted"`
	Place               string `json:"place"`
}

// CreateApplication creates a DRAFT application. Entry is gated by the
// restriction guard and the payment gate: when a fee is due the caller
// must go through the payment flow instead, which creates the draft on
// successful verification.
func CreateApplication(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	requirement, err := paymentService().CheckPaymentRequired(applicant.ApplicantID, req.PostID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	if requirement.Required {
		utils.Fail(c, http.StatusBadRequest, "Payment is required before applying to this post", requirement)
		return
	}

	payload := services.ApplicationPayload{
		DeclarationAccepted: req.DeclarationAccepted,
		Place:               req.Place,
		IPAddress:           c.ClientIP(),
		UserAgent:           c.Request.UserAgent(),
	}
	application, err := applicationService().CreateDraft(applicant.ApplicantID, req.PostID, payload)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "Application draft created", application)
}

type SubmitApplicationRequest struct {
	DeclarationAccepted bool   `json:"declaration_accepted"`
	Place               string `json:"place"`
}

// SubmitApplication finalizes a draft: runs eligibility and document
// checks atomically and reports the resulting status with the
// acknowledgement number.
func SubmitApplication(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid application id")
		return
	}

	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	meta := services.SubmitMeta{
		Place:     req.Place,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	outcome, err := applicationService().FinalSubmit(applicant.ApplicantID, applicationID, req.DeclarationAccepted, meta)
	if err != nil {
		utils.Error(c, err)
		return
	}

	sendAcknowledgementMail(applicant, outcome)

	utils.OK(c, "Application submitted", outcome)
}

// GetMyApplications lists the caller's applications.
func GetMyApplications(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	query := config.DB.Preload("Post").Preload("Post.Component").Preload("District").
		Where("applicant_id = ? AND is_deleted = ?", applicant.ApplicantID, false)

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseApplicationStatus(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		query = query.Where("status = ?", status)
	}

	var applications []models.Application
	if err := query.Order("create_at DESC").Find(&applications).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Applications fetched", gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetMyApplication returns one application with its status history.
func GetMyApplication(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	id := c.Param("id")
	var application models.Application
	if err := config.DB.Preload("Post").Preload("Post.Component").Preload("District").
		Where("application_id = ? AND applicant_id = ? AND is_deleted = ?",
			id, applicant.ApplicantID, false).
		First(&application).Error; err != nil {
		utils.Fail(c, 404, "Application not found", nil)
		return
	}

	var history []models.ApplicationStatusHistory
	config.DB.Where("application_id = ?", application.ApplicationID).
		Order("created_at ASC").Find(&history)

	utils.OK(c, "Application fetched", gin.H{
		"application": application,
		"history":     history,
	})
}

type WithdrawRequest struct {
	Remarks string `json:"remarks"`
}

// WithdrawApplication moves the application to WITHDRAWN.
func WithdrawApplication(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid application id")
		return
	}

	var req WithdrawRequest
	_ = c.ShouldBindJSON(&req)

	if err := applicationService().Withdraw(applicant.ApplicantID, applicationID, req.Remarks); err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Application withdrawn", nil)
}
