package controllers

import (
	"time"

	"recruitment-portal-api/config"
	"recruitment-portal-api/models"
	"recruitment-portal-api/services"
	"recruitment-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// Service constructors bound to the global DB and startup settings.
// Controllers call these per request; services themselves are cheap
// stateless wrappers around the connection.

func eligibilityService() *services.EligibilityService {
	return services.NewEligibilityService(config.DB)
}

func documentService() *services.DocumentService {
	return services.NewDocumentService(config.DB)
}

func restrictionService() *services.RestrictionService {
	return services.NewRestrictionService(config.DB, config.AppSettings)
}

func applicantService() *services.ApplicantService {
	return services.NewApplicantService(config.DB, documentService())
}

func applicationService() *services.ApplicationService {
	return services.NewApplicationService(config.DB, eligibilityService(), documentService(),
		restrictionService(), applicantService())
}

func paymentService() *services.PaymentService {
	return services.NewPaymentService(config.DB, config.AppSettings, applicationService())
}

func selectionService() *services.SelectionService {
	return services.NewSelectionService(config.DB, documentService())
}

func schedulerService() *services.PostSchedulerService {
	interval := time.Duration(config.AppSettings.SchedulerIntervalMinutes) * time.Minute
	return services.NewPostSchedulerService(config.DB, selectionService(), interval)
}

// currentApplicant resolves the applicant row for the authenticated
// user, or nil after writing the error response.
func currentApplicant(c *gin.Context) *models.Applicant {
	userID := c.GetInt("userID")
	applicant, err := applicantService().ApplicantByUser(userID)
	if err != nil {
		utils.Error(c, err)
		return nil
	}
	return applicant
}
