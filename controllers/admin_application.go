package controllers

import (
	"strconv"

	"recruitment-portal-api/config"
	"recruitment-portal-api/models"
	"recruitment-portal-api/services"
	"recruitment-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// AdminGetApplications lists applications for review with filters on
// status, post and district.
func AdminGetApplications(c *gin.Context) {
	query := config.DB.Preload("Applicant").Preload("Post").Preload("Post.Component").
		Preload("District").
		Where("is_deleted = ?", false)

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseApplicationStatus(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		query = query.Where("status = ?", status)
	}
	if post := c.Query("post_id"); post != "" {
		query = query.Where("post_id = ?", post)
	}
	if district := c.Query("district_id"); district != "" {
		query = query.Where("district_id = ?", district)
	}

	var applications []models.Application
	if err := query.Order("submitted_at DESC").Find(&applications).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Applications fetched", gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

type TransitionRequest struct {
	Action  string `json:"action" binding:"required"`
	Remarks string `json:"remarks"`
}

// AdminTransitionApplication applies one selection-workflow action
// (HOLD, PROVISIONAL_SELECT, SELECT, REJECT).
func AdminTransitionApplication(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid application id")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	action, err := services.ParseSelectionAction(req.Action)
	if err != nil {
		utils.Error(c, err)
		return
	}

	adminID := c.GetInt("userID")
	application, err := selectionService().Transition(applicationID, adminID, action, req.Remarks)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Transition applied", application)
}

// AdminMarkAsSelected is the legacy direct-select path kept for the
// admin bulk tooling; it delegates to the same capacity primitive.
func AdminMarkAsSelected(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid application id")
		return
	}

	adminID := c.GetInt("userID")
	application, err := schedulerService().MarkAsSelected(applicationID, adminID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Application selected", application)
}

type VerifyDocumentRequest struct {
	Status  string `json:"status" binding:"required"`
	Remarks string `json:"remarks"`
}

// AdminVerifyDocument records a verification decision on one upload.
func AdminVerifyDocument(c *gin.Context) {
	documentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid document id")
		return
	}

	var req VerifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	adminID := c.GetInt("userID")
	doc, err := documentService().VerifyDocument(documentID, adminID, req.Status, req.Remarks)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Document verification recorded", doc)
}

// AdminGetMeritList returns the ranked merit entries for a post,
// ordered by score.
func AdminGetMeritList(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		utils.BadRequest(c, "Invalid post id")
		return
	}

	query := config.DB.Preload("Application").Preload("Application.Applicant").
		Where("post_id = ?", postID)
	if district := c.Query("district_id"); district != "" {
		query = query.Where("district_id = ?", district)
	}

	var entries []models.MeritList
	if err := query.Order("merit_score DESC").Find(&entries).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Merit list fetched", gin.H{"entries": entries, "total": len(entries)})
}

// AdminGetStageHistory returns the stage ledger for an application.
func AdminGetStageHistory(c *gin.Context) {
	applicationID := c.Param("id")

	var stages []models.ApplicationStageHistory
	if err := config.DB.Where("application_id = ?", applicationID).
		Order("entered_at ASC").Find(&stages).Error; err != nil {
		utils.Error(c, err)
		return
	}

	var history []models.ApplicationStatusHistory
	if err := config.DB.Where("application_id = ?", applicationID).
		Order("created_at ASC").Find(&history).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "History fetched", gin.H{"stages": stages, "status_history": history})
}

// AdminCloseExpiredPosts runs the reconciliation on demand.
func AdminCloseExpiredPosts(c *gin.Context) {
	closedExpired, err := schedulerService().CloseExpiredPosts()
	if err != nil {
		utils.Error(c, err)
		return
	}
	closedFilled, err := schedulerService().ReconcileFilledPosts()
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Posts reconciled", gin.H{
		"closed_expired": closedExpired,
		"closed_filled":  closedFilled,
	})
}
