package controllers

import (
	"strconv"
	"time"

	"recruitment-portal-api/config"
	"recruitment-portal-api/models"
	"recruitment-portal-api/services"
	"recruitment-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetPosts lists open posts. For applicant callers each post carries
// an inline eligibility verdict computed from one snapshot, so the
// listing never re-queries the profile per post.
func GetPosts(c *gin.Context) {
	query := config.DB.Preload("Component").Preload("District").
		Where("delete_at IS NULL AND is_active = ?", true)

	if district := c.Query("district_id"); district != "" {
		query = query.Where("district_id = ?", district)
	}
	if component := c.Query("component_id"); component != "" {
		query = query.Where("component_id = ?", component)
	}
	if c.Query("include_closed") != "true" {
		query = query.Where("is_closed = ?", false)
	}

	var posts []models.Post
	if err := query.Order("post_name ASC").Find(&posts).Error; err != nil {
		utils.Error(c, err)
		return
	}

	data := gin.H{"posts": posts, "total": len(posts)}

	if c.GetInt("roleID") == models.RoleApplicant {
		applicant := currentApplicant(c)
		if applicant == nil {
			return
		}
		snapshot, err := eligibilityService().BuildSnapshot(applicant.ApplicantID)
		if err != nil {
			utils.Error(c, err)
			return
		}
		reqs := make([]services.PostRequirements, 0, len(posts))
		for i := range posts {
			reqs = append(reqs, services.RequirementsFromPost(&posts[i]))
		}
		data["eligibility"] = eligibilityService().EvaluateAll(snapshot, reqs, time.Now())
	}

	utils.OK(c, "Posts fetched", data)
}

// GetPost returns one post.
func GetPost(c *gin.Context) {
	id := c.Param("id")

	var post models.Post
	if err := config.DB.Preload("Component").Preload("District").
		Where("post_id = ? AND delete_at IS NULL", id).
		First(&post).Error; err != nil {
		utils.Fail(c, 404, "Post not found", nil)
		return
	}

	utils.OK(c, "Post fetched", post)
}

// CheckPostEligibility evaluates the caller against a single post and
// reports the per-criterion detail together with the document check.
func CheckPostEligibility(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid post id")
		return
	}

	var post models.Post
	if err := config.DB.Where("post_id = ? AND delete_at IS NULL", postID).First(&post).Error; err != nil {
		utils.Fail(c, 404, "Post not found", nil)
		return
	}

	snapshot, err := eligibilityService().BuildSnapshot(applicant.ApplicantID)
	if err != nil {
		utils.Error(c, err)
		return
	}
	verdict := eligibilityService().Evaluate(snapshot, services.RequirementsFromPost(&post), time.Now())

	docCheck, err := documentService().Check(applicant.ApplicantID, postID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	restriction, err := restrictionService().CanApplyToPost(applicant.ApplicantID, postID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Eligibility evaluated", gin.H{
		"eligibility": verdict,
		"documents":   docCheck,
		"restriction": restriction,
	})
}
