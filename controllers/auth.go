package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"recruitment-portal-api/config"
	"recruitment-portal-api/models"
	"recruitment-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles user authentication
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := config.DB.Preload("Role").
		Where("email = ? AND is_active = ? AND delete_at IS NULL", req.Email, true).
		First(&user).Error; err != nil {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token, err := generateToken(user)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Register creates a portal account together with an empty applicant
// profile.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !utils.ValidateEmail(req.Email) {
		utils.BadRequest(c, "Invalid email address")
		return
	}

	var existing int64
	config.DB.Model(&models.User{}).
		Where("email = ? AND delete_at IS NULL", req.Email).
		Count(&existing)
	if existing > 0 {
		utils.Fail(c, http.StatusConflict, "An account with this email already exists", nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(c, err)
		return
	}

	now := time.Now()
	user := models.User{
		FirstName: utils.SanitizeInput(req.FirstName),
		LastName:  utils.SanitizeInput(req.LastName),
		Email:     req.Email,
		Password:  string(hashed),
		RoleID:    models.RoleApplicant,
		IsActive:  true,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if req.Mobile != "" {
		user.Mobile = &req.Mobile
	}

	if err := config.DB.Create(&user).Error; err != nil {
		utils.Error(c, err)
		return
	}

	applicant := models.Applicant{
		UserID:    user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := config.DB.Create(&applicant).Error; err != nil {
		utils.Error(c, err)
		return
	}

	token, err := generateToken(user)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "Registration successful", gin.H{
		"token":     token,
		"user":      user,
		"applicant": applicant,
	})
}

// Me returns the authenticated account with its applicant profile.
func Me(c *gin.Context) {
	userID := c.GetInt("userID")

	var user models.User
	if err := config.DB.Preload("Role").
		Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "User not found", nil)
		return
	}

	data := gin.H{"user": user}
	if user.RoleID == models.RoleApplicant {
		var applicant models.Applicant
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).
			First(&applicant).Error; err == nil {
			data["applicant"] = applicant
		}
	}

	utils.OK(c, "Profile fetched", data)
}

// generateToken creates a JWT token for user
func generateToken(user models.User) (string, error) {
	expireHours := 24
	if h := os.Getenv("JWT_EXPIRE_HOURS"); h != "" {
		if parsed, err := strconv.Atoi(h); err == nil && parsed > 0 {
			expireHours = parsed
		}
	}

	claims := jwt.MapClaims{
		"user_id": user.UserID,
		"email":   user.Email,
		"role_id": user.RoleID,
		"exp":     time.Now().Add(time.Duration(expireHours) * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
