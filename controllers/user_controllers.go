package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/middlewares"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register creates a student account together with its hostel membership.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		FullName    string `json:"full_name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		Phone       string `json:"phone"`
		StudentID   string `json:"student_id" binding:"required"`
		HostelCode  string `json:"hostel_code" binding:"required"`
		Department  string `json:"department"`
		YearOfStudy int    `json:"year_of_study" binding:"omitempty,min=1,max=8"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// codes are stored upper-cased by CreateHostel
	hostelCode := strings.ToUpper(strings.TrimSpace(req.HostelCode))

	user := models.User{
		FullName: req.FullName,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Phone:    req.Phone,
		Role:     models.RoleStudent,
	}

	err = uc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var hostel models.Hostel
		if err := tx.Where("code = ?", hostelCode).First(&hostel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrHostelNotFound
			}
			return err
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Student{
			UserID:      user.ID,
			StudentID:   req.StudentID,
			HostelID:    hostel.ID,
			Department:  req.Department,
			YearOfStudy: req.YearOfStudy,
		}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.RespondError(c, http.StatusConflict, errors.New("email or student id already registered"))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New student registered: %s (hostel=%s)", user.Email, hostelCode)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": user.Role,
	})
}

// Logout revokes the token used for this request.
func (uc *UserController) Logout(c *gin.Context) {
	claims, ok := c.MustGet(middlewares.ContextClaims).(*utils.CustomClaims)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(c.GetString(middlewares.ContextToken), expiresAt)

	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the caller and, for students, their hostel membership.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	profile := gin.H{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"phone":     user.Phone,
		"role":      user.Role,
	}

	var student models.Student
	err := uc.DB.Preload("Hostel").Where("user_id = ?", userID).First(&student).Error
	switch {
	case err == nil:
		profile["student_id"] = student.StudentID
		profile["hostel"] = student.Hostel
		profile["department"] = student.Department
		profile["year_of_study"] = student.YearOfStudy
	case !errors.Is(err, gorm.ErrRecordNotFound):
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", profile)
}
