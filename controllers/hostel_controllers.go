package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
	"gorm.io/gorm"
)

type HostelController struct {
	DB *gorm.DB
}

func NewHostelController(db *gorm.DB) *HostelController {
	return &HostelController{DB: db}
}

// GetAllHostels -> public list used by the registration form
func (hc *HostelController) GetAllHostels(c *gin.Context) {
	var hostels []models.Hostel
	if err := hc.DB.Order("name").Find(&hostels).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of hostels", hostels)
}

func (hc *HostelController) CreateHostel(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Code string `json:"code" binding:"required,alphanum,max=32"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hostel := models.Hostel{Name: req.Name, Code: strings.ToUpper(req.Code)}
	err := hc.DB.Create(&hostel).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.RespondError(c, http.StatusConflict, errors.New("hostel code already exists"))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New hostel created: %s (%s)", hostel.Name, hostel.Code)
	utils.RespondJSON(c, http.StatusCreated, "Hostel created", hostel)
}
