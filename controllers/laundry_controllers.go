package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/board"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

type LaundryController struct {
	Service *services.LaundryService
	Hub     *board.Hub
}

func NewLaundryController(svc *services.LaundryService, hub *board.Hub) *LaundryController {
	return &LaundryController{Service: svc, Hub: hub}
}

type bookSlotRequest struct {
	MachineNumber int    `json:"machine_number" binding:"required,min=1"`
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	TimeSlot      string `json:"time_slot" binding:"required,oneof=morning-1 morning-2 morning-3 afternoon-1 afternoon-2 evening-1 evening-2"`
}

type provisionRequest struct {
	HostelID  uint     `json:"hostel_id" binding:"required"`
	Date      string   `json:"date" binding:"required,datetime=2006-01-02"`
	Machines  int      `json:"machines" binding:"required,min=1,max=50"`
	TimeSlots []string `json:"time_slots"`
}

// GetSlots -> all slots of the caller's hostel, optionally ?date=YYYY-MM-DD
func (lc *LaundryController) GetSlots(c *gin.Context) {
	slots, err := lc.Service.ListSlots(c.Request.Context(), currentUserID(c), c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of laundry slots", slots)
}

// GetBoard -> the same slots grouped by time window
func (lc *LaundryController) GetBoard(c *gin.Context) {
	slots, err := lc.Service.ListSlots(c.Request.Context(), currentUserID(c), c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Laundry board", services.GroupSlots(slots))
}

func (lc *LaundryController) GetSummary(c *gin.Context) {
	summary, err := lc.Service.Summary(c.Request.Context(), currentUserID(c), c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Laundry summary", summary)
}

func (lc *LaundryController) GetSlotByID(c *gin.Context) {
	slotID, ok := slotIDParam(c)
	if !ok {
		return
	}

	slot, err := lc.Service.GetSlot(c.Request.Context(), currentUserID(c), slotID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Laundry slot detail", slot)
}

// BookSlot -> POST /laundry {machine_number, date, time_slot}
func (lc *LaundryController) BookSlot(c *gin.Context) {
	var req bookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	slot, err := lc.Service.BookSlot(c.Request.Context(), currentUserID(c), services.BookSlotInput{
		MachineNumber: req.MachineNumber,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	lc.Hub.BroadcastSlotUpdate(*slot)
	utils.RespondJSON(c, http.StatusOK, "Laundry slot booked", slot)
}

// CancelBooking -> PATCH /laundry/:id
func (lc *LaundryController) CancelBooking(c *gin.Context) {
	slotID, ok := slotIDParam(c)
	if !ok {
		return
	}

	slot, err := lc.Service.CancelBooking(c.Request.Context(), currentUserID(c), slotID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	lc.Hub.BroadcastSlotUpdate(*slot)
	utils.RespondJSON(c, http.StatusOK, "Laundry booking cancelled", slot)
}

// ProvisionSlots -> admin creates the slot grid for a hostel and date
func (lc *LaundryController) ProvisionSlots(c *gin.Context) {
	var req provisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	created, err := lc.Service.ProvisionSlots(c.Request.Context(), services.ProvisionInput{
		HostelID:  req.HostelID,
		Date:      req.Date,
		Machines:  req.Machines,
		TimeSlots: req.TimeSlots,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if created > 0 {
		lc.Hub.BroadcastSlotsProvisioned(req.HostelID, req.Date, created)
	}
	utils.RespondJSON(c, http.StatusCreated, "Laundry slots provisioned", gin.H{"created": created})
}

func slotIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid slot id"))
		return 0, false
	}
	return uint(id), true
}
