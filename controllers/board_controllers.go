package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/hostel-app/board"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the token in the query string is what authenticates
	},
}

type BoardController struct {
	Service *services.LaundryService
	Hub     *board.Hub
}

func NewBoardController(svc *services.LaundryService, hub *board.Hub) *BoardController {
	return &BoardController{Service: svc, Hub: hub}
}

// LaundryBoard -> websocket pushing slot changes of the caller's hostel
func (bc *BoardController) LaundryBoard(c *gin.Context) {
	student, err := bc.Service.ResolveStudent(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	bc.Hub.Register(ws, student.HostelID)
	utils.InfoLogger.Printf("Board client joined hostel %d (%d watching)", student.HostelID, bc.Hub.ClientCount(student.HostelID))

	// the board is push-only; reading just detects disconnects
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	bc.Hub.Unregister(ws)
	utils.InfoLogger.Debugf("Board client left hostel %d (%d watching)", student.HostelID, bc.Hub.ClientCount(student.HostelID))
}
