package board

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
)

// Event types
const (
	EventSlotUpdate       = "laundry_slot_update"
	EventSlotsProvisioned = "laundry_slots_provisioned"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub keeps the live laundry board connections, each registered under one hostel.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> hostel id
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uint)}
}

func (h *Hub) Register(conn *websocket.Conn, hostelID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = hostelID
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// ClientCount returns the number of connections watching hostelID.
func (h *Hub) ClientCount(hostelID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	n := 0
	for _, id := range h.clients {
		if id == hostelID {
			n++
		}
	}
	return n
}

func (h *Hub) BroadcastSlotUpdate(slot models.LaundrySlot) {
	h.Broadcast(slot.HostelID, Message{Event: EventSlotUpdate, Data: slot})
}

func (h *Hub) BroadcastSlotsProvisioned(hostelID uint, date string, created int64) {
	h.Broadcast(hostelID, Message{
		Event: EventSlotsProvisioned,
		Data: map[string]interface{}{
			"hostel_id": hostelID,
			"date":      date,
			"created":   created,
		},
	})
}

// Broadcast sends msg to every connection of hostelID. Connections that fail are dropped.
func (h *Hub) Broadcast(hostelID uint, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling board message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for conn, id := range h.clients {
		if id != hostelID {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Dropping board client of hostel %d: %v", hostelID, err)
			delete(h.clients, conn)
			conn.Close()
			continue
		}
		sent++
	}
	utils.InfoLogger.Debugf("Broadcast %s to %d clients of hostel %d", msg.Event, sent, hostelID)
}
