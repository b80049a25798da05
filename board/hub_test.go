package board

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
)

// newHubServer registers each connection under the hostel given in ?hostel=.
func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hostelID, _ := strconv.Atoi(r.URL.Query().Get("hostel"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn, uint(hostelID))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, hostelID int) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?hostel=" + strconv.Itoa(hostelID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, hostelID uint, n int) {
	require.Eventually(t, func() bool { return hub.ClientCount(hostelID) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastReachesOnlySameHostel(t *testing.T) {
	utils.InitLogger()
	hub := NewHub()
	srv := newHubServer(t, hub)

	north := dial(t, srv, 1)
	south := dial(t, srv, 2)
	waitForClients(t, hub, 1, 1)
	waitForClients(t, hub, 2, 1)

	occupant := uint(7)
	slot := models.LaundrySlot{
		ID:         5,
		HostelID:   1,
		Status:     models.SlotBooked,
		OccupantID: &occupant,
		Student: &models.Student{
			UserID:    occupant,
			StudentID: "R-007",
			User:      models.User{ID: occupant, FullName: "Nia", Email: "nia@hostel.test", Phone: "+1-555-0107"},
		},
	}
	slot.SetOccupant(false)
	hub.BroadcastSlotUpdate(slot)

	north.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := north.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string             `json:"event"`
		Data  models.LaundrySlot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventSlotUpdate, msg.Event)
	assert.Equal(t, uint(5), msg.Data.ID)
	assert.Equal(t, models.SlotBooked, msg.Data.Status)
	require.NotNil(t, msg.Data.Occupant)
	assert.Equal(t, "Nia", msg.Data.Occupant.FullName)
	assert.NotContains(t, string(raw), "nia@hostel.test")
	assert.NotContains(t, string(raw), "+1-555-0107")

	south.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = south.ReadMessage()
	assert.Error(t, err, "south block must not receive north block updates")
}

func TestUnregisterOnDisconnect(t *testing.T) {
	utils.InitLogger()
	hub := NewHub()
	srv := newHubServer(t, hub)

	conn := dial(t, srv, 3)
	waitForClients(t, hub, 3, 1)

	conn.Close()
	waitForClients(t, hub, 3, 0)

	// no clients left, must not block or panic
	hub.BroadcastSlotsProvisioned(3, "2024-06-01", 14)
}
