package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-pos/models"
)

// Event types yang disiarkan ke dashboard kasir/admin
const (
	EventReservationCreate = "reservation_created"
	EventReservationUpdate = "reservation_updated"
	EventReservationCancel = "reservation_cancelled"
	EventTicketCreate      = "ticket_created"
	EventStockLow          = "stock_low"
	EventTableCreate       = "table_create"
	EventTableUpdate       = "table_update"
	EventTableDelete       = "table_delete"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client dashboard yang terkoneksi (staff, admin)
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastReservationCreated -> reservasi baru masuk
func BroadcastReservationCreated(res models.Reservation) {
	broadcast(Message{
		Event: EventReservationCreate,
		Data:  res,
	})
}

// BroadcastReservationUpdated -> reservasi diubah
func BroadcastReservationUpdated(res models.Reservation) {
	broadcast(Message{
		Event: EventReservationUpdate,
		Data:  res,
	})
}

// BroadcastReservationCancelled -> reservasi dibatalkan
func BroadcastReservationCancelled(reservationID uint) {
	broadcast(Message{
		Event: EventReservationCancel,
		Data:  map[string]interface{}{"reservation_id": reservationID},
	})
}

// BroadcastTicketCreated -> ticket baru selesai dibuat
func BroadcastTicketCreated(ticket models.Ticket) {
	broadcast(Message{
		Event: EventTicketCreate,
		Data:  ticket,
	})
}

// BroadcastStockLow -> stok produk di bawah ambang batas
func BroadcastStockLow(product models.Product) {
	broadcast(Message{
		Event: EventStockLow,
		Data:  product,
	})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// broadcast -> fungsi internal untuk mengirim pesan ke semua client
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error broadcasting to client: %v", err)
			conn.Close()
			delete(hub.clients, conn)
		}
	}
}
