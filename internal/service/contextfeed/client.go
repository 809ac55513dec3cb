package contextfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"RetailPulse/internal/domain/models"
	drepo "RetailPulse/internal/domain/repository"
	"RetailPulse/pkg/util"

	"github.com/gorilla/websocket"
)

// Client implements a ContextStream backed by a WebSocket feed of
// daily sales observations per location.
type Client struct {
	apiKey         string
	websocketURL   string
	locations      []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a ContextStream client.
func New(apiKey, websocketURL string, locations []string, reconnectDelay, pingInterval time.Duration) drepo.ContextStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		locations:      locations,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("contextfeed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("contextfeed: connected")
	return nil
}

// Subscribe subscribes to configured locations.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("contextfeed not connected")
	}
	for _, loc := range c.locations {
		msg := map[string]string{"type": "subscribe", "location": loc}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", loc, err)
		}
		log.Printf("contextfeed: subscribed %s", loc)
	}
	return nil
}

type feedObservation struct {
	Product    string  `json:"product"`
	Location   string  `json:"location"`
	Date       string  `json:"date"`
	Units      float64 `json:"units"`
	Temp       float64 `json:"temp"`
	Rain       float64 `json:"rain"`
	Holiday    int     `json:"holiday"`
	Promotion  int     `json:"promo"`
	Congestion float64 `json:"congestion"`
}

type feedMessage struct {
	Type string            `json:"type"`
	Data []feedObservation `json:"data"`
}

// Read streams sales observations and errors. The read loop ends on
// the first read error; callers are expected to Reconnect.
func (c *Client) Read(ctx context.Context) (<-chan *models.SalesRecord, <-chan error) {
	recs := make(chan *models.SalesRecord, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(recs)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if c.conn == nil {
				errs <- fmt.Errorf("contextfeed conn nil")
				return
			}
			_, b, err := c.conn.ReadMessage()
			if err != nil {
				errs <- fmt.Errorf("contextfeed read: %w", err)
				return
			}
			var m feedMessage
			if err := json.Unmarshal(b, &m); err != nil {
				// ignore non-observation frames
				continue
			}
			if m.Type != "sales" {
				continue
			}
			for _, d := range m.Data {
				date, ok := util.ParseTime(d.Date)
				if !ok {
					continue
				}
				rec := &models.SalesRecord{
					Date:            util.Day(date),
					ProductID:       d.Product,
					LocationID:      d.Location,
					UnitsSold:       d.Units,
					Temperature:     d.Temp,
					Rainfall:        d.Rain,
					HolidayFlag:     d.Holiday,
					PromotionFlag:   d.Promotion,
					CongestionIndex: d.Congestion,
				}
				select {
				case recs <- rec:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return recs, errs
}

// Reconnect closes and reconnects, then resubscribes.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
