package testutils

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/protocol"
	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

// MockClient simulates a connected websocket client
type MockClient struct {
	IDVal    string
	Messages []protocol.WSResponse // ack/error responses
	Events   []protocol.Event      // PRICE_UPDATE / ALERT_TRIGGERED pushes
	RawBytes []string              // raw broadcast payloads
	Closed   bool
	Mu       sync.Mutex
}

func NewMockClient(id string) *MockClient {
	return &MockClient{IDVal: id, Messages: make([]protocol.WSResponse, 0)}
}

func (m *MockClient) ID() string { return m.IDVal }

func (m *MockClient) Close() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
}

func (m *MockClient) SendJSON(v interface{}) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	switch msg := v.(type) {
	case protocol.WSResponse:
		m.Messages = append(m.Messages, msg)
	case protocol.Event:
		m.Events = append(m.Events, msg)
	}
}

// SendBytes records the raw payload and, when it decodes as an event
// envelope, the event as well.
func (m *MockClient) SendBytes(b []byte) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	m.RawBytes = append(m.RawBytes, string(b))

	var ev protocol.Event
	if err := json.Unmarshal(b, &ev); err == nil && ev.Type != "" {
		m.Events = append(m.Events, ev)
	}
}

func (m *MockClient) LastMsgType() string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if len(m.Messages) == 0 {
		return ""
	}
	return m.Messages[len(m.Messages)-1].Type
}

func (m *MockClient) EventCount(eventType string) int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	n := 0
	for _, ev := range m.Events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

type MockClock struct {
	Mu          sync.Mutex
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.CurrentTime
}

func (m *MockClock) Sleep(d time.Duration) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.CurrentTime = m.CurrentTime.Add(d)
}

func (m *MockClock) Advance(d time.Duration) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.CurrentTime = m.CurrentTime.Add(d)
}

type MockRand struct {
	ValFloat float64
}

func (m *MockRand) Float64() float64 { return m.ValFloat }

// MockDirectory is a fixed instrument table for hub tests.
type MockDirectory struct {
	Tickers map[string]models.Ticker
}

func NewMockDirectory(tickers ...models.Ticker) *MockDirectory {
	d := &MockDirectory{Tickers: make(map[string]models.Ticker)}
	for _, t := range tickers {
		d.Tickers[t.ID] = t
	}
	return d
}

func (d *MockDirectory) Exists(id string) bool {
	_, ok := d.Tickers[id]
	return ok
}

func (d *MockDirectory) Get(id string) (models.Ticker, bool) {
	t, ok := d.Tickers[id]
	return t, ok
}
