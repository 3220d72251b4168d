// Package monitoring turns a running simulation into a small HTTP server so
// that the progress of a long run can be inspected from outside.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/sarchlab/axibridge/queueing"
	"github.com/sarchlab/axibridge/sim"
)

// Monitor exposes the state of a simulation over HTTP.
type Monitor struct {
	lock sync.Mutex

	engine     *sim.Engine
	queues     []*queueing.Queue
	portNumber int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// rejected and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that drives the simulation.
func (m *Monitor) RegisterEngine(e *sim.Engine) {
	m.engine = e
}

// RegisterQueue adds a queue whose occupancy should be observable.
func (m *Monitor) RegisterQueue(q *queueing.Queue) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.queues = append(m.queues, q)
}

// StartServer starts the monitoring server in the background and reports the
// address it listens on.
func (m *Monitor) StartServer() {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		log.Panic(err)
	}

	fmt.Fprintf(os.Stderr,
		"Monitoring simulation at http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		if err := http.Serve(listener, m.router()); err != nil {
			log.Panic(err)
		}
	}()
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/cycle", m.serveCycle)
	r.HandleFunc("/api/modules", m.serveModules)
	r.HandleFunc("/api/queues", m.serveQueues)

	return r
}

func (m *Monitor) serveCycle(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]uint64{"cycle": m.engine.Cycle()})
}

func (m *Monitor) serveModules(w http.ResponseWriter, _ *http.Request) {
	names := []string{}
	for _, mod := range m.engine.Modules() {
		names = append(names, mod.Name())
	}

	writeJSON(w, names)
}

type queueStatus struct {
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
}

func (m *Monitor) serveQueues(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	defer m.lock.Unlock()

	statuses := []queueStatus{}
	for _, q := range m.queues {
		statuses = append(statuses, queueStatus{
			Name:     q.Name(),
			Size:     q.Size(),
			Capacity: q.Capacity(),
		})
	}

	writeJSON(w, statuses)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
