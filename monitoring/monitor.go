// Package monitoring turns a running simulation into a web server so that
// its progress and state can be inspected from outside.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/mesisim/cache"
	"github.com/sarchlab/mesisim/coherence"
	"github.com/sarchlab/mesisim/engine"
)

// Monitor exposes a live simulation over HTTP.
type Monitor struct {
	portNumber int
	controller *coherence.Controller
	engine     *engine.Engine
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterController registers the coherence controller to be monitored.
func (m *Monitor) RegisterController(c *coherence.Controller) {
	m.controller = c
}

// RegisterEngine registers the engine that drives the simulation.
func (m *Monitor) RegisterEngine(e *engine.Engine) {
	m.engine = e
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	r := mux.NewRouter()
	r.HandleFunc("/api/progress", m.progress)
	r.HandleFunc("/api/caches", m.listCaches)
	r.HandleFunc("/api/memory", m.listMemory)
	r.HandleFunc("/api/controller", m.controllerDetails)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return url
}

type progressRsp struct {
	Round    int  `json:"round"`
	Finished bool `json:"finished"`
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	rsp := progressRsp{
		Round:    m.engine.Round(),
		Finished: m.engine.Finished(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type lineRsp struct {
	Core  int    `json:"core"`
	Slot  int    `json:"slot"`
	Addr  uint64 `json:"addr"`
	Data  byte   `json:"data"`
	State string `json:"state"`
}

func (m *Monitor) listCaches(w http.ResponseWriter, _ *http.Request) {
	caches, _ := m.controller.Snapshot()

	lines := make([]lineRsp, 0)
	for core, cacheLines := range caches {
		for slot, line := range cacheLines {
			rsp := lineRsp{
				Core:  core,
				Slot:  slot,
				State: line.State.String(),
			}
			if line.State != cache.Invalid {
				rsp.Addr = line.Addr
				rsp.Data = line.Data
			}
			lines = append(lines, rsp)
		}
	}

	bytes, err := json.Marshal(lines)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listMemory(w http.ResponseWriter, _ *http.Request) {
	_, memory := m.controller.Snapshot()

	values := make([]int, len(memory))
	for i, v := range memory {
		values[i] = int(v)
	}

	bytes, err := json.Marshal(values)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) controllerDetails(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.controller)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
