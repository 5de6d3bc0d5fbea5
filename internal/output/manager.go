package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	statusPending     = "pending"
	statusDownloading = "downloading"
	statusSuccess     = "success"
	statusError       = "error"
)

// Download is the display state of one job.
type Download struct {
	ID        string
	Name      string
	Status    string
	Message   string
	Total     int64
	Received  int64
	Err       error
	StartTime time.Time
	Updated   time.Time
	index     int
}

type failure struct {
	name string
	err  error
	at   time.Time
}

// Manager renders job progress to the terminal. Its OnStart, OnProgress and OnDone methods
// let it observe the download engine directly; they only take a lock and never do I/O.
type Manager struct {
	mu          sync.RWMutex
	downloads   map[string]*Download
	failures    []failure
	count       int
	numLines    int
	out         io.Writer
	interactive bool
	displayTick time.Duration
	doneCh      chan struct{}
	displayWg   sync.WaitGroup
	stopOnce    sync.Once
}

func NewManager() *Manager {
	return newManager(os.Stdout, isTerminal())
}

func newManager(out io.Writer, interactive bool) *Manager {
	return &Manager{
		downloads:   make(map[string]*Download),
		out:         out,
		interactive: interactive,
		displayTick: 300 * time.Millisecond,
		doneCh:      make(chan struct{}),
	}
}

func (m *Manager) Register(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	now := time.Now()
	m.downloads[id] = &Download{
		ID:        id,
		Name:      name,
		Status:    statusPending,
		StartTime: now,
		Updated:   now,
		index:     m.count,
	}
}

func (m *Manager) update(id string, fn func(d *Download)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.downloads[id]; ok {
		fn(d)
		d.Updated = time.Now()
	}
}

func (m *Manager) SetMessage(id, message string) {
	m.update(id, func(d *Download) { d.Message = message })
}

func (m *Manager) OnStart(id string, total int64) {
	m.update(id, func(d *Download) {
		d.Status = statusDownloading
		d.Total = total
		d.Received = 0
		d.StartTime = time.Now()
	})
}

func (m *Manager) OnProgress(id string, bytesSoFar int64) {
	m.update(id, func(d *Download) {
		if bytesSoFar > d.Received {
			d.Received = bytesSoFar
		}
	})
}

// OnDone marks the byte transfer finished. The job may still have post-processing left, so
// it stays active until Complete.
func (m *Manager) OnDone(id string) {
	m.update(id, func(d *Download) {
		d.Received = d.Total
		d.Message = "Finalizing " + d.Name
	})
}

func (m *Manager) Complete(id, message string) {
	m.update(id, func(d *Download) {
		d.Status = statusSuccess
		if message == "" {
			message = "Completed " + d.Name
		}
		d.Message = message
	})
	if !m.interactive {
		m.printPlain(id)
	}
}

func (m *Manager) ReportError(id string, err error) {
	m.mu.Lock()
	if d, ok := m.downloads[id]; ok {
		d.Status = statusError
		d.Err = err
		d.Message = "Failed " + d.Name
		d.Updated = time.Now()
		m.failures = append(m.failures, failure{name: d.Name, err: err, at: d.Updated})
	}
	m.mu.Unlock()
	if !m.interactive {
		m.printPlain(id)
	}
}

// Get returns a copy of the current state of id.
func (m *Manager) Get(id string) (Download, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.downloads[id]
	if !ok {
		return Download{}, false
	}
	return *d, true
}

// Counts returns the number of succeeded and failed jobs.
func (m *Manager) Counts() (succeeded, failed int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.downloads {
		switch d.Status {
		case statusSuccess:
			succeeded++
		case statusError:
			failed++
		}
	}
	return succeeded, failed
}

func (m *Manager) sorted() []*Download {
	all := make([]*Download, 0, len(m.downloads))
	for _, d := range m.downloads {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].index < all[j].index })
	return all
}

func statusIndicator(status string) string {
	switch status {
	case statusSuccess:
		return successStyle.Render(symbols["pass"])
	case statusError:
		return errorStyle.Render(symbols["fail"])
	case statusPending:
		return pendingStyle.Render(symbols["pending"])
	default:
		return infoStyle.Render(symbols["bullet"])
	}
}

func (d *Download) render(width int) []string {
	elapsed := time.Since(d.StartTime).Round(time.Second)
	if d.Status == statusSuccess || d.Status == statusError {
		elapsed = d.Updated.Sub(d.StartTime).Round(time.Second)
	}
	message := d.Message
	if message == "" {
		message = d.Name
	}
	var styled string
	switch d.Status {
	case statusSuccess:
		styled = successStyle.Render(truncate(message, width-16))
	case statusError:
		styled = errorStyle.Render(truncate(message, width-16))
	case statusPending:
		styled = pendingStyle.Render(truncate("Waiting "+message, width-16))
	default:
		styled = pendingStyle.Render(truncate(message, width-16))
	}
	lines := []string{fmt.Sprintf("  %s %s %s", statusIndicator(d.Status), debugStyle.Render(elapsed.String()), styled)}
	if d.Status == statusDownloading && d.Total > 0 {
		stats := fmt.Sprintf("%s / %s %s %s", FormatBytes(uint64(d.Received)), FormatBytes(uint64(d.Total)),
			symbols["bullet"], FormatSpeed(d.Received, time.Since(d.StartTime)))
		lines = append(lines, "      "+streamStyle.Render(progressBar(d.Received, d.Total, 30)+" "+stats))
	}
	return lines
}

func (m *Manager) redraw() {
	m.mu.Lock()
	defer m.mu.Unlock()
	width, height := terminalSize()
	available := height - 3
	if m.numLines > 0 {
		fmt.Fprintf(m.out, "\033[%dA\033[J", m.numLines)
	}

	var active, finished []*Download
	for _, d := range m.sorted() {
		if d.Status == statusSuccess || d.Status == statusError {
			finished = append(finished, d)
		} else {
			active = append(active, d)
		}
	}
	var lines []string
	for _, d := range active {
		lines = append(lines, d.render(width)...)
	}
	// finished jobs are the first to go when the terminal is short
	keep := max(0, min(len(finished), available-len(lines)))
	if hidden := len(finished) - keep; hidden > 0 {
		lines = append(lines, infoStyle.Render(fmt.Sprintf("  %d earlier jobs finished ...", hidden)))
		if keep > 0 {
			keep--
		}
	}
	for _, d := range finished[len(finished)-keep:] {
		lines = append(lines, d.render(width)...)
	}
	if len(lines) > available {
		lines = lines[:max(available, 0)]
	}
	for _, line := range lines {
		fmt.Fprintln(m.out, line)
	}
	m.numLines = len(lines)
}

func (m *Manager) printPlain(id string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.downloads[id]; ok {
		width, _ := terminalSize()
		fmt.Fprintln(m.out, d.render(width)[0])
	}
}

// StartDisplay redraws the job list until StopDisplay. Without a terminal only final job
// states are printed.
func (m *Manager) StartDisplay() {
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if m.interactive {
					m.redraw()
				}
			case <-m.doneCh:
				if m.interactive {
					m.redraw()
				}
				m.ShowSummary()
				return
			}
		}
	}()
}

func (m *Manager) StopDisplay() {
	m.stopOnce.Do(func() { close(m.doneCh) })
	m.displayWg.Wait()
}

func (m *Manager) ShowSummary() {
	succeeded, failed := m.Counts()
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := len(m.downloads)
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "  "+totalStyle.Render(fmt.Sprintf("Completed %d of %d", succeeded, total)))
	if failed > 0 {
		fmt.Fprintln(m.out, "  "+errorStyle.Render(fmt.Sprintf("Failed %d of %d", failed, total)))
	}
	if len(m.failures) > 0 {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "  "+errorStyle.Bold(true).Render("Errors:"))
		for i, f := range m.failures {
			fmt.Fprintf(m.out, "    %s %s %s\n", errorStyle.Render(fmt.Sprintf("%d.", i+1)),
				debugStyle.Render(fmt.Sprintf("[%s]", f.at.Format("15:04:05"))), errorStyle.Render(f.name))
			fmt.Fprintf(m.out, "      %s\n", errorStyle.Render(strings.TrimSpace(f.err.Error())))
		}
	}
	fmt.Fprintln(m.out)
}
