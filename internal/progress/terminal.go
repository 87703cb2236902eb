package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// TerminalSink redraws one status line per update, tqdm style:
//
//	Running on cpu:0: 12it [00:01, 9.80it/s, step=12, log_Z=-3.21, num_likelihood_evals=480]
//
// Displays of several workers share the writer; each line is written whole.
type TerminalSink struct {
	mu    sync.Mutex
	w     io.Writer
	title lipgloss.Style
	stats lipgloss.Style
	done  lipgloss.Style
	now   func() time.Time
}

// NewTerminalSink styles output for w's color capabilities.
func NewTerminalSink(w io.Writer) *TerminalSink {
	r := lipgloss.NewRenderer(w)
	return &TerminalSink{
		w:     w,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		stats: r.NewStyle().Foreground(lipgloss.Color("#A8A8A8")),
		done:  r.NewStyle().Foreground(lipgloss.Color("#04B575")),
		now:   time.Now,
	}
}

func (s *TerminalSink) Open(l Label) (Display, error) {
	return &terminalDisplay{sink: s, label: l, start: s.now()}, nil
}

func (s *TerminalSink) write(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line)
	return err
}

type terminalDisplay struct {
	sink  *TerminalSink
	label Label
	start time.Time
	n     int
}

func (d *terminalDisplay) Update(u Update) error {
	d.n++
	elapsed := d.sink.now().Sub(d.start)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(d.n) / secs
	}
	stats := fmt.Sprintf("%dit [%s, %.2fit/s, step=%d, log_Z=%.4g, num_likelihood_evals=%d]",
		d.n, clock(elapsed), rate, u.StepIdx, u.LogZ, u.NumLikelihoodEvaluations)
	return d.sink.write("\r" + d.sink.title.Render(d.label.Description()+":") + " " + d.sink.stats.Render(stats))
}

func (d *terminalDisplay) Close(s Summary) error {
	tail := fmt.Sprintf(" done in %s", clock(s.Elapsed))
	if s.Dropped > 0 {
		tail += fmt.Sprintf(" (%d updates not shown)", s.Dropped)
	}
	return d.sink.write(d.sink.done.Render(tail) + "\n")
}

// clock formats d as mm:ss, or h:mm:ss past an hour.
func clock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
