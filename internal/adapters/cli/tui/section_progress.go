package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/devbush/daybrief/internal/application"
)

// renderProgressBar creates a text progress bar like [=====>    ]
// current=0, total=10, width=10 → [          ]
// current=5, total=10, width=10 → [=====>    ]
// current=10, total=10, width=10 → [==========]
// current=3, total=10, width=10 → [==>       ]
func renderProgressBar(current, total, width int) string {
	if total <= 0 || current <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}
	if current >= total {
		return "[" + strings.Repeat("=", width) + "]"
	}

	ratio := float64(current) / float64(total)
	head := int(ratio*float64(width) + 0.5)
	equals := head - 1
	if ratio >= 0.5 {
		equals = head
	}
	equals = max(0, min(equals, width-1))

	return "[" + strings.Repeat("=", equals) + ">" + strings.Repeat(" ", width-equals-1) + "]"
}

// SectionProgress renders build progress. It implements
// application.ProgressSink and is safe for concurrent use.
type SectionProgress struct {
	w        io.Writer
	total    int
	live     bool // redraw in place; otherwise print one line per section
	running  []string
	results  []application.SectionResult
	lines    int // lines drawn by the last live render
	mu       sync.Mutex
}

var _ application.ProgressSink = (*SectionProgress)(nil)

// NewSectionProgress creates a progress display for total sections. Live
// mode uses ANSI cursor movement and should only be used on a terminal.
func NewSectionProgress(w io.Writer, total int, live bool) *SectionProgress {
	return &SectionProgress{w: w, total: max(total, 0), live: live}
}

func (p *SectionProgress) SectionStarted(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running = append(p.running, name)
	if p.live {
		p.render()
	}
}

func (p *SectionProgress) SectionFinished(res application.SectionResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, name := range p.running {
		if name == res.Name {
			p.running = append(p.running[:i], p.running[i+1:]...)
			break
		}
	}
	p.results = append(p.results, res)

	if p.live {
		p.render()
		return
	}
	fmt.Fprintln(p.w, resultLine(res))
}

func (p *SectionProgress) render() {
	if p.lines > 0 {
		fmt.Fprintf(p.w, "\033[%dA\033[J", p.lines)
	}

	done := len(p.results)
	percent := 0
	if p.total > 0 {
		percent = done * 100 / p.total
	}
	lines := []string{fmt.Sprintf("Building %d/%d sections %s %d%%",
		done, p.total, renderProgressBar(done, p.total, 20), percent)}

	for _, res := range p.results {
		lines = append(lines, resultLine(res))
	}
	for _, name := range p.running {
		lines = append(lines, hintStyle.Render("… "+name))
	}

	fmt.Fprintln(p.w, strings.Join(lines, "\n"))
	p.lines = len(lines)
}

func resultLine(res application.SectionResult) string {
	if res.Err != nil {
		return failStyle.Render(fmt.Sprintf("✗ %s: %v", res.Name, res.Err))
	}
	return okStyle.Render(fmt.Sprintf("✓ %s (%.1fs)", res.Name, res.Duration.Seconds()))
}

// Complete prints the final summary of a build
func (p *SectionProgress) Complete(result *application.BuildResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	failed := result.Failed()
	fmt.Fprintln(p.w)
	if len(failed) == 0 {
		fmt.Fprintln(p.w, okStyle.Render(fmt.Sprintf("✓ Brief built (%d sections)", len(result.Sections))))
	} else {
		fmt.Fprintln(p.w, warnStyle.Render(fmt.Sprintf("! Brief built with %d/%d sections unavailable",
			len(failed), len(result.Sections))))
	}

	outputs := [][2]string{
		{"Sections", result.SectionsPath},
		{"Data", result.DataJSON},
	}
	if result.Typeset {
		outputs = append(outputs, [2]string{"PDF", result.Output})
	}
	for _, o := range outputs {
		if o[1] != "" {
			fmt.Fprintf(p.w, "  %-8s %s\n", o[0]+":", o[1])
		}
	}

	fmt.Fprintf(p.w, "  %-8s %s\n", "Cutoff:", FormatTime(result.Cutoff))
	if result.Recorded {
		fmt.Fprintf(p.w, "  %-8s %s\n", "Official:", result.RunID)
	}
}
