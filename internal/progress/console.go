// Package progress renders pipeline progress on a console.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/zmohling/TDES/internal/pipeline"
)

const barWidth = 30

// Console implements pipeline.Reporter. On a terminal it redraws a single
// bar line; elsewhere it prints a line every 5%.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	name    string
	tty     bool
	lastPct int
}

// NewConsole reports progress for the file name to out.
func NewConsole(out io.Writer, name string) *Console {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &Console{out: out, name: name, tty: tty, lastPct: -1}
}

func (c *Console) Report(p pipeline.Progress) {
	pct := int(p.Fraction() * 100)

	c.mu.Lock()
	defer c.mu.Unlock()
	if pct == c.lastPct {
		return
	}

	label := "[" + strings.ToUpper(p.Mode.String()) + "]"
	sizes := fmt.Sprintf("(%s/%s)", humanize.Bytes(uint64(p.BytesWritten)), humanize.Bytes(uint64(p.WriteTotal)))

	if c.tty {
		filled := pct * barWidth / 100
		bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
		fmt.Fprintf(c.out, "\r%s %s [%s] %3d%% %s", label, c.name, bar, pct, sizes)
		if pct == 100 {
			fmt.Fprintln(c.out)
		}
		c.lastPct = pct
		return
	}

	if pct%5 == 0 || pct == 100 {
		fmt.Fprintf(c.out, "%s %s  %d%%  %s\n", label, c.name, pct, sizes)
		c.lastPct = pct
	}
}
