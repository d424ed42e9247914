// SPDX-License-Identifier: GPL-2.0-or-later

// Package progress draws a progress bar for long running exports.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

const descLength = 24

// Bar shows how many of a known number of levels are done. A disabled Bar
// ignores all calls.
type Bar struct {
	out       *os.File
	container *mpb.Progress
	bar       *mpb.Bar

	mu   sync.Mutex
	desc string
}

// New creates a bar for total steps on out. The bar is only drawn if enabled
// is set and out is a terminal.
func New(out *os.File, total int, enabled bool) *Bar {
	b := &Bar{}
	if !enabled || out == nil || !term.IsTerminal(int(out.Fd())) {
		return b
	}
	fmt.Fprintln(out)
	b.out = out
	b.container = mpb.New(
		mpb.WithOutput(out),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)
	b.bar = b.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				return b.description()
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return b
}

// Enabled reports whether b is drawn.
func (b *Bar) Enabled() bool {
	return b.bar != nil
}

func (b *Bar) description() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return shorten(b.desc)
}

// Describe sets the text shown in front of the bar.
func (b *Bar) Describe(s string) {
	b.mu.Lock()
	b.desc = s
	b.mu.Unlock()
}

// Increment marks one step as done.
func (b *Bar) Increment() {
	if b.bar == nil {
		return
	}
	b.bar.Increment()
}

// Wait blocks until the bar is completely drawn. Steps that never happened
// are dropped.
func (b *Bar) Wait() {
	if b.container == nil {
		return
	}
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.container.Wait()
	fmt.Fprintln(b.out)
}

func shorten(s string) string {
	if len(s) > descLength {
		return s[:descLength-2] + ".."
	}
	return s
}
