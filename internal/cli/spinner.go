package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinInterval = 80 * time.Millisecond

// spin animates msg on w until the returned stop function is called or ctx
// is done. stop clears the line, waits for the animation to exit and may be
// called more than once.
func spin(ctx context.Context, w io.Writer, msg string) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	blank := "\r" + strings.Repeat(" ", lipgloss.Width(msg)+2) + "\r"

	go func() {
		defer close(done)
		t := time.NewTicker(spinInterval)
		defer t.Stop()
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				fmt.Fprint(w, blank)
				return
			case <-t.C:
				fmt.Fprintf(w, "\r%s %s", StyleAccent.Render(spinFrames[i%len(spinFrames)]), StyleDim.Render(msg))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
