package device

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	KeyCapture = "c"
	KeyQuit    = "q"
)

// AwaitCapture reads commands from in until the user asks to capture (true)
// or to quit (false). End of input counts as quit.
//
// Reading happens on a separate goroutine so ctx can interrupt a blocked read.
// A read that is still blocked when AwaitCapture returns keeps that goroutine
// alive until in yields its next line or is closed; the line is then dropped
// and the goroutine exits. Call it at most once per reader: buffered input
// past the command line is not handed back.
func AwaitCapture(ctx context.Context, in io.Reader, out io.Writer) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	fmt.Fprintf(out, "Press %q then Enter to capture a photo, %q to quit.\n", KeyCapture, KeyQuit)

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return false, fmt.Errorf("failed to read input: %w", err)
				}
				return false, nil
			}

			switch strings.ToLower(strings.TrimSpace(line)) {
			case KeyCapture:
				return true, nil
			case KeyQuit:
				return false, nil
			default:
				fmt.Fprintf(out, "Unknown key %q, press %q or %q.\n", line, KeyCapture, KeyQuit)
			}
		}
	}
}
