/*
@Author: Lzww
@LastEditTime: 2025-9-21 19:27:40
@Description: Run report
@Language: Go 1.23.4
*/

package recvbench

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/sugawarayuuta/sonnet"
)

// WindowSummary describes the round samples kept in the history window.
type WindowSummary struct {
	Rounds int           `json:"rounds"`
	Min    time.Duration `json:"min_ns"`
	Max    time.Duration `json:"max_ns"`
	Mean   time.Duration `json:"mean_ns"`
}

type Result struct {
	Strategy   string        `json:"strategy"`
	BufferSize int           `json:"buffer_size"`
	Rounds     int           `json:"rounds"`
	Sent       int           `json:"sent"`
	Received   int           `json:"received"`
	Mismatched int           `json:"mismatched"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Window     WindowSummary `json:"window"`
	Stats      *Stats        `json:"stats,omitempty"`
}

func (r *Result) summarize(history *RingBuffer[RoundSample]) {
	var w WindowSummary
	var total time.Duration
	history.ForEach(func(s *RoundSample) bool {
		if w.Rounds == 0 || s.Duration < w.Min {
			w.Min = s.Duration
		}
		if s.Duration > w.Max {
			w.Max = s.Duration
		}
		total += s.Duration
		w.Rounds++
		return true
	})
	if w.Rounds > 0 {
		w.Mean = total / time.Duration(w.Rounds)
	}
	r.Window = w
}

// Banner names the receive primitive in use.
func Banner(s Strategy) string {
	return fmt.Sprintf("Using %s()", s)
}

// FormatElapsed prints d as whole milliseconds followed by the six digit
// nanosecond remainder.
func FormatElapsed(d time.Duration) string {
	ns := d.Nanoseconds()
	return fmt.Sprintf("Elapsed time: %d.%06d ms", ns/int64(time.Millisecond), ns%int64(time.Millisecond))
}

// WriteText writes the elapsed time line, followed by the round window and
// the counters when Stats is set.
func (r *Result) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, FormatElapsed(r.Elapsed)); err != nil {
		return errors.WithStack(err)
	}
	if r.Stats == nil {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Rounds\tSent\tReceived\tMismatched\tWindowMin\tWindowMax\tWindowMean\n")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\t%s\n", r.Rounds, r.Sent, r.Received, r.Mismatched,
		r.Window.Min, r.Window.Max, r.Window.Mean)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, strings.Join(r.Stats.Header(), "\t"))
	fmt.Fprintln(tw, strings.Join(r.Stats.ToSlice(), "\t"))
	return errors.WithStack(tw.Flush())
}

// WriteJSON writes the result as one JSON document.
func (r *Result) WriteJSON(w io.Writer) error {
	data, err := sonnet.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return errors.WithStack(err)
}
