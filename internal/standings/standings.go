// Package standings prints the final leaderboard once the dashboard has closed.
package standings

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bcdxn/lapboard/internal/domain"
)

// Render writes the cars, already in display order, as a plain text table.
func Render(w io.Writer, cars []domain.Car, criterion domain.Criterion) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Final standings (by %s)", criterion))
	t.AppendHeader(table.Row{"Pos", "Track", "Car", "Laps", "Best", "Last"})
	for i, car := range cars {
		best := "-"
		if b, ok := car.Timing.Best(); ok {
			best = fmt.Sprintf("%.3fs", b.Seconds())
		}
		last := "-"
		if car.Timing.Laps > 0 {
			last = fmt.Sprintf("%.3fs", car.Timing.LastLap.Seconds())
		}
		t.AppendRow(table.Row{i + 1, car.Track, car.Name, car.Timing.Laps, best, last})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}
