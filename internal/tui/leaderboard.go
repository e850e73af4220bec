package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/bcdxn/lapboard/internal/domain"
	"github.com/bcdxn/lapboard/internal/laps"
	"github.com/bcdxn/lapboard/internal/leaderboard"
	"github.com/bcdxn/lapboard/internal/tui/styles"
)

// DefaultRefresh is how often the live split column is redrawn when no crossings arrive.
const DefaultRefresh = 100 * time.Millisecond

var (
	s = styles.Default()
)

// NewLeaderboard returns the bubbletea program drawing the given timing table. The program owns
// the terminal; it is restored on every exit path once Run returns.
func NewLeaderboard(t *laps.Table, opts ...TUIOption) *tea.Program {
	l := NewModel(t, opts...)
	// return new Bubbletea program
	return tea.NewProgram(l, tea.WithContext(l.ctx), tea.WithAltScreen())
}

// NewModel returns the leaderboard model without wrapping it in a program.
func NewModel(t *laps.Table, opts ...TUIOption) Leaderboard {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = s.Subtle

	l := Leaderboard{
		table:     t,
		criterion: domain.CriterionTrack,
		variant:   domain.VariantRanked,
		title:     "Race Timer",
		keys:      defaultKeyMap(),
		spinner:   sp,
		refresh:   DefaultRefresh,
		clock:     time.Now,
		logger:    slog.Default(),
		ctx:       context.Background(),
	}
	// apply given options
	for _, opt := range opts {
		opt(&l)
	}
	if l.variant == domain.VariantPlain {
		l.criterion = domain.CriterionTrack
	}
	l.order = leaderboard.Tracks(t.Cars())
	l.rerank()
	return l
}

type TUIOption = func(c *Leaderboard)

// WithLogger configures the logger to use within the TUI program
func WithLogger(l *slog.Logger) TUIOption {
	return func(b *Leaderboard) { b.logger = l }
}

// WithContext configures the context to use within the TUI program
func WithContext(ctx context.Context) TUIOption {
	return func(b *Leaderboard) { b.ctx = ctx }
}

// WithCriterion configures the initial ranking criterion.
func WithCriterion(c domain.Criterion) TUIOption {
	return func(b *Leaderboard) { b.criterion = c }
}

// WithVariant configures the layout.
func WithVariant(v domain.Variant) TUIOption {
	return func(b *Leaderboard) { b.variant = v }
}

// WithTitle configures the title drawn above the table.
func WithTitle(title string) TUIOption {
	return func(b *Leaderboard) { b.title = title }
}

// WithRefresh configures the redraw interval of the live split column.
func WithRefresh(d time.Duration) TUIOption {
	return func(b *Leaderboard) { b.refresh = d }
}

// WithClock configures the time source used for the live split column; primarily used for
// testing.
func WithClock(clock func() time.Time) TUIOption {
	return func(b *Leaderboard) { b.clock = clock }
}

/* Bubbletea Interface Implementation
------------------------------------------------------------------------------------------------- */

func (l Leaderboard) Init() tea.Cmd {
	return tea.Batch(tickCmd(l.refresh), l.spinner.Tick)
}

func (l Leaderboard) View() string {
	var v string
	switch {
	case l.err != nil:
		v = s.Error.Render(fmt.Sprintf("error: %s", l.err))
	case l.variant == domain.VariantPlain:
		v = lipgloss.JoinVertical(lipgloss.Left, titleView(l), plainTableView(l))
	default:
		v = lipgloss.JoinVertical(lipgloss.Left, titleView(l), rankedTableView(l), footerView(l))
	}
	return s.Doc.Render(v)
}

func (l Leaderboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyMsg(l, msg)
	case CrossingMsg:
		return handleCrossingMsg(l, msg)
	case TickMsg:
		return handleTickMsg(l, msg)
	case ErrorMsg:
		return handleErrorMsg(l, msg)
	case tea.WindowSizeMsg:
		l.width = msg.Width
		return l, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd
	}
	return l, nil
}

/* Tea Mesage Types
------------------------------------------------------------------------------------------------- */

// CrossingMsg carries one detector byte and its receipt time.
type CrossingMsg domain.Crossing

// TickMsg triggers a redraw of the live split column.
type TickMsg time.Time

// ErrorMsg reports a fatal failure; the program exits after drawing it.
type ErrorMsg struct {
	Err error
}

/* Tea Commands
------------------------------------------------------------------------------------------------- */

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

/* Tea Mesage handlers
------------------------------------------------------------------------------------------------- */

func handleKeyMsg(l Leaderboard, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, l.keys.Quit):
		l.logger.Debug("received quit key")
		return l, tea.Quit
	case key.Matches(msg, l.keys.Reset):
		l.logger.Info("reset requested from keyboard")
		l.table.Reset()
		l.rerank()
	case key.Matches(msg, l.keys.Sort) && l.variant == domain.VariantRanked:
		l.criterion = l.criterion.Next()
		l.logger.Debug("ranking criterion changed", "criterion", l.criterion)
		l.rerank()
	}
	return l, nil
}

func handleCrossingMsg(l Leaderboard, msg CrossingMsg) (tea.Model, tea.Cmd) {
	if action := l.table.Process(msg.Raw, msg.At); action != laps.ActionNone {
		l.rerank()
	}
	return l, nil
}

func handleTickMsg(l Leaderboard, _ TickMsg) (tea.Model, tea.Cmd) {
	return l, tickCmd(l.refresh)
}

func handleErrorMsg(l Leaderboard, msg ErrorMsg) (tea.Model, tea.Cmd) {
	l.logger.Error("leaderboard stopping", "err", msg.Err)
	l.err = msg.Err
	return l, tea.Quit
}

/* View Helper Functions
------------------------------------------------------------------------------------------------- */

func titleView(l Leaderboard) string {
	title := l.title
	if !anyStarted(l.table.Cars()) {
		title = fmt.Sprintf("%s %s", title, l.spinner.View())
	}
	if l.width <= 0 {
		return s.TitleBar.Render(title)
	}
	return s.TitleBar.Width(l.width - s.Doc.GetHorizontalFrameSize()).Render(title)
}

func rankedTableView(l Leaderboard) string {
	now := l.clock()
	standings := l.Standings()
	fastest, hasFastest := overallBest(standings)

	rows := make([]table.Row, 0, len(standings))
	for i, car := range standings {
		last := "-"
		if car.Timing.Laps > 0 {
			last = formatDuration(car.Timing.LastLap)
		}
		lastStyle := lipgloss.NewStyle()
		best := "-"
		if b, ok := car.Timing.Best(); ok {
			best = formatDuration(b)
			switch {
			case hasFastest && b == fastest && car.Timing.LastLap == b:
				lastStyle = s.Purple
			case car.Timing.LastLap == b:
				lastStyle = s.Green
			}
		}
		current := "-"
		if split, ok := car.Timing.Split(now); ok {
			current = formatDuration(split)
		}

		rows = append(rows, table.NewRow(table.RowData{
			"position": i + 1,
			"track":    car.Track,
			"name":     car.Name,
			"laps":     fmt.Sprintf("%03d", car.Timing.Laps),
			"last":     table.NewStyledCell(last, lastStyle),
			"best":     best,
			"current":  current,
		}))
	}

	return newTable().WithRows(rows).View()
}

// plainTableView draws the single-track layout as fixed-width text.
func plainTableView(l Leaderboard) string {
	now := l.clock()
	var b strings.Builder
	b.WriteString(s.Header.Render("Car              Laps   Last      Best      Current"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 51))
	for _, car := range l.Standings() {
		split, _ := car.Timing.Split(now)
		best, _ := car.Timing.Best()
		fmt.Fprintf(&b, "\n%-15s  %03d  %7.3fs  %7.3fs  %7.3fs",
			car.Name,
			car.Timing.Laps,
			car.Timing.LastLap.Seconds(),
			best.Seconds(),
			split.Seconds(),
		)
	}
	return b.String()
}

func footerView(l Leaderboard) string {
	hints := make([]string, 0, 3)
	for _, b := range []key.Binding{l.keys.Quit, l.keys.Reset, l.keys.Sort} {
		hints = append(hints, fmt.Sprintf("%s to %s", strings.ToUpper(b.Help().Key), b.Help().Desc))
	}
	return s.Footer.Render(fmt.Sprintf("press %s (by %s)", strings.Join(hints, ", "), l.criterion))
}

/* Leaderboard API
------------------------------------------------------------------------------------------------- */

// Standings returns the cars in their current display order.
func (l Leaderboard) Standings() []domain.Car {
	cars := make([]domain.Car, 0, len(l.order))
	for _, track := range l.order {
		if car, ok := l.table.Car(track); ok {
			cars = append(cars, car)
		}
	}
	return cars
}

// Criterion returns the ranking criterion currently in use.
func (l Leaderboard) Criterion() domain.Criterion {
	return l.criterion
}

// Err returns the fatal error that stopped the leaderboard, if any.
func (l Leaderboard) Err() error {
	return l.err
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// rerank sorts the previous display order, so ties keep their place on screen.
func (l *Leaderboard) rerank() {
	l.order = leaderboard.Tracks(leaderboard.Rank(l.Standings(), l.criterion))
}

func newTable() table.Model {
	return table.New([]table.Column{
		table.NewColumn("position", "POS", 5),
		table.NewColumn("track", "TRACK", 7),
		table.NewColumn("name", "CAR", 17).WithStyle(lipgloss.NewStyle().Align(lipgloss.Left)),
		table.NewColumn("laps", "LAPS", 6),
		table.NewColumn("last", "LAST", 10),
		table.NewColumn("best", "BEST", 10),
		table.NewColumn("current", "CURRENT", 10),
	}).
		WithRows([]table.Row{}).
		HeaderStyle(s.Header).
		WithBaseStyle(lipgloss.NewStyle().AlignHorizontal(lipgloss.Right))
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func anyStarted(cars []domain.Car) bool {
	for _, car := range cars {
		if car.Timing.Started() {
			return true
		}
	}
	return false
}

func overallBest(cars []domain.Car) (time.Duration, bool) {
	var (
		fastest time.Duration
		found   bool
	)
	for _, car := range cars {
		if b, ok := car.Timing.Best(); ok && (!found || b < fastest) {
			fastest = b
			found = true
		}
	}
	return fastest, found
}

/* Type Definitions
------------------------------------------------------------------------------------------------- */

type Leaderboard struct {
	table     *laps.Table
	order     []int
	criterion domain.Criterion
	variant   domain.Variant
	title     string
	keys      keyMap
	spinner   spinner.Model
	refresh   time.Duration
	clock     func() time.Time
	width     int
	err       error
	logger    *slog.Logger
	ctx       context.Context
}
