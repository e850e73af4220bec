package styles

import "github.com/charmbracelet/lipgloss"

type Style struct {
	Doc      lipgloss.Style
	TitleBar lipgloss.Style
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Error    lipgloss.Style
	Green    lipgloss.Style // personal best lap
	Purple   lipgloss.Style // overall best lap
	Subtle   lipgloss.Style
}

func Default() *Style {
	red := lipgloss.Color("#CF040E")
	green := lipgloss.Color("#17C81D")
	purple := lipgloss.Color("#DA0ED3")
	subtle := lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	primaryForeground := lipgloss.AdaptiveColor{Light: "#383838", Dark: "#D9DCCF"}

	return &Style{
		Doc: lipgloss.NewStyle().Margin(1, 2),
		TitleBar: lipgloss.NewStyle().
			Align(lipgloss.Center).
			Bold(true).
			PaddingBottom(1).
			Foreground(primaryForeground),
		Header: lipgloss.NewStyle().
			Underline(true).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Faint(true).
			PaddingTop(1),
		Error: lipgloss.NewStyle().
			Foreground(red).
			Bold(true),
		Green:  lipgloss.NewStyle().Foreground(green),
		Purple: lipgloss.NewStyle().Foreground(purple),
		Subtle: lipgloss.NewStyle().Foreground(subtle),
	}
}
