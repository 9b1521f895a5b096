package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	mc "github.com/jpalmerr/missioncontrol"
)

// columnHeaders names the table columns of row-rendering panels.
var columnHeaders = map[mc.WidgetKind][]string{
	mc.WidgetBuildQueue:   {"Job", "Queued", "Waiting"},
	mc.WidgetBuildHistory: {"Job", "Build", "Finished", "Duration"},
}

// RenderPanels renders every panel, one below the other.
func RenderPanels(panels []mc.PanelState, width int, styles Styles) string {
	if len(panels) == 0 {
		return styles.Muted.Render("no panels configured")
	}
	blocks := make([]string, 0, len(panels))
	for _, p := range panels {
		blocks = append(blocks, RenderPanel(p, width, styles))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// RenderPanel renders one panel as a bordered box. Rows become a table and
// buttons become a wrapped line of coloured labels. width <= 0 disables
// wrapping.
func RenderPanel(p mc.PanelState, width int, styles Styles) string {
	var rows, buttons []mc.Element
	for _, el := range p.Elements {
		switch el.Kind {
		case mc.ElementRow:
			rows = append(rows, el)
		case mc.ElementButton:
			buttons = append(buttons, el)
		}
	}

	inner := width - styles.PanelBox.GetHorizontalFrameSize()

	var b strings.Builder
	b.WriteString(styles.Heading.Render(p.Title))
	if !p.RefreshedAt.IsZero() {
		b.WriteString(styles.Muted.Render("  " + p.RefreshedAt.Format(time.TimeOnly)))
	}
	b.WriteString("\n")
	if p.Error != "" {
		b.WriteString(styles.Stale.Render(truncateToWidth("stale: "+p.Error, inner)))
		b.WriteString("\n")
	}

	if len(rows) == 0 && len(buttons) == 0 {
		b.WriteString(styles.Muted.Render("Nothing to show"))
	}
	if len(rows) > 0 {
		b.WriteString(renderRows(p.Kind, rows, styles))
	}
	if len(buttons) > 0 {
		if len(rows) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderButtons(buttons, inner, styles))
	}

	box := styles.PanelBox
	if width > 0 {
		box = box.Width(width - styles.PanelBox.GetHorizontalBorderSize())
	}
	return box.Render(b.String())
}

func renderRows(kind mc.WidgetKind, rows []mc.Element, styles Styles) string {
	data := make([][]string, len(rows))
	for i, el := range rows {
		cells := make([]string, len(el.Cells))
		for j, c := range el.Cells {
			cells[j] = truncateToWidth(c.Text, styles.MaxCellWidth)
		}
		data[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header
			}
			if row >= 0 && row < len(rows) {
				return styles.ForClass(rows[row].Class).Inherit(styles.Cell)
			}
			return styles.Cell
		}).
		Rows(data...)
	if headers, ok := columnHeaders[kind]; ok {
		t = t.Headers(headers...)
	}
	return t.String()
}

func renderButtons(buttons []mc.Element, width int, styles Styles) string {
	var lines []string
	var line strings.Builder
	lineWidth := 0
	sepWidth := runewidth.StringWidth(styles.ButtonSep)

	for _, el := range buttons {
		label := truncateToWidth(el.Label, styles.MaxCellWidth)
		w := runewidth.StringWidth(label)
		if lineWidth > 0 && width > 0 && lineWidth+sepWidth+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteString(styles.ButtonSep)
			lineWidth += sepWidth
		}
		line.WriteString(styles.ForClass(el.Class).Render(label))
		lineWidth += w
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// truncateToWidth cuts s to at most width display columns, marking the cut
// with an ellipsis. width <= 0 returns s unchanged.
func truncateToWidth(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	var b strings.Builder
	current := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if current+rw > width-1 {
			break
		}
		b.WriteRune(r)
		current += rw
	}
	b.WriteString("…")
	return b.String()
}
