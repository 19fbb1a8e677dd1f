package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eleven-am/lingualens/internal/capture"
	"github.com/eleven-am/lingualens/internal/device"
	"github.com/eleven-am/lingualens/internal/locale"
	"github.com/eleven-am/lingualens/internal/ui"
)

// chromeLines counts header, status bar, two dividers and the footer.
const chromeLines = 5

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	body := m.bodyHeight()
	switch {
	case m.drawer.Lightbox != "":
		sections = append(sections, fitLines(m.renderLightbox(body), body))
	case m.drawer.Open:
		drawerH := m.visibleDrawerHeight()
		sections = append(sections, fitLines(m.renderMain(body-drawerH), body-drawerH))
		sections = append(sections, fitLines(m.renderDrawer(drawerH), drawerH))
	default:
		sections = append(sections, fitLines(m.renderMain(body), body))
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	lang := m.session.Language()
	title := ui.TitleStyle.Render("LINGUALENS")
	info := ui.DimStyle.Render(fmt.Sprintf(" — %s · %s", lang, m.session.Mode()))

	var tts string
	switch {
	case m.toggle.Enabled && m.toggle.Muted:
		tts = ui.DimStyle.Render("  [TTS muted]")
	case m.toggle.Enabled:
		tts = ui.BadgeStyle.Render("  [TTS]")
	}
	return title + info + tts
}

func (m Model) renderStatusBar() string {
	var dot string
	switch m.session.CameraState() {
	case device.StateActive:
		dot = ui.LiveDotStyle.Render("● LIVE") + ui.DimStyle.Render(" "+string(m.session.Facing()))
	case device.StateRequesting:
		dot = ui.SpinnerStyle.Render("◌ ...")
	default:
		dot = ui.IdleDotStyle.Render("○ OFF") + ui.DimStyle.Render(" "+string(m.facing))
	}

	st := m.session.State()
	var processing string
	if st.Phase == capture.PhaseAwaiting || m.capturing {
		processing = "  " + ui.SpinnerStyle.Render("⟳")
	}
	if m.speaking {
		processing += "  " + ui.SpinnerStyle.Render("♪")
	}

	var status string
	if !st.Status.Empty() {
		status = "  " + statusStyle(st.Status.Kind).Render(st.Status.Message)
	}
	return dot + processing + status
}

func statusStyle(kind capture.StatusKind) lipgloss.Style {
	switch kind {
	case capture.StatusSuccess:
		return ui.SuccessStyle
	case capture.StatusError:
		return ui.ErrorStyle
	default:
		return ui.InfoStyle
	}
}

func (m Model) renderMain(height int) string {
	cur, ok := m.session.Current()
	if !ok {
		return ui.PlaceholderStyle.Render(m.text(locale.KeyStatusIdle))
	}

	previewW := m.width / 2
	previewH := height
	preview := ui.RenderImage(m.images.get(cur), previewW, previewH, cur.Facing.Mirrored())
	if preview == "" {
		preview = ui.PlaceholderStyle.Render(m.catalog.Text(cur.Language, locale.KeyCapturedImage))
	}

	panelW := m.width - lipgloss.Width(preview) - 2
	panel := m.renderResult(cur, panelW)
	return lipgloss.JoinHorizontal(lipgloss.Top, preview, "  ", panel)
}

// renderResult renders a record's outcome under labels in its own language.
func (m Model) renderResult(rec capture.Record, width int) string {
	lang := rec.Language
	header := ui.DimStyle.Render(rec.Timestamp + " · " + lang)

	switch {
	case rec.Pending():
		return header + "\n" + ui.SpinnerStyle.Render(m.catalog.Text(lang, locale.KeyProcessing))
	case rec.Failed():
		return header + "\n" + ui.ErrorStyle.Render(strings.Join(wrapText(rec.Error, width), "\n"))
	}

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.LabelStyle.Render(m.catalog.Text(lang, locale.KeyTranslation)))
	if rec.Result.Translation == "" {
		lines = append(lines, ui.PlaceholderStyle.Render(m.catalog.Text(lang, locale.KeyNoText)))
	} else {
		for _, l := range wrapText(rec.Result.Translation, width) {
			lines = append(lines, ui.ValueStyle.Render(l))
		}
	}
	if rec.Result.Description != "" {
		lines = append(lines, "")
		lines = append(lines, ui.LabelStyle.Render(m.catalog.Text(lang, locale.KeyDescription)))
		for _, l := range wrapText(rec.Result.Description, width) {
			lines = append(lines, ui.ValueStyle.Render(l))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDrawer(height int) string {
	history := m.session.History()
	title := ui.LabelStyle.Render(m.text(locale.KeyHistory)) + ui.DimStyle.Render(fmt.Sprintf(" (%d)", len(history)))
	lines := []string{title}

	if len(history) == 0 {
		lines = append(lines, ui.PlaceholderStyle.Render(m.text(locale.KeyEmptyHistory)))
		return ui.DrawerStyle.Width(m.width).Render(strings.Join(lines, "\n"))
	}

	rows := height - 2
	for i := m.drawerScroll; i < len(history) && i < m.drawerScroll+rows; i++ {
		lines = append(lines, m.renderHistoryItem(history[i], i == m.drawer.Selected))
	}
	return ui.DrawerStyle.Width(m.width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHistoryItem(rec capture.Record, selected bool) string {
	var summary string
	switch {
	case rec.Failed():
		summary = ui.ErrorStyle.Render(rec.Error)
	case rec.Result == nil:
		summary = ui.SpinnerStyle.Render(m.catalog.Text(rec.Language, locale.KeyProcessing))
	case rec.Result.Translation == "":
		summary = ui.PlaceholderStyle.Render(m.catalog.Text(rec.Language, locale.KeyNoText))
	default:
		summary = rec.Result.Translation
	}

	prefix := "  "
	if selected {
		prefix = ui.SelectedStyle.Render("▸ ")
	}
	line := prefix + ui.DimStyle.Render(rec.Timestamp+" "+rec.Language+" ") + summary
	return truncateToWidth(line, m.width)
}

func (m Model) renderLightbox(height int) string {
	rec, ok := m.session.Lookup(m.drawer.Lightbox)
	if !ok {
		return ""
	}

	imgH := height * 2 / 3
	img := ui.RenderImage(m.images.get(rec), m.width-4, imgH, rec.Facing.Mirrored())
	if img == "" {
		img = ui.PlaceholderStyle.Render(m.catalog.Text(rec.Language, locale.KeyCapturedImage))
	}
	content := img + "\n" + m.renderResult(rec, m.width-4)
	return ui.LightboxStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderFooter() string {
	var parts []string
	key := func(k, desc string) {
		parts = append(parts, ui.FooterKeyStyle.Render(k)+ui.FooterDescStyle.Render(" "+desc))
	}

	if m.session.CameraState() == device.StateActive {
		key("s", "Stop")
		key("c", "Capture")
		key("f", "Flip")
	} else {
		key("s", "Camera")
	}
	key("l", "Lang")
	key("m", "Mode")
	key("t", "TTS")
	key("p", "Speak")
	key("h", "History")
	if m.drawer.Open || m.drawer.Lightbox != "" {
		key("enter", "View")
		key("d", "Delete")
		key("x", "Clear")
		key("esc", "Close")
	}
	key("q", "Quit")

	return truncateToWidth(strings.Join(parts, "  "), m.width)
}

func (m Model) bodyHeight() int {
	return max(1, m.height-chromeLines)
}

func (m Model) drawerHeight() int {
	return max(4, m.bodyHeight()/2)
}

// visibleDrawerHeight shrinks the drawer by the current drag offset.
func (m Model) visibleDrawerHeight() int {
	return max(2, m.drawerHeight()-m.gesture.Offset())
}

func (m Model) drawerTop() int {
	return chromeLines - 2 + m.bodyHeight() - m.visibleDrawerHeight()
}

func (m Model) drawerRows() int {
	return m.drawerHeight() - 2
}

// Helpers

func fitLines(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if lipgloss.Width(current)+1+lipgloss.Width(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
