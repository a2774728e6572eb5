package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	providedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <engine.wasm>",
		Short: "Browse the engine's imports interactively",
		Long: `The inspect command opens a terminal browser over the engine module's imports,
marking each one as provided or missing. Press / to filter and m to show only
missing imports. Without a terminal it prints the same report as stat.

Example:
  generals-shim inspect generals.wasm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, size, err := inspectEngine(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				printStat(cmd.OutOrStdout(), args[0], size, info)
				return nil
			}
			p := tea.NewProgram(newInspectModel(args[0], size, info), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type inspectModel struct {
	info        *runtime.EngineInfo
	filename    string
	visible     []runtime.Import
	filter      textinput.Model
	size        int
	selected    int
	offset      int
	height      int
	missingOnly bool
	filtering   bool
}

func newInspectModel(filename string, size int, info *runtime.EngineInfo) *inspectModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.Width = 40

	m := &inspectModel{
		info:     info,
		filename: filename,
		filter:   ti,
		size:     size,
		height:   20,
	}
	m.refresh()
	return m
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

// refresh recomputes the visible imports from the filter and the
// missing-only toggle.
func (m *inspectModel) refresh() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for _, imp := range m.info.Imports {
		if m.missingOnly && imp.Provided {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(imp.Module+"."+imp.Name), needle) {
			continue
		}
		m.visible = append(m.visible, imp)
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
	m.scroll()
}

func (m *inspectModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 1)
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
				m.filter.Blur()
				return m, nil
			case "esc":
				m.filtering = false
				m.filter.Blur()
				m.filter.SetValue("")
				m.refresh()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.refresh()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.scroll()
			}
		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
				m.scroll()
			}
		case "/":
			m.filtering = true
			return m, m.filter.Focus()
		case "m":
			m.missingOnly = !m.missingOnly
			m.refresh()
		case "esc":
			m.filter.SetValue("")
			m.missingOnly = false
			m.refresh()
		}
	}
	return m, nil
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Engine Imports"))
	fmt.Fprintf(&b, " %s (%s)\n", m.filename, humanize.IBytes(uint64(m.size)))
	fmt.Fprintf(&b, "%d imports, %s, %d exports\n\n",
		len(m.info.Imports),
		missingStyle.Render(fmt.Sprintf("%d missing", len(m.info.Missing()))),
		len(m.info.Exports))

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	end := min(m.offset+m.height, len(m.visible))
	for i := m.offset; i < end; i++ {
		imp := m.visible[i]
		status := providedStyle.Render("ok     ")
		if !imp.Provided {
			status = missingStyle.Render("missing")
		}
		line := status + " " + moduleStyle.Render(imp.Module) + "." + imp.Name
		if i == m.selected {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("  no imports match"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • / filter • m missing only • esc clear • q quit"))
	return b.String()
}
