package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/samuelreed/tilegrid/internal/tui"
)

const keyHistorySize = 12

// keyTestModel echoes key presses and the binding each one triggers.
// Terminals differ in which ctrl and shift arrow chords they report.
type keyTestModel struct {
	keys    tui.KeyMap
	history []string
}

func (m keyTestModel) Init() tea.Cmd {
	return nil
}

func (m keyTestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		s := msg.String()
		if s == "q" || s == "ctrl+c" {
			return m, tea.Quit
		}
		m.history = append(m.history, describeKey(m.keys, s))
		if len(m.history) > keyHistorySize {
			m.history = m.history[len(m.history)-keyHistorySize:]
		}
	}
	return m, nil
}

func (m keyTestModel) View() string {
	var sb strings.Builder
	sb.WriteString("Key test\n========\n\nPress keys to see what tilegrid receives. Press 'q' to quit.\n\nRecent keys:\n")
	for _, line := range m.history {
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func describeKey(keys tui.KeyMap, s string) string {
	if desc, ok := keys.Describe(s); ok {
		return fmt.Sprintf("%-18q -> %s", s, desc)
	}
	return fmt.Sprintf("%-18q (unbound)", s)
}

func newKeysCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show the key bindings or test what the terminal sends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := tui.DefaultKeyMap()
			if list {
				for _, b := range keys.Bindings() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", strings.Join(b.Keys(), ", "), b.Help().Desc)
				}
				return nil
			}
			p := tea.NewProgram(keyTestModel{keys: keys}, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running key test: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "print the bindings and exit")
	return cmd
}
