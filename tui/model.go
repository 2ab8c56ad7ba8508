package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pulsator/score"
	"go-pulsator/sequencer"
	"go-pulsator/theme"
)

// laneWidth is the number of beats shown per lane.
const laneWidth = 48

type Model struct {
	Session  *sequencer.Session
	Theme    *theme.Theme
	failures chan error
	lastErr  error
	quitting bool
	lanes    []lane
}

// lane is one instrument's row of the score.
type lane struct {
	name     string
	elements []score.Element
}

type UpdateMsg struct{}

type FailureMsg struct{ Err error }

func NewModel(session *sequencer.Session, th *theme.Theme) Model {
	failures := make(chan error, 1)
	session.OnFailure(func(err error) {
		select {
		case failures <- err:
		default:
		}
	})
	return Model{
		Session:  session,
		Theme:    th,
		failures: failures,
		lanes:    buildLanes(session.Score()),
	}
}

func buildLanes(s *score.Score) []lane {
	var lanes []lane
	idx := map[string]int{}
	for _, e := range s.Elements {
		i, ok := idx[e.Instrument.Name]
		if !ok {
			i = len(lanes)
			idx[e.Instrument.Name] = i
			lanes = append(lanes, lane{name: e.Instrument.Name})
		}
		lanes[i].elements = append(lanes[i].elements, e)
	}
	return lanes
}

func ListenForUpdates(session *sequencer.Session) tea.Cmd {
	return func() tea.Msg {
		<-session.UpdateChan
		return UpdateMsg{}
	}
}

func listenForFailures(failures <-chan error) tea.Cmd {
	return func() tea.Msg {
		return FailureMsg{Err: <-failures}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Session),
		listenForFailures(m.failures),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Session.Stop()
			return m, tea.Quit

		case " ", "space", "p":
			m.lastErr = nil
			if m.Session.IsPlaying() {
				m.lastErr = m.Session.Pause()
			} else {
				m.lastErr = m.Session.Play()
			}

		case "s":
			m.lastErr = m.Session.Stop()

		case "+", "=":
			m.Session.SetTempo(m.Session.Tempo() + 5)

		case "-", "_":
			m.Session.SetTempo(math.Max(5, m.Session.Tempo()-5))
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Session)

	case FailureMsg:
		m.lastErr = msg.Err
		return m, listenForFailures(m.failures)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.Session.Score()
	beat := m.Session.Beat()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	headStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)
	errStyle := lipgloss.NewStyle().
		Foreground(m.Theme.FG()).
		Background(m.Theme.Warning()).
		Padding(0, 1)

	playState := "STOP"
	switch {
	case m.Session.IsPlaying():
		playState = "PLAY"
	case m.Session.IsPaused():
		playState = "PAUSE"
	}

	title := s.Title
	if title == "" {
		title = "untitled"
	}
	header := headerStyle.Render(fmt.Sprintf("go-pulsator  %s  %s  %3.0fbpm  beat:%6.2f/%g  pulse:%d",
		title, playState, m.Session.Tempo(), beat, s.Length(), m.Session.CurrentPulse()))

	// Window of laneWidth beats containing the playhead
	start := int(beat) / laneWidth * laneWidth
	head := int(beat) - start

	var lanes strings.Builder
	for i, l := range m.lanes {
		nameStyle := lipgloss.NewStyle().Foreground(m.Theme.Voice(i))
		lanes.WriteString(nameStyle.Render(fmt.Sprintf("%-11s", l.name)))
		for col := 0; col < laneWidth; col++ {
			cell, dyn, ok := m.cell(l, float64(start+col))
			text := string(cell)
			switch {
			case col == head && m.Session.CurrentPulse() > 0:
				text = headStyle.Render(text)
			case ok:
				text = lipgloss.NewStyle().Foreground(m.Theme.Dynamic(dyn)).Render(text)
			default:
				text = dimStyle.Render(text)
			}
			lanes.WriteString(text)
		}
		lanes.WriteString("\n")
	}

	// Progress bar
	progress := m.progress(beat, s.Length())

	// Help line
	help := dimStyle.Render("space/p:play-pause  s:stop  +/-:tempo  q:quit")

	// Build output
	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(lanes.String())
	out.WriteString("\n")
	out.WriteString(progress)
	out.WriteString("\n\n")
	out.WriteString(help)

	if m.lastErr != nil {
		out.WriteString("\n")
		out.WriteString(errStyle.Render(m.lastErr.Error()))
	}

	return out.String()
}

// cell returns the symbol of the element sounding at beat in l.
func (m Model) cell(l lane, beat float64) (rune, score.Dynamic, bool) {
	for _, e := range l.elements {
		if beat >= e.Start && beat < e.End {
			return m.Theme.KindSymbol(e.Kind), e.Dynamic, true
		}
	}
	return m.Theme.Symbols.Rest, 0, false
}

func (m Model) progress(beat, length float64) string {
	const width = laneWidth + 11
	filled := 0
	if length > 0 {
		filled = int(math.Min(1, beat/length) * width)
	}
	sym := m.Theme.Symbols
	bar := strings.Repeat(string(sym.Played), filled)
	if filled < width {
		bar += string(sym.Playhead) + strings.Repeat(string(sym.Ahead), width-filled-1)
	}
	return lipgloss.NewStyle().Foreground(m.Theme.Active()).Render(bar)
}
