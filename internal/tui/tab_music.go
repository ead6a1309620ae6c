package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thriveremote/thriveos/internal/media"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/shell"
)

const (
	volumeStep  = 0.1
	progressLen = 30
)

// trackItem implements list.Item for search results.
type trackItem struct {
	track playlist.Track
}

func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string { return i.track.Artist + " · " + i.track.Duration }
func (i trackItem) FilterValue() string { return i.track.Title }

// MusicTab controls the two players and searches the music library.
type MusicTab struct {
	backend Backend
	target  media.Kind
	audio   player.State
	video   player.State

	searching bool
	input     textinput.Model
	results   list.Model
	query     string

	width  int
	height int
}

// NewMusicTab creates the player controls, targeting the audio player.
func NewMusicTab(b Backend) MusicTab {
	ti := textinput.New()
	ti.Placeholder = "search tracks"
	ti.CharLimit = 100

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Results (enter adds to video queue)"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return MusicTab{backend: b, target: media.KindAudio, input: ti, results: l}
}

// SetState refreshes both players.
func (mt *MusicTab) SetState(st *shell.State) {
	mt.audio = st.Audio
	mt.video = st.Video
}

// Capturing reports whether the search box owns the keyboard.
func (mt MusicTab) Capturing() bool { return mt.searching }

func (mt MusicTab) current() player.State {
	if mt.target == media.KindVideo {
		return mt.video
	}
	return mt.audio
}

// Update implements tea.Model.
func (mt MusicTab) Update(msg tea.Msg) (MusicTab, tea.Cmd) {
	if mt.searching {
		return mt.updateSearching(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		mt.width = msg.Width
		mt.height = msg.Height
		mt.results.SetSize(msg.Width, mt.resultsHeight())
		return mt, nil

	case searchMsg:
		if msg.err != nil {
			return mt, func() tea.Msg { return statusMsg{text: msg.err.Error(), isErr: true} }
		}
		mt.query = msg.query
		items := make([]list.Item, 0, len(msg.results))
		for _, tr := range msg.results {
			items = append(items, trackItem{track: tr})
		}
		mt.results.SetItems(items)
		return mt, nil

	case tea.KeyMsg:
		cmd := shell.PlayerCommand{Player: string(mt.target)}
		switch msg.String() {
		case " ":
			cmd.Action = shell.PlayerToggle
		case "n":
			cmd.Action = shell.PlayerNext
		case "p":
			cmd.Action = shell.PlayerPrevious
		case "s":
			cmd.Action = shell.PlayerShuffle
		case "r":
			cmd.Action = shell.PlayerRepeat
		case "e":
			cmd.Action = shell.PlayerExpand
		case "+", "=":
			cmd.Action = shell.PlayerVolume
			cmd.Volume = math.Min(1, mt.current().Volume+volumeStep)
		case "-":
			cmd.Action = shell.PlayerVolume
			cmd.Volume = math.Max(0, mt.current().Volume-volumeStep)
		case "v":
			if mt.target == media.KindAudio {
				mt.target = media.KindVideo
			} else {
				mt.target = media.KindAudio
			}
			return mt, nil
		case "/":
			mt.searching = true
			mt.input.Reset()
			mt.input.Focus()
			return mt, textinput.Blink
		case "enter":
			item, ok := mt.results.SelectedItem().(trackItem)
			if !ok {
				return mt, nil
			}
			cmd = shell.PlayerCommand{
				Player: string(media.KindVideo),
				Action: shell.PlayerAdd,
				Tracks: []playlist.Track{item.track},
			}
			return mt, mt.send(cmd, "queued "+item.track.Title)
		}
		if cmd.Action != "" {
			return mt, mt.send(cmd, fmt.Sprintf("%s %s", mt.target, cmd.Action))
		}
	}

	var cmd tea.Cmd
	mt.results, cmd = mt.results.Update(msg)
	return mt, cmd
}

func (mt MusicTab) updateSearching(msg tea.Msg) (MusicTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			query := strings.TrimSpace(mt.input.Value())
			mt.searching = false
			mt.input.Blur()
			if query == "" {
				return mt, nil
			}
			b := mt.backend
			return mt, func() tea.Msg {
				res, err := b.MusicSearch(query, searchLimit)
				return searchMsg{query: query, results: res, err: err}
			}
		case "esc":
			mt.searching = false
			mt.input.Blur()
			return mt, nil
		}
	case tea.WindowSizeMsg:
		mt.width = msg.Width
		mt.height = msg.Height
		return mt, nil
	}

	var cmd tea.Cmd
	mt.input, cmd = mt.input.Update(msg)
	return mt, cmd
}

func (mt MusicTab) send(cmd shell.PlayerCommand, done string) tea.Cmd {
	b := mt.backend
	return run(done, func() error {
		_, err := b.PlayerAction(cmd)
		return err
	})
}

func (mt MusicTab) resultsHeight() int {
	// Two player panels plus the search line.
	h := mt.height - 12
	if h < 3 {
		h = 3
	}
	return h
}

// View implements tea.Model.
func (mt MusicTab) View() string {
	var b strings.Builder
	b.WriteString(renderPlayer("Audio", mt.audio, mt.target == media.KindAudio))
	b.WriteString("\n")
	b.WriteString(renderPlayer("Video", mt.video, mt.target == media.KindVideo))
	b.WriteString("\n")

	if mt.searching {
		b.WriteString("/ " + mt.input.View())
	} else if mt.query != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("results for %q", mt.query)))
	} else {
		b.WriteString(dimStyle.Render("press / to search"))
	}
	b.WriteString("\n")
	if len(mt.results.Items()) > 0 {
		b.WriteString(mt.results.View())
	}
	return b.String()
}

// renderPlayer renders one player as a title line, a progress line and a
// mode line.
func renderPlayer(name string, st player.State, targeted bool) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	header := name
	if targeted {
		header = "▸ " + header
	} else {
		header = "  " + header
	}

	icon := "⏸"
	if st.IsPlaying {
		icon = "▶"
	}
	now := "nothing loaded"
	if st.Track != nil {
		now = fmt.Sprintf("%s %s · %s", icon, st.Track.Title, st.Track.Artist)
	}

	shuffle := "off"
	if st.IsShuffling {
		shuffle = "on"
	}
	modes := fmt.Sprintf("vol %d%%  shuffle %s  repeat %s  %d tracks  %s",
		int(math.Round(st.Volume*100)), shuffle, st.RepeatMode, st.PlaylistLength, st.Phase)

	return strings.Join([]string{
		titleStyle.Render(header) + "  " + now,
		"    " + progressBar(st.CurrentTime, st.Duration, progressLen) + " " + timeLabel(st.CurrentTime, st.Duration),
		"    " + dimStyle.Render(modes),
	}, "\n")
}

func progressBar(current, duration float64, width int) string {
	filled := 0
	if duration > 0 {
		filled = int(float64(width) * math.Min(1, current/duration))
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func timeLabel(current, duration float64) string {
	return playlist.FormatDuration(seconds(current)) + " / " + playlist.FormatDuration(seconds(duration))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
