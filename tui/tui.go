// Package tui implements the interactive browser for the remote media
// library. All UI state lives in the Bubble Tea model; refresh,
// download and delete run in tea.Cmd goroutines and report back via
// typed messages, so the update loop never blocks on network I/O.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/Larhard/library-player/config"
	"github.com/Larhard/library-player/guard"
	"github.com/Larhard/library-player/library"
	"github.com/Larhard/library-player/player"
	"github.com/Larhard/library-player/remote"
	"github.com/Larhard/library-player/transfer"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6AC1"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9B9B9B"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6AC1")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7EC8E3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")).
			Bold(true)
)

// --- Screens ---

type screen int

const (
	screenLoading screen = iota // first refresh in flight
	screenBrowse                // catalog list
)

// --- Messages ---

type (
	catalogMsg struct {
		hash   string
		videos []library.Entry
	}
	refreshErrMsg   struct{ err error }
	downloadDoneMsg struct {
		relPath string
		results []transfer.Result
		err     error
	}
	deleteDoneMsg struct {
		relPath string
		err     error
	}
)

// guards holds the per-operation single-flight gates. It lives behind a
// pointer so every value-copy of the Model shares the same gates.
type guards struct {
	refresh  guard.Guard
	download guard.Guard
	delete   guard.Guard
}

// --- Model ---

type Model struct {
	screen   screen
	width    int
	height   int
	quitting bool
	err      error

	cfg    *config.Config
	state  *library.State
	exts   library.ExtensionSet
	guards *guards

	// Browse screen
	videos []library.Entry
	cursor int
	hash   string
	status string

	// Filter
	filterInput textinput.Model
	filtering   bool
	filter      string

	// Delete confirmation
	confirmingDelete bool
	pendingDelete    library.Entry

	spinner spinner.Model
}

func NewModel(cfg *config.Config) Model {
	fi := textinput.New()
	fi.Placeholder = "filter..."
	fi.CharLimit = 256
	fi.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6AC1"))

	return Model{
		screen:      screenLoading,
		cfg:         cfg,
		state:       library.NewState(cfg.BasePath),
		exts:        library.DefaultVideoExtensions(),
		guards:      &guards{},
		filterInput: fi,
		spinner:     s,
	}
}

func (m Model) Init() tea.Cmd {
	m.guards.refresh.TryStart()
	return tea.Batch(m.spinner.Tick, m.cmdRefresh())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenLoading:
		return m.updateLoading(msg)
	case screenBrowse:
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var content string
	switch m.screen {
	case screenLoading:
		content = m.viewLoading()
	case screenBrowse:
		content = m.viewBrowse()
	}
	return content + "\n"
}

// ──────────────────────────────────────────────
// Loading Screen
// ──────────────────────────────────────────────

func (m Model) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogMsg:
		m.hash = msg.hash
		m.videos = msg.videos
		m.cursor = 0
		m.screen = screenBrowse
		m.status = fmt.Sprintf("%d videos", len(msg.videos))
		return m, nil
	case refreshErrMsg:
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if m.err != nil && m.guards.refresh.TryStart() {
				m.err = nil
				return m, tea.Batch(m.spinner.Tick, m.cmdRefresh())
			}
		}
	}
	return m, nil
}

func (m Model) viewLoading() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("library-player"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r: retry  q: quit"))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(statusStyle.Render(" Listing remote library..."))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s@%s:%s", m.cfg.User, m.cfg.Host, m.cfg.BasePath)))
	}
	return b.String()
}

// ──────────────────────────────────────────────
// Browse Screen
// ──────────────────────────────────────────────

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogMsg:
		m.hash = msg.hash
		m.videos = msg.videos
		m.status = fmt.Sprintf("%d videos", len(msg.videos))
		m.clampCursor()
		return m, nil

	case refreshErrMsg:
		m.status = errorStyle.Render(fmt.Sprintf("refresh failed: %v", msg.err))
		return m, nil

	case downloadDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("download failed: %v", msg.err))
			return m, nil
		}
		var downloaded, skipped int
		for _, r := range msg.results {
			if r.Status == transfer.StatusSkipped {
				skipped++
			} else {
				downloaded++
			}
		}
		m.status = fmt.Sprintf("downloaded %s (%d fetched, %d skipped)",
			shortName(msg.relPath), downloaded, skipped)
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("delete failed: %v", msg.err))
			return m, nil
		}
		m.status = fmt.Sprintf("deleted %s", shortName(msg.relPath))
		// Refresh so the list reflects remote state.
		if m.guards.refresh.TryStart() {
			m.videos = nil
			return m, m.cmdRefresh()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleBrowseKey(msg)
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "enter", "esc":
			if msg.String() == "esc" {
				m.filterInput.SetValue("")
			}
			m.filtering = false
			m.filterInput.Blur()
			m.filter = m.filterInput.Value()
			m.clampCursor()
			return m, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.filter = m.filterInput.Value()
		m.clampCursor()
		return m, cmd
	}

	if m.confirmingDelete {
		switch msg.String() {
		case "y", "Y":
			m.confirmingDelete = false
			if !m.guards.delete.TryStart() {
				m.status = "a delete is already running"
				return m, nil
			}
			m.status = fmt.Sprintf("deleting %s...", shortName(m.pendingDelete.RelPath))
			return m, m.cmdDelete(m.pendingDelete.RelPath)
		default:
			m.confirmingDelete = false
			m.status = "delete cancelled"
			return m, nil
		}
	}

	visible := m.visibleVideos()
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(visible) > 0 {
			m.cursor = len(visible) - 1
		}
	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case "r":
		if !m.guards.refresh.TryStart() {
			m.status = "a refresh is already running"
			return m, nil
		}
		// Cleared before the walk: a failed refresh leaves the list
		// empty until the next successful one.
		m.videos = nil
		m.cursor = 0
		m.status = "refreshing..."
		return m, m.cmdRefresh()
	case "enter", "p":
		if len(visible) == 0 {
			return m, nil
		}
		return m.playSelected(visible[m.cursor])
	case "d":
		if len(visible) == 0 {
			return m, nil
		}
		if !m.guards.download.TryStart() {
			m.status = "a download is already running"
			return m, nil
		}
		sel := visible[m.cursor]
		m.status = fmt.Sprintf("downloading %s...", shortName(sel.RelPath))
		return m, m.cmdDownload(sel.RelPath)
	case "x":
		if len(visible) == 0 {
			return m, nil
		}
		m.confirmingDelete = true
		m.pendingDelete = visible[m.cursor]
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) playSelected(sel library.Entry) (tea.Model, tea.Cmd) {
	url, err := m.state.PlayURL(m.cfg.BaseURL, sel.RelPath)
	if err != nil {
		m.status = errorStyle.Render(fmt.Sprintf("play failed: %v", err))
		return m, nil
	}
	if err := player.Launch(m.cfg.PlayerCommand, url); err != nil {
		log.Error().Err(err).Str("url", url).Msg("player launch failed")
		m.status = errorStyle.Render(fmt.Sprintf("play failed: %v", err))
		return m, nil
	}
	log.Info().Str("url", url).Msg("player launched")
	m.status = fmt.Sprintf("playing %s", shortName(sel.RelPath))
	return m, nil
}

func (m Model) viewBrowse() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("library-player"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s@%s", m.cfg.User, m.cfg.Host)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("session %s", m.hash)))
	b.WriteString("\n\n")

	visible := m.visibleVideos()

	rows := m.height - 10
	if rows < 5 {
		rows = 20
	}

	startIdx := 0
	if m.cursor >= rows {
		startIdx = m.cursor - rows + 1
	}
	endIdx := startIdx + rows
	if endIdx > len(visible) {
		endIdx = len(visible)
	}

	for i := startIdx; i < endIdx; i++ {
		v := visible[i]
		size := humanSize(v.Size)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(fmt.Sprintf("  > %s  %s", v.RelPath, size)))
		} else {
			b.WriteString(normalStyle.Render(fmt.Sprintf("    %s", v.RelPath)))
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %s", size)))
		}
		b.WriteString("\n")
	}
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("    (no videos)"))
		b.WriteString("\n")
	}
	if startIdx > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("    ... %d more above", startIdx)))
		b.WriteString("\n")
	}
	if endIdx < len(visible) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("    ... %d more below", len(visible)-endIdx)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.filtering:
		b.WriteString(m.filterInput.View())
	case m.confirmingDelete:
		b.WriteString(confirmStyle.Render(fmt.Sprintf(
			"Delete %s from the server? y/n", shortName(m.pendingDelete.RelPath))))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: move  enter: play  d: download  x: delete  r: refresh  /: filter  q: quit"))
	return b.String()
}

// ──────────────────────────────────────────────
// Commands (run in background goroutines)
// ──────────────────────────────────────────────

// cmdRefresh re-fetches the security hash and re-walks the tree. The
// caller must have claimed guards.refresh via TryStart.
func (m Model) cmdRefresh() tea.Cmd {
	g := &m.guards.refresh
	cfg := m.cfg
	state := m.state
	exts := m.exts
	return func() tea.Msg {
		defer g.Finish()
		sess, err := remote.Dial(remoteSettings(cfg))
		if err != nil {
			log.Error().Err(err).Msg("refresh: dial failed")
			return refreshErrMsg{err: err}
		}
		defer sess.Close()

		hash, err := state.Refresh(sess)
		if err != nil {
			log.Error().Err(err).Msg("refresh: no security hash")
			return refreshErrMsg{err: err}
		}
		root, err := state.RootPath()
		if err != nil {
			return refreshErrMsg{err: err}
		}
		videos, err := library.Videos(sess, root, exts)
		if err != nil {
			log.Error().Err(err).Msg("refresh: walk failed")
			return refreshErrMsg{err: err}
		}
		log.Info().Str("hash", hash).Int("videos", len(videos)).Msg("refreshed")
		return catalogMsg{hash: hash, videos: videos}
	}
}

// cmdDownload plans and executes a download. The caller must have
// claimed guards.download via TryStart. The security hash is re-fetched
// here, independent of any concurrent refresh; a server-side rotation
// mid-operation can still target a stale root.
func (m Model) cmdDownload(relPath string) tea.Cmd {
	g := &m.guards.download
	cfg := m.cfg
	state := m.state
	return func() tea.Msg {
		defer g.Finish()
		if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
			return downloadDoneMsg{relPath: relPath, err: err}
		}
		sess, err := remote.Dial(remoteSettings(cfg))
		if err != nil {
			return downloadDoneMsg{relPath: relPath, err: err}
		}
		defer sess.Close()

		if _, err := state.Refresh(sess); err != nil {
			return downloadDoneMsg{relPath: relPath, err: err}
		}
		root, err := state.RootPath()
		if err != nil {
			return downloadDoneMsg{relPath: relPath, err: err}
		}

		task, err := transfer.PlanDownload(sess, root, relPath)
		if err != nil {
			return downloadDoneMsg{relPath: relPath, err: err}
		}
		results, err := transfer.Execute(task, sess, root, cfg.DownloadDir)
		if err != nil {
			log.Error().Err(err).Str("video", relPath).Msg("download failed")
			return downloadDoneMsg{relPath: relPath, results: results, err: err}
		}
		log.Info().Str("video", relPath).Int("items", len(results)).Msg("download done")
		return downloadDoneMsg{relPath: relPath, results: results}
	}
}

// cmdDelete removes the remote file. The caller must have claimed
// guards.delete via TryStart.
func (m Model) cmdDelete(relPath string) tea.Cmd {
	g := &m.guards.delete
	cfg := m.cfg
	state := m.state
	return func() tea.Msg {
		defer g.Finish()
		sess, err := remote.Dial(remoteSettings(cfg))
		if err != nil {
			return deleteDoneMsg{relPath: relPath, err: err}
		}
		defer sess.Close()

		if _, err := state.Refresh(sess); err != nil {
			return deleteDoneMsg{relPath: relPath, err: err}
		}
		root, err := state.RootPath()
		if err != nil {
			return deleteDoneMsg{relPath: relPath, err: err}
		}
		if err := transfer.Delete(sess, root, relPath); err != nil {
			log.Error().Err(err).Str("path", relPath).Msg("delete failed")
			return deleteDoneMsg{relPath: relPath, err: err}
		}
		log.Info().Str("path", relPath).Msg("deleted")
		return deleteDoneMsg{relPath: relPath}
	}
}

func remoteSettings(cfg *config.Config) remote.Config {
	return remote.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		User:           cfg.User,
		KeyFile:        cfg.KeyFile,
		KnownHostsFile: cfg.KnownHostsFile,
	}
}

// ──────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────

func (m Model) visibleVideos() []library.Entry {
	if m.filter == "" {
		return m.videos
	}
	needle := strings.ToLower(m.filter)
	var out []library.Entry
	for _, v := range m.videos {
		if strings.Contains(strings.ToLower(v.RelPath), needle) {
			out = append(out, v)
		}
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.visibleVideos())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func shortName(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

func humanSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
