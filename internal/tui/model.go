package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"talkrec/internal/domain"
	"talkrec/internal/service"
	"talkrec/internal/text"
)

// RecommendPort is the TUI-facing subset of the recommend service.
type RecommendPort interface {
	Recommend(req service.Request) (service.Result, error)
}

// Model is the Bubble Tea model for browsing a ranking.
type Model struct {
	service  RecommendPort
	request  service.Request
	input    textinput.Model
	viewport viewport.Model
	result   service.Result
	status   string
	cursor   int
	ready    bool
}

// New creates a model showing an initial ranking produced for req.
func New(svc RecommendPort, req service.Request, initial service.Result) Model {
	ti := textinput.New()
	ti.Prompt = "metric> "
	ti.Placeholder = "cosine, euclidean, manhattan, minkowski:3, jaccard"
	ti.Focus()
	ti.CharLimit = 32
	vp := viewport.New(0, 0)
	return Model{
		service:  svc,
		request:  req,
		input:    ti,
		viewport: vp,
		result:   initial,
		status:   fmt.Sprintf("%d talks ranked by %s. Type a metric to re-rank.", initial.Total, initial.Metric),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + profile, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		items := m.result.Items
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				return m, nil
			}
			req := m.request
			req.Metric = name
			res, err := m.service.Recommend(req)
			if err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.request = req
				m.result = res
				m.cursor = 0
				m.status = fmt.Sprintf("%d talks ranked by %s", res.Total, res.Metric)
				m.input.SetValue("")
			}
			m.viewport.SetContent(m.renderCurrent())
			return m, nil
		case "down":
			if len(items) > 0 {
				m.cursor = (m.cursor + 1) % len(items)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(items) > 0 {
				m.cursor = (m.cursor - 1 + len(items)) % len(items)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the header, the current talk, the metric input and status.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render(fmt.Sprintf("Talk recommendations for %s (%s vectors)", m.result.User, m.result.Scheme))
	profile := dimStyle.Render("profile: " + m.result.Profile)
	results := resultBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + profile + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrent() string {
	items := m.result.Items
	if len(items) == 0 {
		return "No recommendations."
	}
	it := items[m.cursor]
	label := "similarity"
	if m.result.Metric.Distance() {
		label = "distance"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Talk %d/%d  id=%s  %s=%.4f\n\n", m.cursor+1, len(items), it.ID, label, it.Score)
	if !it.Found {
		b.WriteString(dimStyle.Render("(details not in the configured feed window)"))
		return b.String()
	}
	b.WriteString(headerStyle.Render(it.Talk.Title))
	b.WriteString("\n")
	for _, kv := range [][2]string{{"Speaker", it.Talk.Speaker}, {"Date", it.Talk.Date}, {"Location", it.Talk.Location}} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
		}
	}
	b.WriteString("\n")
	b.WriteString(highlightBestSentence(it.Talk.Detail, m.result.Query))
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasizes the sentence sharing the most terms with
// the user's profile.
func highlightBestSentence(detail string, profile domain.SparseVector) string {
	if strings.TrimSpace(detail) == "" {
		return detail
	}
	sentences := sentenceRe.FindAllString(detail, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(detail)}
	}
	if len(profile) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx, bestScore := -1, 0
	for i, s := range sentences {
		if score := overlap(profile, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

// overlap counts the distinct normalized terms of sentence present in profile.
func overlap(profile domain.SparseVector, sentence string) int {
	score := 0
	seen := make(map[string]struct{})
	for _, t := range text.Normalize(sentence) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := profile[t]; ok {
			score++
		}
	}
	return score
}
