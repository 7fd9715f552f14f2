package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"playground/internal/service"
)

// RetrievalPort is the TUI-facing subset of the retrieval service.
type RetrievalPort interface {
	Run(ctx context.Context, positive, negative string) (*service.PipelineResult, error)
}

// RAGModel is the Bubble Tea model of the movie retrieval playground.
type RAGModel struct {
	service  RetrievalPort
	positive textinput.Model
	negative textinput.Model
	focus    int
	viewport viewport.Model
	result   *service.PipelineResult
	summary  string
	status   string
	cursor   int
	ready    bool
}

// NewRAG creates the playground model. summary is shown under the header.
func NewRAG(svc RetrievalPort, summary string) RAGModel {
	pos := textinput.New()
	pos.Prompt = "+ "
	pos.Placeholder = "What do you want? e.g. clever heist, witty banter"
	pos.Focus()
	neg := textinput.New()
	neg.Prompt = "- "
	neg.Placeholder = "What to avoid? (optional)"
	return RAGModel{
		service:  svc,
		positive: pos,
		negative: neg,
		viewport: viewport.New(0, 0),
		summary:  summary,
		status:   "Loaded. Describe a movie and press Enter. Tab switches fields.",
	}
}

func (m RAGModel) Init() tea.Cmd { return textinput.Blink }

func (m RAGModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + 2*qh + 2 // header+summary, status, two inputs, spacers
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		case "enter":
			m.run()
			return m, nil
		case "down":
			if m.result != nil && len(m.result.Retrieved) > 0 {
				m.cursor = (m.cursor + 1) % len(m.result.Retrieved)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if m.result != nil && len(m.result.Retrieved) > 0 {
				n := len(m.result.Retrieved)
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	if m.focus == 0 {
		m.positive, cmd = m.positive.Update(msg)
	} else {
		m.negative, cmd = m.negative.Update(msg)
	}
	return m, cmd
}

func (m *RAGModel) toggleFocus() {
	m.focus = 1 - m.focus
	if m.focus == 0 {
		m.positive.Focus()
		m.negative.Blur()
	} else {
		m.negative.Focus()
		m.positive.Blur()
	}
}

func (m *RAGModel) run() {
	pos := strings.TrimSpace(m.positive.Value())
	if pos == "" {
		m.status = "Please enter what you want to find"
		return
	}
	neg := strings.TrimSpace(m.negative.Value())
	res, err := m.service.Run(context.Background(), pos, neg)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.result = nil
	} else {
		m.status = fmt.Sprintf("%d chunks for %q", len(res.Retrieved), pos)
		m.result = res
		m.cursor = 0
	}
	m.viewport.SetContent(m.renderCurrentResult())
	m.viewport.GotoTop()
}

func (m RAGModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Movie Retrieval Playground")
	summary := dimStyle.Render(m.summary)
	results := resultBoxStyle.Render(m.viewport.View())
	pos := queryBoxStyle.Render(m.positive.View())
	neg := queryBoxStyle.Render(m.negative.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + results + "\n" + pos + "\n" + neg + "\n" + status
}

func (m RAGModel) renderCurrentResult() string {
	if m.result == nil || len(m.result.Retrieved) == 0 {
		return "No results yet."
	}
	r := m.result.Retrieved[m.cursor]
	var b strings.Builder
	fmt.Fprintf(&b, "Chunk %d/%d  similarity=%.3f\n", m.cursor+1, len(m.result.Retrieved), r.Score)
	fmt.Fprintf(&b, "%s (%d) | %s\n\n", r.Document.Title, r.Document.Year, strings.Join(r.Document.Genres, ", "))
	b.WriteString(highlightBestSentence(r.Chunk.Text, m.positive.Value()))
	b.WriteString("\n\n")
	b.WriteString(headingStyle.Render("Recommendations"))
	b.WriteString("\n")
	for i, rec := range m.result.Recommendations {
		fmt.Fprintf(&b, "%d. %s (%d)  max=%.3f avg=%.3f\n", i+1, rec.Document.Title, rec.Document.Year, rec.MaxSimilarity, rec.AvgSimilarity)
		for _, reason := range rec.Reasons {
			fmt.Fprintf(&b, "   - %s\n", reason)
		}
		b.WriteString(dimStyle.Render("   sources: " + rec.Sources))
		b.WriteString("\n")
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	headingStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence marks the sentence sharing the most words with query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
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

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
