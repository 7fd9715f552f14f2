package tui

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"playground/internal/assistant"
)

// ChatPort is the TUI-facing subset of the dialogue engine.
type ChatPort interface {
	ProcessMessage(ctx context.Context, req assistant.ChatRequest) *assistant.ChatResponse
	HandleEvent(ctx context.Context, sessionID string, user assistant.User, ev assistant.Event) *assistant.ChatResponse
}

type chatLine struct {
	fromUser bool
	text     string
	at       time.Time
}

// action is a selectable chip or option card.
type action struct {
	label   string
	payload string
}

type engineReplyMsg struct{ resp *assistant.ChatResponse }

type typingDoneMsg struct{ resp *assistant.ChatResponse }

// ChatModel renders a messenger-style conversation with the assistant.
type ChatModel struct {
	engine    ChatPort
	sessionID string
	user      assistant.User
	delay     time.Duration
	now       func() time.Time

	input    textinput.Model
	viewport viewport.Model
	lines    []chatLine
	actions  []action
	cards    []assistant.OptionCard
	payment  *assistant.PaymentLink
	typing   bool
	debug    *assistant.Debug
	ready    bool
}

func NewChat(engine ChatPort, sessionID string, user assistant.User, typingDelay time.Duration) ChatModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message"
	ti.Focus()
	return ChatModel{
		engine:    engine,
		sessionID: sessionID,
		user:      user,
		delay:     typingDelay,
		now:       time.Now,
		input:     ti,
		viewport:  viewport.New(0, 0),
		actions:   []action{{label: "Book a stay", payload: "Book a stay"}, {label: "Help", payload: "Help"}},
	}
}

func (m ChatModel) Init() tea.Cmd { return textinput.Blink }

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 4 + qh + 1 // header, actions, input, status
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.refresh()
		return m, nil
	case engineReplyMsg:
		if m.delay <= 0 {
			return m.apply(msg.resp), nil
		}
		m.typing = true
		resp := msg.resp
		return m, tea.Tick(m.delay, func(time.Time) tea.Msg { return typingDoneMsg{resp: resp} })
	case typingDoneMsg:
		return m.apply(msg.resp), nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if m.typing {
			return m, nil
		}
		key := msg.String()
		switch {
		case key == "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m.send(text)
		case key == "tab" && len(m.actions) > 0:
			m.input.SetValue(m.actions[0].payload)
			m.actions = append(append([]action(nil), m.actions[1:]...), m.actions[0])
			m.input.CursorEnd()
			return m, nil
		case msg.Alt && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
			if i := int(msg.Runes[0] - '1'); i < len(m.actions) {
				return m.send(m.actions[i].payload)
			}
			return m, nil
		case m.payment != nil && (key == "alt+p" || key == "alt+f"):
			outcome := assistant.OutcomeSuccess
			if key == "alt+f" {
				outcome = assistant.OutcomeFailed
			}
			return m.pay(outcome)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) send(text string) (tea.Model, tea.Cmd) {
	m.lines = append(m.lines, chatLine{fromUser: true, text: text, at: m.now()})
	m.refresh()
	engine, req := m.engine, assistant.ChatRequest{SessionID: m.sessionID, User: m.user, Message: text}
	return m, func() tea.Msg {
		return engineReplyMsg{resp: engine.ProcessMessage(context.Background(), req)}
	}
}

// pay stands in for the payment page calling back with the outcome.
func (m ChatModel) pay(outcome assistant.PaymentOutcome) (tea.Model, tea.Cmd) {
	ev := assistant.PaymentResult{Ref: paymentRef(m.payment.URL), Outcome: outcome}
	m.payment = nil
	m.lines = append(m.lines, chatLine{fromUser: true, text: ev.Text(), at: m.now()})
	m.refresh()
	engine, sid, user := m.engine, m.sessionID, m.user
	return m, func() tea.Msg {
		return engineReplyMsg{resp: engine.HandleEvent(context.Background(), sid, user, ev)}
	}
}

func paymentRef(url string) string { return path.Base(url) }

func (m ChatModel) apply(resp *assistant.ChatResponse) ChatModel {
	m.typing = false
	m.lines = append(m.lines, chatLine{text: resp.ReplyText, at: m.now()})
	m.debug = resp.Debug
	m.actions, m.cards, m.payment = nil, nil, nil
	if resp.UI != nil {
		m.cards = resp.UI.OptionCards
		for _, c := range resp.UI.OptionCards {
			m.actions = append(m.actions, action{label: c.ActionLabel, payload: c.ActionPayload})
		}
		for _, q := range resp.UI.QuickReplies {
			m.actions = append(m.actions, action{label: q, payload: q})
		}
		m.payment = resp.UI.PaymentLink
	}
	m.refresh()
	return m
}

func (m *ChatModel) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m ChatModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Stay Assistant") + dimStyle.Render("  "+m.user.Name+" "+m.user.Phone)
	transcript := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	return header + "\n" + transcript + "\n" + m.renderActions() + "\n" + input + "\n" + m.renderStatus()
}

func (m ChatModel) renderTranscript() string {
	width := max(20, m.viewport.Width-4)
	bubble := width * 3 / 4
	var b strings.Builder
	for _, l := range m.lines {
		stamp := dimStyle.Render(l.at.Format("15:04"))
		if l.fromUser {
			body := userBubbleStyle.Width(bubble).Render(l.text)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, body+"\n"+stamp))
		} else {
			b.WriteString(botBubbleStyle.Width(bubble).Render(l.text) + "\n" + stamp)
		}
		b.WriteString("\n\n")
	}
	for _, c := range m.cards {
		b.WriteString(cardStyle.Render(fmt.Sprintf("%s\n%s\n[%s]", c.Title, c.Subtitle, c.ActionLabel)))
		b.WriteString("\n")
	}
	if m.payment != nil {
		b.WriteString(cardStyle.Render(fmt.Sprintf("%s\n%s\n%s", m.payment.Title, m.payment.Description, m.payment.URL)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ChatModel) renderActions() string {
	if len(m.actions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.actions))
	for i, a := range m.actions {
		if i >= 9 {
			break
		}
		parts = append(parts, chipStyle.Render(fmt.Sprintf("%d %s", i+1, a.label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m ChatModel) renderStatus() string {
	switch {
	case m.typing:
		return statusStyle.Render("typing…")
	case m.payment != nil:
		return statusStyle.Render("alt+p: simulate successful payment  alt+f: simulate failed payment")
	case m.debug != nil:
		return dimStyle.Render(fmt.Sprintf("intent=%s state=%s", m.debug.Intent, m.debug.State))
	}
	return dimStyle.Render("Enter sends. Tab fills a suggestion. alt+1..9 picks one.")
}

var (
	userBubbleStyle = lipgloss.NewStyle().Background(lipgloss.Color("22")).Foreground(lipgloss.Color("15")).Padding(0, 1)
	botBubbleStyle  = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("15")).Padding(0, 1)
	cardStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1)
	chipStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("10")).Padding(0, 1).MarginRight(1)
)
