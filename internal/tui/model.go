// Package tui is an interactive terminal chat over the prospectus assistant.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"prospectus/internal/domain"
	"prospectus/internal/service"
)

// Asker is the TUI-facing subset of the assistant.
type Asker interface {
	Ask(ctx context.Context, q service.Query) (service.Reply, error)
}

// maxHistory bounds the exchanges sent with each question.
const maxHistory = 10

const askTimeout = 2 * time.Minute

type replyMsg struct {
	reply service.Reply
	err   error
}

// Model is the Bubble Tea model for the chat.
type Model struct {
	asker    Asker
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	history  []domain.Exchange
	reply    *service.Reply
	header   string
	status   string
	cursor   int
	waiting  bool
	ready    bool
}

// New creates a chat model. header is shown under the title, typically
// the loaded document and chunk count.
func New(asker Asker, header string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about programs, fees, admission..."
	ti.Focus()
	ti.CharLimit = 500
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		asker:    asker,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		header:   header,
		status:   "Ready. Up/down cycle sources, ctrl+c quits.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) ask(question string) tea.Cmd {
	history := m.history
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	history = append([]domain.Exchange(nil), history...)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()
		r, err := m.asker.Ask(ctx, service.Query{Question: question, History: history})
		return replyMsg{reply: r, err: err}
	}
}

// Update handles key, window and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.render())
		return m, nil
	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		r := msg.reply
		m.reply = &r
		m.cursor = -1
		m.history = append(m.history, domain.Exchange{Question: r.Question, Answer: r.Answer})
		m.status = statusLine(r)
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.waiting {
				return m, nil
			}
			m.input.SetValue("")
			m.waiting = true
			m.status = fmt.Sprintf("Asking %q", q)
			return m, tea.Batch(m.ask(q), m.spinner.Tick)
		case "down":
			if m.reply != nil && len(m.reply.Results) > 0 {
				m.cursor = (m.cursor+2)%(len(m.reply.Results)+1) - 1
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case "up":
			if m.reply != nil && len(m.reply.Results) > 0 {
				n := len(m.reply.Results) + 1
				m.cursor = (m.cursor+n)%n - 1
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func statusLine(r service.Reply) string {
	parts := []string{string(r.Outcome)}
	if r.Strategy != "" {
		parts = append(parts, "strategy="+string(r.Strategy))
	}
	if len(r.Results) > 0 {
		parts = append(parts, fmt.Sprintf("sources=%d", len(r.Results)))
	}
	parts = append(parts, "lang="+string(r.Language), r.Elapsed.Round(time.Millisecond).String())
	return strings.Join(parts, "  ")
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render("Prospectus Assistant")
	header := dimStyle.Render(m.header)
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	if m.waiting {
		status = m.spinner.View() + " " + status
	}
	return title + "\n" + header + "\n" + answerBoxStyle.Render(m.viewport.View()) + "\n" + input + "\n" + status
}

// render shows the answer, or with cursor >= 0 the cited chunk at cursor.
func (m Model) render() string {
	if m.reply == nil {
		return "Ask a question to get started."
	}
	r := m.reply
	if m.cursor < 0 || m.cursor >= len(r.Results) {
		return wrap(r.Answer, m.viewport.Width-4)
	}
	res := r.Results[m.cursor]
	title := fmt.Sprintf("Source %d/%d  page %d  %s  score=%.3f",
		m.cursor+1, len(r.Results), res.Chunk.Page, res.Chunk.Tag, res.Score)
	return title + "\n\n" + highlightBestSentence(wrap(res.Chunk.Text, m.viewport.Width-4), r.Question)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	wordRe         = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasises the sentence sharing most words with query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	q := tokenSet(query)
	if len(q) == 0 {
		return strings.Join(sentences, " ")
	}
	best, bestScore := 0, -1
	for i, s := range sentences {
		if score := overlap(q, s); score > bestScore {
			best, bestScore = i, score
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == best {
			sent = highlightStyle.Render(sent)
		}
		sentences[i] = sent
	}
	return strings.Join(sentences, " ")
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func overlap(query map[string]struct{}, sentence string) int {
	score := 0
	for t := range tokenSet(sentence) {
		if _, ok := query[t]; ok {
			score++
		}
	}
	return score
}
