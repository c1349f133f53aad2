// Package tui is an interactive terminal front end for the task API.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/louisbranch/taskhub/internal/client"
)

type mode int

const (
	modeLogin mode = iota
	modeList
	modeAdd
)

// Messages produced by API commands.
type sessionMsg struct{ session client.Session }
type tasksMsg struct{ tasks []client.Task }
type taskSavedMsg struct{ task client.Task }
type taskDeletedMsg struct{ id string }
type apiErrMsg struct{ err error }

// Model drives the login form and the task list.
type Model struct {
	api *client.Client

	mode       mode
	registered bool

	// Login form. The email field only shows in register mode.
	registering bool
	focus       int
	username    textinput.Model
	email       textinput.Model
	password    textinput.Model

	// Task list.
	list    list.Model
	tasks   []client.Task
	addMode textinput.Model

	width  int
	height int
	status string
	errMsg string
}

// NewModel creates the initial model against the given API client.
func NewModel(api *client.Client) Model {
	username := textinput.New()
	username.Prompt = "> "
	username.Placeholder = "username"
	username.Focus()

	email := textinput.New()
	email.Prompt = "> "
	email.Placeholder = "email"

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	add := textinput.New()
	add.Prompt = "> "
	add.Placeholder = "New task title..."
	add.CharLimit = 200

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	extra := func() []key.Binding {
		return []key.Binding{addBind, toggleBind, deleteBind, refreshBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	return Model{
		api:      api,
		mode:     modeLogin,
		username: username,
		email:    email,
		password: password,
		addMode:  add,
		list:     l,
		width:    80,
		height:   24,
	}
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, api *client.Client) error {
	p := tea.NewProgram(NewModel(api), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case sessionMsg:
		m.mode = modeList
		m.errMsg = ""
		m.status = fmt.Sprintf("Signed in as %s", msg.session.User.Username)
		return m, m.fetchTasks()
	case tasksMsg:
		m.tasks = msg.tasks
		m.syncList()
		return m, nil
	case taskSavedMsg:
		m.errMsg = ""
		return m, m.fetchTasks()
	case taskDeletedMsg:
		m.errMsg = ""
		return m, m.fetchTasks()
	case apiErrMsg:
		m.errMsg = msg.err.Error()
		return m, nil
	}

	switch m.mode {
	case modeLogin:
		return m.updateLogin(msg)
	case modeAdd:
		return m.updateAdd(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.registering = !m.registering
			m.errMsg = ""
			if !m.registering && m.focus == 1 {
				m.focus = 0
			}
			return m.applyLoginFocus(), nil
		case "tab", "shift+tab", "up", "down":
			delta := 1
			if keyMsg.String() == "shift+tab" || keyMsg.String() == "up" {
				delta = -1
			}
			fields := 2
			if m.registering {
				fields = 3
			}
			m.focus = (m.focus + delta + fields) % fields
			return m.applyLoginFocus(), nil
		case "enter":
			return m, m.submitLogin()
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	cmds = append(cmds, cmd)
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// applyLoginFocus moves textinput focus to match the focus index. In
// register mode the order is username, email, password.
func (m Model) applyLoginFocus() Model {
	m.username.Blur()
	m.email.Blur()
	m.password.Blur()

	inputs := []*textinput.Model{&m.username, &m.password}
	if m.registering {
		inputs = []*textinput.Model{&m.username, &m.email, &m.password}
	}
	if m.focus >= 0 && m.focus < len(inputs) {
		inputs[m.focus].Focus()
	}
	return m
}

func (m Model) submitLogin() tea.Cmd {
	api := m.api
	username := strings.TrimSpace(m.username.Value())
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	registering := m.registering

	return func() tea.Msg {
		ctx := context.Background()
		var session client.Session
		var err error
		if registering {
			session, err = api.Register(ctx, username, email, password)
		} else {
			session, err = api.Login(ctx, username, password)
		}
		if err != nil {
			return apiErrMsg{err}
		}
		return sessionMsg{session}
	}
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			title := strings.TrimSpace(m.addMode.Value())
			if title == "" {
				m.errMsg = "Title cannot be empty"
				return m, nil
			}
			m.addMode.SetValue("")
			m.addMode.Blur()
			m.mode = modeList
			return m, m.createTask(title)
		case "esc":
			m.mode = modeList
			m.addMode.SetValue("")
			m.addMode.Blur()
			m.errMsg = ""
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.addMode, cmd = m.addMode.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.mode = modeAdd
			m.errMsg = ""
			m.addMode.SetValue("")
			m.addMode.Focus()
			return m, textinput.Blink
		case " ":
			if item, ok := m.selectedTask(); ok {
				return m, m.toggleTask(item)
			}
			return m, nil
		case "d":
			if item, ok := m.selectedTask(); ok {
				return m, m.deleteTask(item.ID)
			}
			return m, nil
		case "r":
			return m, m.fetchTasks()
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) selectedTask() (client.Task, bool) {
	item, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return client.Task{}, false
	}
	return item.task, true
}

func (m *Model) syncList() {
	items := make([]list.Item, 0, len(m.tasks))
	for _, t := range m.tasks {
		items = append(items, listItem{task: t})
	}
	m.list.SetItems(items)

	done, pending := taskStats(m.tasks)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Tasks"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(m.tasks),
	)
}

func (m Model) fetchTasks() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		tasks, err := api.ListTasks(context.Background())
		if err != nil {
			return apiErrMsg{err}
		}
		return tasksMsg{tasks}
	}
}

func (m Model) createTask(title string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		created, err := api.CreateTask(context.Background(), title, "")
		if err != nil {
			return apiErrMsg{err}
		}
		return taskSavedMsg{created}
	}
}

func (m Model) toggleTask(t client.Task) tea.Cmd {
	api := m.api
	completed := !t.Completed
	return func() tea.Msg {
		updated, err := api.UpdateTask(context.Background(), t.ID, client.UpdateTaskInput{Completed: &completed})
		if err != nil {
			return apiErrMsg{err}
		}
		return taskSavedMsg{updated}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		if err := api.DeleteTask(context.Background(), id); err != nil {
			return apiErrMsg{err}
		}
		return taskDeletedMsg{id}
	}
}

func (m Model) View() string {
	switch m.mode {
	case modeLogin:
		return m.viewLogin()
	default:
		return m.viewList()
	}
}

func (m Model) viewLogin() string {
	var b strings.Builder
	if m.registering {
		b.WriteString(titleStyle.Render("Create account") + "\n\n")
		b.WriteString(m.username.View() + "\n")
		b.WriteString(m.email.View() + "\n")
		b.WriteString(m.password.View() + "\n")
	} else {
		b.WriteString(titleStyle.Render("Sign in") + "\n\n")
		b.WriteString(m.username.View() + "\n")
		b.WriteString(m.password.View() + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter submit · tab next field · ctrl+r register/sign in · esc quit"))
	return panelStyle.Render(b.String())
}

func (m Model) viewList() string {
	listHeight := m.height - 4
	if m.mode == modeAdd {
		listHeight = m.height - 6
	}
	m.list.SetSize(m.width-2, listHeight)

	content := m.list.View()
	if m.mode == modeAdd {
		title := "Add new task"
		if m.errMsg != "" {
			title += "  " + errorStyle.Render(m.errMsg)
		}
		content += "\n" + panelStyle.Render(title+"\n"+m.addMode.View())
	} else {
		footer := m.status
		if m.errMsg != "" {
			footer = errorStyle.Render(m.errMsg)
		}
		if footer != "" {
			content += "\n" + helpStyle.Render(footer)
		}
	}
	return panelStyle.Render(content)
}
