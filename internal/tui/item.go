package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/louisbranch/taskhub/internal/client"
)

// listItem adapts a remote task to bubbles/list.Item.
type listItem struct {
	task client.Task
}

func (i listItem) Title() string {
	box := boxUnchecked
	if i.task.Completed {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.task.Title)
}

func (i listItem) Description() string { return i.task.Description }
func (i listItem) FilterValue() string { return i.task.Title }

// itemDelegate renders each task on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.task.Title
	if it.task.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

func taskStats(tasks []client.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
