package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmckee/teamdash/internal/actions"
	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/ui/styles"
)

var taskPriorities = []models.TaskPriority{
	models.PriorityLow,
	models.PriorityMedium,
	models.PriorityHigh,
	models.PriorityUrgent,
}

var taskCategories = []models.TaskCategory{
	models.CategoryGeneral,
	models.CategoryDevelopment,
	models.CategoryDesign,
	models.CategoryTesting,
	models.CategoryDocumentation,
	models.CategoryMeeting,
	models.CategoryReview,
}

const (
	taskFieldTitle = iota
	taskFieldDesc
	taskFieldProject
	taskFieldAssignee
	taskFieldPriority
	taskFieldCategory
	taskFieldDeadline
	taskFieldHours
	taskFieldTags
	taskFieldConfirm
	taskFieldCount
)

// TasksView lists tasks and hosts the create form, detail pane with
// history and comments, the assign picker and progress stepping.
type TasksView struct {
	ctx    *Context
	cursor int

	// Create form
	creating    bool
	title       textinput.Model
	desc        textarea.Model
	date        textinput.Model
	hours       textinput.Model
	tags        textinput.Model
	projectIdx  int
	assigneeIdx int
	priorityIdx int
	categoryIdx int
	focusIdx    int
	fieldErrs   actions.FieldErrors

	// Detail pane
	viewing    bool
	history    []models.TaskHistoryEntry
	comments   []models.TaskComment
	commenting bool
	newComment textinput.Model

	// Assign picker
	assigning  bool
	pickCursor int

	confirmingDelete bool
	deleteTargetID   int64
}

// taskDetailMsg carries the fetched history and comments for the
// detail pane.
type taskDetailMsg struct {
	taskID   int64
	history  []models.TaskHistoryEntry
	comments []models.TaskComment
}

func NewTasksView(ctx *Context) *TasksView {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 150

	desc := textarea.New()
	desc.Placeholder = "Description (optional)"
	desc.SetHeight(3)
	desc.CharLimit = 500

	date := textinput.New()
	date.Placeholder = "Deadline (YYYY-MM-DD)"
	date.CharLimit = 10

	hours := textinput.New()
	hours.Placeholder = "Estimated hours (optional)"
	hours.CharLimit = 3

	tags := textinput.New()
	tags.Placeholder = "Tags, comma separated"
	tags.CharLimit = 100

	newComment := textinput.New()
	newComment.Placeholder = "Comment"
	newComment.CharLimit = 300

	return &TasksView{
		ctx:        ctx,
		title:      title,
		desc:       desc,
		date:       date,
		hours:      hours,
		tags:       tags,
		newComment: newComment,
	}
}

func (v *TasksView) Init() tea.Cmd { return nil }

func (v *TasksView) Editing() bool {
	return v.creating || v.confirmingDelete || v.assigning || v.commenting
}

func (v *TasksView) tasks() []models.Task {
	return v.ctx.Store.Snapshot().Tasks
}

func (v *TasksView) Update(msg tea.Msg) tea.Cmd {
	if detail, ok := msg.(taskDetailMsg); ok {
		tasks := v.tasks()
		if v.viewing && v.cursor < len(tasks) && tasks[v.cursor].ID == detail.taskID {
			v.history = detail.history
			v.comments = detail.comments
		}
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case v.confirmingDelete:
		return v.updateConfirmDelete(keyMsg)
	case v.creating:
		return v.updateCreating(keyMsg)
	case v.assigning:
		return v.updateAssigning(keyMsg)
	case v.commenting:
		return v.updateCommenting(keyMsg)
	case v.viewing:
		return v.updateViewing(keyMsg)
	}

	tasks := v.tasks()
	k := v.ctx.Keys
	switch {
	case key.Matches(keyMsg, k.Up):
		v.cursor = clamp(v.cursor-1, 0, max(len(tasks)-1, 0))
	case key.Matches(keyMsg, k.Down):
		v.cursor = clamp(v.cursor+1, 0, max(len(tasks)-1, 0))
	case key.Matches(keyMsg, k.New):
		v.startCreate()
		return textinput.Blink
	case key.Matches(keyMsg, k.Enter):
		if v.cursor < len(tasks) {
			v.viewing = true
			v.history = nil
			v.comments = nil
			return v.fetchDetail(tasks[v.cursor].ID)
		}
	case keyMsg.String() == "a":
		if v.cursor < len(tasks) {
			v.assigning = true
			v.pickCursor = 0
		}
	case keyMsg.String() == "+", keyMsg.String() == "=":
		return v.step(1)
	case keyMsg.String() == "-":
		return v.step(-1)
	case key.Matches(keyMsg, k.Delete):
		if v.cursor < len(tasks) {
			v.confirmingDelete = true
			v.deleteTargetID = tasks[v.cursor].ID
		}
	}
	return nil
}

func (v *TasksView) step(direction int) tea.Cmd {
	tasks := v.tasks()
	if v.cursor >= len(tasks) {
		return nil
	}
	id := tasks[v.cursor].ID
	return actionCmd(func() error { return v.ctx.Actions.StepTaskProgress(id, direction) })
}

func (v *TasksView) fetchDetail(taskID int64) tea.Cmd {
	a := v.ctx.Actions
	return func() tea.Msg {
		// Read errors leave the pane empty; the row data is already
		// on screen from the store.
		history, _ := a.TaskHistory(taskID)
		comments, _ := a.TaskComments(taskID)
		return taskDetailMsg{taskID: taskID, history: history, comments: comments}
	}
}

func (v *TasksView) startCreate() {
	v.creating = true
	v.focusIdx = taskFieldTitle
	v.projectIdx = 0
	v.assigneeIdx = 0
	v.priorityIdx = 1 // medium
	v.categoryIdx = 0
	v.fieldErrs = nil
	v.title.Reset()
	v.desc.Reset()
	v.date.Reset()
	v.hours.Reset()
	v.tags.Reset()
	v.syncFocus()
}

func (v *TasksView) syncFocus() {
	v.title.Blur()
	v.desc.Blur()
	v.date.Blur()
	v.hours.Blur()
	v.tags.Blur()
	switch v.focusIdx {
	case taskFieldTitle:
		v.title.Focus()
	case taskFieldDesc:
		v.desc.Focus()
	case taskFieldDeadline:
		v.date.Focus()
	case taskFieldHours:
		v.hours.Focus()
	case taskFieldTags:
		v.tags.Focus()
	}
}

func (v *TasksView) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteTargetID
		v.confirmingDelete = false
		v.viewing = false
		return actionCmd(func() error { return v.ctx.Actions.DeleteTask(id) })
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return nil
}

func (v *TasksView) updateCreating(msg tea.KeyMsg) tea.Cmd {
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.creating = false
		return nil

	case key.Matches(msg, k.Tab), msg.String() == "shift+tab":
		dir := 1
		if msg.String() == "shift+tab" {
			dir = taskFieldCount - 1
		}
		v.focusIdx = (v.focusIdx + dir) % taskFieldCount
		v.syncFocus()
		return nil

	case msg.String() == "left", msg.String() == "right":
		dir := 1
		if msg.String() == "left" {
			dir = -1
		}
		snap := v.ctx.Store.Snapshot()
		switch v.focusIdx {
		case taskFieldProject:
			v.projectIdx = clamp(v.projectIdx+dir, 0, max(len(snap.Projects)-1, 0))
			return nil
		case taskFieldAssignee:
			v.assigneeIdx = clamp(v.assigneeIdx+dir, 0, max(len(snap.Members)-1, 0))
			return nil
		case taskFieldPriority:
			v.priorityIdx = (v.priorityIdx + dir + len(taskPriorities)) % len(taskPriorities)
			return nil
		case taskFieldCategory:
			v.categoryIdx = (v.categoryIdx + dir + len(taskCategories)) % len(taskCategories)
			return nil
		}

	case key.Matches(msg, k.Enter) && v.focusIdx != taskFieldDesc:
		if v.focusIdx < taskFieldConfirm {
			v.focusIdx++
			v.syncFocus()
			return nil
		}
		return v.submitCreate()

	case msg.String() == "ctrl+s":
		return v.submitCreate()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case taskFieldTitle:
		v.title, cmd = v.title.Update(msg)
	case taskFieldDesc:
		v.desc, cmd = v.desc.Update(msg)
	case taskFieldDeadline:
		v.date, cmd = v.date.Update(msg)
	case taskFieldHours:
		v.hours, cmd = v.hours.Update(msg)
	case taskFieldTags:
		v.tags, cmd = v.tags.Update(msg)
	}
	return cmd
}

func (v *TasksView) submitCreate() tea.Cmd {
	snap := v.ctx.Store.Snapshot()

	in := actions.TaskInput{
		Title:       strings.TrimSpace(v.title.Value()),
		Description: strings.TrimSpace(v.desc.Value()),
		Priority:    taskPriorities[v.priorityIdx],
		Category:    taskCategories[v.categoryIdx],
	}
	if v.projectIdx < len(snap.Projects) {
		in.ProjectID = snap.Projects[v.projectIdx].ID
	}
	if v.assigneeIdx < len(snap.Members) {
		in.AssignedTo = snap.Members[v.assigneeIdx].ID
	}
	if deadline, ok := parseDate(strings.TrimSpace(v.date.Value())); ok {
		in.Deadline = deadline
	}
	if raw := strings.TrimSpace(v.hours.Value()); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			in.EstimatedHours = &n
		}
	}
	for _, tag := range strings.Split(v.tags.Value(), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			in.Tags = append(in.Tags, tag)
		}
	}

	if errs := in.Validate(timeNow()); errs != nil {
		v.fieldErrs = errs
		return nil
	}

	v.creating = false
	return actionCmd(func() error { return v.ctx.Actions.CreateTask(in) })
}

func (v *TasksView) updateAssigning(msg tea.KeyMsg) tea.Cmd {
	members := v.ctx.Store.Snapshot().Members
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.assigning = false
	case key.Matches(msg, k.Up):
		v.pickCursor = clamp(v.pickCursor-1, 0, max(len(members)-1, 0))
	case key.Matches(msg, k.Down):
		v.pickCursor = clamp(v.pickCursor+1, 0, max(len(members)-1, 0))
	case key.Matches(msg, k.Enter):
		tasks := v.tasks()
		if v.pickCursor < len(members) && v.cursor < len(tasks) {
			taskID, memberID := tasks[v.cursor].ID, members[v.pickCursor].ID
			v.assigning = false
			return actionCmd(func() error { return v.ctx.Actions.AssignTask(taskID, memberID) })
		}
		v.assigning = false
	}
	return nil
}

func (v *TasksView) updateCommenting(msg tea.KeyMsg) tea.Cmd {
	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.commenting = false
		return nil
	case key.Matches(msg, k.Enter):
		tasks := v.tasks()
		text := strings.TrimSpace(v.newComment.Value())
		v.commenting = false
		if text == "" || v.cursor >= len(tasks) {
			return nil
		}
		taskID := tasks[v.cursor].ID
		return tea.Sequence(
			actionCmd(func() error { return v.ctx.Actions.CommentTask(taskID, text) }),
			v.fetchDetail(taskID),
		)
	}
	var cmd tea.Cmd
	v.newComment, cmd = v.newComment.Update(msg)
	return cmd
}

func (v *TasksView) updateViewing(msg tea.KeyMsg) tea.Cmd {
	tasks := v.tasks()
	if v.cursor >= len(tasks) {
		v.viewing = false
		return nil
	}
	t := tasks[v.cursor]

	k := v.ctx.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.viewing = false
	case msg.String() == "c":
		v.commenting = true
		v.newComment.Reset()
		v.newComment.Focus()
		return textinput.Blink
	case msg.String() == "a":
		v.assigning = true
		v.pickCursor = 0
	case msg.String() == "+", msg.String() == "=":
		return tea.Sequence(v.step(1), v.fetchDetail(t.ID))
	case msg.String() == "-":
		return tea.Sequence(v.step(-1), v.fetchDetail(t.ID))
	case key.Matches(msg, k.Delete):
		v.confirmingDelete = true
		v.deleteTargetID = t.ID
	}
	return nil
}

func (v *TasksView) View() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()

	switch {
	case v.confirmingDelete:
		return v.renderDeleteConfirm()
	case v.creating:
		return v.renderCreateForm()
	case v.assigning:
		return v.renderAssignPicker()
	case v.commenting:
		return v.renderCommentForm()
	case v.viewing:
		return v.renderDetail()
	}

	if len(snap.Tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render("No Tasks"),
			"",
			s.TitleMuted.Render("Press 'n' to create a task"),
		)
		return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
			lipgloss.Center, lipgloss.Center, content)
	}

	var rows []string
	for i, t := range snap.Tasks {
		assignee := "-"
		if m, ok := snap.MemberByID(t.AssignedTo); ok {
			assignee = m.Name
		}
		line := fmt.Sprintf("%-26s %-14s %-8s %-11s %s %3d%%",
			truncate(t.Title, 26), truncate(assignee, 14), t.Priority, t.Status,
			s.ProgressBar(t.Progress, 10), t.Progress)
		if i == v.cursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}

	help := s.Help.Render(
		s.HelpKey.Render("↵") + " detail • " + s.HelpKey.Render("n") + " new • " +
			s.HelpKey.Render("a") + " assign • " + s.HelpKey.Render("+/-") + " progress • " +
			s.HelpKey.Render("d") + " del")
	content := s.List.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n" + help
	return styles.CenterView(content, v.ctx.Width, v.ctx.Height)
}

func (v *TasksView) renderCreateForm() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()
	contentWidth := styles.ContentWidth(v.ctx.Width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	input := func(idx int, label string, view string, errKey string) string {
		style := s.Input
		if v.focusIdx == idx {
			style = s.InputFocused
		}
		if v.fieldErrs[errKey] != "" {
			style = s.InputError
		}
		out := label + "\n" + style.Width(inputWidth).Render(view)
		if msg := v.fieldErrs[errKey]; msg != "" {
			out += "\n" + s.FieldError.Render(msg)
		}
		return out
	}
	chooser := func(idx int, label, value string) string {
		style := s.Button
		if v.focusIdx == idx {
			style = s.ButtonFocused
		}
		return label + " " + style.Render(" "+value+" ")
	}

	project, assignee := "-", "-"
	if v.projectIdx < len(snap.Projects) {
		project = snap.Projects[v.projectIdx].Name
	}
	if v.assigneeIdx < len(snap.Members) {
		assignee = snap.Members[v.assigneeIdx].Name
	}
	assigneeRow := chooser(taskFieldAssignee, "Assignee:", assignee)
	if msg := v.fieldErrs["assignedTo"]; msg != "" {
		assigneeRow += "  " + s.FieldError.Render(msg)
	}

	btnStyle := s.Button
	if v.focusIdx == taskFieldConfirm {
		btnStyle = s.ButtonFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Task"),
		"",
		input(taskFieldTitle, "Title:", v.title.View(), "title"),
		"",
		input(taskFieldDesc, "Description:", v.desc.View(), ""),
		"",
		chooser(taskFieldProject, "Project:", project),
		assigneeRow,
		chooser(taskFieldPriority, "Priority:", string(taskPriorities[v.priorityIdx])),
		chooser(taskFieldCategory, "Category:", string(taskCategories[v.categoryIdx])),
		"",
		input(taskFieldDeadline, "Deadline:", v.date.View(), "deadline"),
		"",
		input(taskFieldHours, "Estimated hours:", v.hours.View(), "estimatedHours"),
		"",
		input(taskFieldTags, "Tags:", v.tags.View(), ""),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • ←/→: choose • Ctrl+S: save • Esc: cancel"),
	)

	return lipgloss.Place(contentWidth, v.ctx.Height,
		lipgloss.Center, lipgloss.Center, form)
}

func (v *TasksView) renderAssignPicker() string {
	s := v.ctx.Styles
	members := v.ctx.Store.Snapshot().Members

	var rows []string
	rows = append(rows, s.Title.Render("Assign To"), "")
	for i, m := range members {
		line := fmt.Sprintf("%-20s %s", truncate(m.Name, 20), m.Role)
		if i == v.pickCursor {
			rows = append(rows, s.ListSelected.Render(line))
		} else {
			rows = append(rows, s.ListItem.Render(line))
		}
	}
	rows = append(rows, "", s.TitleMuted.Render("Enter: assign • Esc: cancel"))

	return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (v *TasksView) renderCommentForm() string {
	s := v.ctx.Styles
	contentWidth := styles.ContentWidth(v.ctx.Width)
	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Comment"),
		"",
		s.InputFocused.Width(clamp(contentWidth-6, 20, 50)).Render(v.newComment.View()),
		"",
		s.TitleMuted.Render("Enter: save • Esc: cancel"),
	)
	return lipgloss.Place(contentWidth, v.ctx.Height,
		lipgloss.Center, lipgloss.Center, form)
}

func (v *TasksView) renderDetail() string {
	s := v.ctx.Styles
	snap := v.ctx.Store.Snapshot()
	tasks := v.tasks()
	if v.cursor >= len(tasks) {
		return ""
	}
	t := tasks[v.cursor]

	assignee := "-"
	if m, ok := snap.MemberByID(t.AssignedTo); ok {
		assignee = m.Name
	}
	project := "-"
	if p, ok := snap.ProjectByID(t.ProjectID); ok {
		project = p.Name
	}

	var rows []string
	rows = append(rows,
		s.Title.Render(t.Title)+"  "+s.TitleMuted.Render(string(t.Status)),
		s.TitleMuted.Render(fmt.Sprintf("%s • %s • %s • due %s",
			project, assignee, t.Priority, fmtDate(t.Deadline))),
		"",
		s.ProgressBar(t.Progress, 30)+fmt.Sprintf(" %d%%", t.Progress),
	)
	if t.Description != "" {
		rows = append(rows, "", t.Description)
	}
	if len(t.Tags) > 0 {
		rows = append(rows, "", s.TitleMuted.Render("Tags: "+strings.Join(t.Tags, ", ")))
	}

	if len(v.comments) > 0 {
		rows = append(rows, "", s.Title.Render("Comments"))
		for _, c := range v.comments {
			rows = append(rows, s.ListItem.Render(
				fmt.Sprintf("%s  %s", c.CreatedAt.Format("2006-01-02"), c.Comment)))
		}
	}
	if len(v.history) > 0 {
		rows = append(rows, "", s.Title.Render("History"))
		for _, h := range v.history {
			line := fmt.Sprintf("%s  %s", h.CreatedAt.Format("2006-01-02 15:04"), h.Action)
			if h.NewValue != "" {
				line += "  " + h.NewValue
			}
			rows = append(rows, s.TitleMuted.Render(line))
		}
	}

	rows = append(rows, "", s.Help.Render(
		s.HelpKey.Render("c")+" comment • "+s.HelpKey.Render("a")+" assign • "+
			s.HelpKey.Render("+/-")+" progress • "+s.HelpKey.Render("esc")+" back"))

	content := s.List.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(content, v.ctx.Width, v.ctx.Height)
}

func (v *TasksView) renderDeleteConfirm() string {
	s := v.ctx.Styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete Task?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	return lipgloss.Place(styles.ContentWidth(v.ctx.Width), v.ctx.Height,
		lipgloss.Center, lipgloss.Center, content)
}
