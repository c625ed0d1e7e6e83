package trackers

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/client"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/metrics"
	"github.com/julianstephens/theseus/internal/models"
)

type TaskCmd struct {
	Add  TaskAddCmd  `cmd:"" help:"Add a new task."`
	List TaskListCmd `cmd:"" help:"List tasks in agenda order."`
	Done TaskDoneCmd `cmd:"" help:"Mark a task as done."`
}

type TaskAddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Priority string `help:"Priority (urgent, high, medium, low)." default:"medium" enum:"urgent,high,medium,low"`
	Due      string `help:"Due date in YYYY-MM-DD format."`
	Category string `help:"Optional category."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	nt := client.NewTask{Title: strings.TrimSpace(c.Title), Priority: c.Priority}
	if c.Due != "" {
		nt.DueDate = &c.Due
	}
	if c.Category != "" {
		nt.Category = &c.Category
	}

	task, err := ctx.Local().CreateTask(context.Background(), nt)
	if err != nil {
		return err
	}
	fmt.Printf("Added task #%d: %s\n", task.ID, task.Title)
	return nil
}

type TaskListCmd struct {
	All      bool   `help:"Include completed tasks."`
	Priority string `help:"Only show tasks with this priority."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	tasks, err := ctx.Store.ListTasks(context.Background(), models.TaskFilter{Priority: c.Priority})
	if err != nil {
		return err
	}
	if !c.All {
		open := tasks[:0]
		for _, t := range tasks {
			if t.Status != constants.TaskStatusDone {
				open = append(open, t)
			}
		}
		tasks = open
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	for _, it := range metrics.Agenda(tasks, ctx.Today()) {
		fmt.Println(formatAgendaItem(it))
	}
	return nil
}

func formatAgendaItem(it metrics.AgendaItem) string {
	box := "[ ]"
	if it.Status == constants.TaskStatusDone {
		box = "[x]"
	}
	line := fmt.Sprintf("%s #%-4d %-7s %s", box, it.ID, it.Priority, it.Title)
	if it.DueDate != nil {
		line += " (due " + *it.DueDate
		switch it.Due {
		case metrics.DueOverdue:
			line += ", OVERDUE"
		case metrics.DueToday:
			line += ", today"
		}
		line += ")"
	}
	return line
}

type TaskDoneCmd struct {
	ID   int64 `arg:"" help:"Task ID."`
	Undo bool  `help:"Reopen the task instead."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	status := constants.TaskStatusDone
	if c.Undo {
		status = constants.TaskStatusTodo
	}
	task, err := ctx.Local().UpdateTask(context.Background(), c.ID, models.TaskPatch{Status: &status})
	if err != nil {
		return err
	}

	if c.Undo {
		fmt.Printf("Reopened task #%d: %s\n", task.ID, task.Title)
	} else {
		fmt.Printf("Completed task #%d: %s\n", task.ID, task.Title)
	}
	return nil
}
