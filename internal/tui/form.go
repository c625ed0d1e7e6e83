package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/theseus/internal/client"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/validation"
)

// NewTaskForm creates the quick-add form.
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Urgent", constants.PriorityUrgent),
					huh.NewOption("High", constants.PriorityHigh),
					huh.NewOption("Medium", constants.PriorityMedium),
					huh.NewOption("Low", constants.PriorityLow),
				).
				Value(&fm.Priority),
			huh.NewInput().
				Title("Due date (YYYY-MM-DD, optional)").
				Value(&fm.DueDate).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return validation.Date(strings.TrimSpace(s))
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func (fm TaskFormModel) newTask() client.NewTask {
	t := client.NewTask{
		Title:    strings.TrimSpace(fm.Title),
		Priority: fm.Priority,
	}
	if d := strings.TrimSpace(fm.DueDate); d != "" {
		t.DueDate = &d
	}
	return t
}
