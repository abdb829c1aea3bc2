package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/book"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/validation"
)

type Option struct {
	Key   int
	Label string
}

// Selector shows a menu and returns the key of the chosen option. Key 0
// always means leaving the menu.
type Selector interface {
	Select(title string, options []Option) (int, error)
}

// NumberedSelector prints the options and reads the number of the choice.
type NumberedSelector struct {
	p *Prompter
}

func NewNumberedSelector(p *Prompter) *NumberedSelector {
	return &NumberedSelector{p: p}
}

func (s *NumberedSelector) Select(title string, options []Option) (int, error) {
	s.p.Printf("\n-- %s --\n", title)
	maxKey := 0
	for _, opt := range options {
		s.p.Printf("%d. %s\n", opt.Key, opt.Label)
		if opt.Key > maxKey {
			maxKey = opt.Key
		}
	}
	return s.p.Int("Select an option: ", validation.Between(0, maxKey))
}

// FormSelector renders the menu as an interactive list.
type FormSelector struct{}

func (FormSelector) Select(title string, options []Option) (int, error) {
	opts := make([]huh.Option[int], 0, len(options))
	for _, opt := range options {
		opts = append(opts, huh.NewOption(opt.Label, opt.Key))
	}

	var choice int
	err := huh.NewSelect[int]().
		Title(title).
		Options(opts...).
		Value(&choice).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return 0, ErrExit
	}
	return choice, err
}

// DefaultSelector picks the interactive list on a terminal and plain
// numbered prompts otherwise.
func DefaultSelector(p *Prompter) Selector {
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return FormSelector{}
	}
	return NewNumberedSelector(p)
}

type Menu struct {
	p        *Prompter
	selector Selector
	managers []manager
}

func NewMenu(b *book.Book, p *Prompter, selector Selector) *Menu {
	return &Menu{
		p:        p,
		selector: selector,
		managers: managers(b, p),
	}
}

// Run shows the main menu until the user exits.
func (m *Menu) Run(ctx context.Context) error {
	options := make([]Option, 0, len(m.managers)+1)
	for i, mgr := range m.managers {
		options = append(options, Option{Key: i + 1, Label: "Manage " + mgr.Title()})
	}
	options = append(options, Option{Key: 0, Label: "Exit"})

	m.p.Println(RenderTitle("Budget and Expense Tracker"))
	for {
		choice, err := m.selector.Select("Main Menu", options)
		if errors.Is(err, ErrExit) || (err == nil && choice == 0) {
			m.p.Println("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		if err = m.submenu(ctx, m.managers[choice-1]); err != nil {
			return err
		}
	}
}

var submenuOptions = []Option{
	{Key: 1, Label: "List"},
	{Key: 2, Label: "Add"},
	{Key: 3, Label: "Update"},
	{Key: 4, Label: "Delete"},
	{Key: 0, Label: "Back to Main Menu"},
}

func (m *Menu) submenu(ctx context.Context, mgr manager) error {
	for {
		choice, err := m.selector.Select("Manage "+mgr.Title(), submenuOptions)
		if errors.Is(err, ErrExit) || (err == nil && choice == 0) {
			return nil
		}
		if err != nil {
			return err
		}

		var action func(context.Context) error
		switch choice {
		case 1:
			action = mgr.List
		case 2:
			action = mgr.Add
		case 3:
			action = mgr.Update
		case 4:
			action = mgr.Delete
		}
		if err = m.report(action(ctx)); err != nil {
			return err
		}
	}
}

// report prints failures the user can react to and passes on the rest.
func (m *Menu) report(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrExit):
		m.p.Println("Operation cancelled.")
		return nil
	case customerr.IsValidation(err), customerr.IsNotFound(err), customerr.IsConflict(err):
		m.p.Println(RenderAlert("Error: " + err.Error()))
		return nil
	default:
		logger.Error("menu action failed", zap.Error(err))
		return err
	}
}
