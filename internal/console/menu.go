package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Item is one numbered menu entry.
type Item struct {
	Label string
	Run   func(ctx context.Context) error
}

// Menu shows numbered items and dispatches the chosen one until the operator
// picks the final Exit entry or input ends.
type Menu struct {
	Title  string
	Items  []Item
	Prompt *Prompter
	Out    io.Writer
	Logger *slog.Logger
}

// Loop runs the menu. Errors returned by items are printed and the loop
// continues; only io.EOF from the prompter ends it early.
func (m *Menu) Loop(ctx context.Context) error {
	exit := strconv.Itoa(len(m.Items) + 1)
	for {
		m.render()
		choice, err := m.Prompt.Ask(fmt.Sprintf("Choose an action (1-%s): ", exit))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		choice = strings.TrimSpace(choice)
		if choice == exit {
			fmt.Fprintln(m.Out, "Goodbye!")
			return nil
		}

		item, ok := m.lookup(choice)
		if !ok {
			fmt.Fprintf(m.Out, "Invalid choice %q, pick a number from 1 to %s.\n", choice, exit)
			continue
		}
		err = item.Run(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			m.Logger.Error("menu action failed", slog.String("action", item.Label), slog.String("error", err.Error()))
			fmt.Fprintf(m.Out, "Error: %v\n", err)
		}
	}
}

func (m *Menu) lookup(choice string) (Item, bool) {
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(m.Items) || strconv.Itoa(n) != choice {
		return Item{}, false
	}
	return m.Items[n-1], true
}

func (m *Menu) render() {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(m.Out, "\n%s\n%s\n%s\n", rule, m.Title, rule)
	for i, it := range m.Items {
		fmt.Fprintf(m.Out, "%d. %s\n", i+1, it.Label)
	}
	fmt.Fprintf(m.Out, "%d. Exit\n%s\n", len(m.Items)+1, rule)
}
