package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
)

// ActionFunc handles one menu command. args is the rest of the command line.
type ActionFunc func(ctx context.Context, args string)

type action struct {
	args        string
	description string
	handler     ActionFunc
}

// Menu reads commands line by line and dispatches them by their first word. Handlers may
// read further lines through ReadLine.
type Menu struct {
	in      *bufio.Scanner
	out     io.Writer
	actions map[string]action
}

func NewMenu(in io.Reader, out io.Writer) *Menu {
	m := &Menu{
		in:      bufio.NewScanner(in),
		out:     out,
		actions: make(map[string]action),
	}
	m.AddAction("Help", "", "Show instructions", func(context.Context, string) { m.ShowInstructions() })
	return m
}

func (m *Menu) AddAction(name, args, description string, handler ActionFunc) {
	m.actions[name] = action{args: args, description: description, handler: handler}
}

// ReadLine returns the next input line with surrounding whitespace removed. ok is false at
// the end of input.
func (m *Menu) ReadLine() (line string, ok bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) Printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func (m *Menu) Println(args ...any) {
	fmt.Fprintln(m.out, args...)
}

// Run processes commands until the input ends or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		line, ok := m.ReadLine()
		if !ok {
			return m.in.Err()
		}
		if line == "" {
			continue
		}
		name, args, _ := strings.Cut(line, " ")
		act, found := m.actions[name]
		if !found {
			m.Println("Invalid command")
			continue
		}
		act.handler(ctx, strings.TrimSpace(args))
	}
	return ctx.Err()
}

// ShowInstructions lists the commands in name order.
func (m *Menu) ShowInstructions() {
	names := make([]string, 0, len(m.actions))
	for name := range m.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		act := m.actions[name]
		if act.args != "" {
			m.Printf("%s %s: %s\n", name, act.args, act.description)
		} else {
			m.Printf("%s: %s\n", name, act.description)
		}
	}
}
