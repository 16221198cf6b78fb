package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"nickandperla.net/formula/pkg/formula"
)

var errQuit = errors.New("quit")

// runLines drives a session from line-oriented input. Each word is a
// fragment; lines starting with ':' are commands. The formula and result
// are printed after every line.
func runLines(ctx context.Context, in io.Reader, out io.Writer, s *formula.Session, st styles) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			err := runCommand(ctx, out, s, line[1:])
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
		} else {
			for _, word := range strings.Fields(line) {
				if !s.Submit(word) {
					fmt.Fprintf(out, "rejected: %s\n", word)
				}
			}
		}

		state := s.State()
		text, _ := st.formula(state, "")
		fmt.Fprintln(out, text)
		fmt.Fprintln(out, st.resultLine(state.Result))
	}
	return scanner.Err()
}

func runCommand(ctx context.Context, out io.Writer, s *formula.Session, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}

	switch name, args := fields[0], fields[1:]; name {
	case "rm":
		i, err := indexArg(args)
		if err != nil {
			return err
		}
		if !s.Remove(i) {
			return fmt.Errorf("no token at %d", i)
		}

	case "sel":
		i, err := indexArg(args)
		if err != nil {
			return err
		}
		s.Select(i)

	case "opt":
		if len(args) < 2 {
			return fmt.Errorf("usage: :opt N OPTION [VALUE]")
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		option, value := strings.Join(args[1:], " "), (*float64)(nil)
		// A trailing number is the new value when the rest names an option.
		if n := len(args); n > 2 {
			if v, err := strconv.ParseFloat(args[n-1], 64); err == nil {
				if head := strings.Join(args[1:n-1], " "); slices.Contains(s.TagOptions(), head) {
					option, value = head, &v
				}
			}
		}
		return s.SetTagOption(i, option, value)

	case "clear":
		s.Clear()

	case "list":
		query := strings.Join(args, " ")
		items := s.Suggestions(query)
		if query == "" {
			items = s.Snapshot().All()
		}
		for _, it := range items {
			fmt.Fprintf(out, "  %s (%s) %s\n", it.Name, it.Category, it.Value)
		}

	case "refresh":
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d suggestions\n", s.Snapshot().Len())

	case "quit", "q":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}

func indexArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one index")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", args[0])
	}
	return i, nil
}
