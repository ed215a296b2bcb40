package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/go-circuit-racer/pkg/input"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
)

// parseCommand reads one line of the headless driving protocol:
//
//	press accelerate
//	release turn_left
//	ArrowUp            (a key name, pressed)
//	-ArrowUp           (a key name, released)
//
// Blank lines and lines starting with # yield ok == false.
func parseCommand(line string) (e input.Event, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return input.Event{}, false, nil
	}

	if len(fields) == 1 {
		key := fields[0]
		action := input.Press
		if strings.HasPrefix(key, "-") {
			action = input.Release
			key = key[1:]
		}
		control, known := input.KeyControl(key)
		if !known {
			return input.Event{}, false, fmt.Errorf("unknown key %q", key)
		}
		return input.Event{Control: control, Action: action, Source: input.Keyboard}, true, nil
	}

	action, err := input.ParseAction(fields[0])
	if err != nil {
		return input.Event{}, false, err
	}
	control, err := input.ParseControl(fields[1])
	if err != nil {
		return input.Event{}, false, err
	}
	source := input.Keyboard
	if len(fields) > 2 {
		if source, err = input.ParseSource(fields[2]); err != nil {
			return input.Event{}, false, err
		}
	}
	return input.Event{Control: control, Action: action, Source: source}, true, nil
}

// readCommands feeds driving commands from r to handle until r is
// exhausted or ctx is done.
func readCommands(ctx context.Context, r io.Reader, handle func(input.Event), logger *logging.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		e, ok, err := parseCommand(scanner.Text())
		if err != nil {
			logger.Warn(ctx, "Ignoring command", "line", scanner.Text(), "error", err)
			continue
		}
		if ok {
			handle(e)
		}
	}
}
