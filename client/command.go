package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wfunc/mosaic/game"
)

// command is one parsed line of user input.
type command struct {
	kind   string
	name   string
	source game.Source
	color  game.Color
	line   int
}

var errUsage = errors.New(`commands:
  join <name>              take a seat (networked)
  start                    host starts the game (networked)
  pick <factory#|c> <color>  take tiles (networked)
  place <0-4|floor>        place held tiles (networked)
  move <factory#|c> <color> <0-4|floor>  whole turn (local)
  leave | quit`)

func parseCommand(input string) (command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return command{}, errUsage
	}
	cmd := command{kind: fields[0]}
	args := fields[1:]
	var err error

	switch cmd.kind {
	case "join":
		if len(args) < 1 {
			return command{}, errUsage
		}
		// names keep their case
		cmd.name = strings.Join(strings.Fields(input)[1:], " ")
	case "start", "leave", "quit", "help":
		if len(args) != 0 {
			return command{}, errUsage
		}
	case "pick":
		if len(args) != 2 {
			return command{}, errUsage
		}
		if cmd.source, cmd.color, err = parsePick(args[0], args[1]); err != nil {
			return command{}, err
		}
	case "place":
		if len(args) != 1 {
			return command{}, errUsage
		}
		if cmd.line, err = parseLine(args[0]); err != nil {
			return command{}, err
		}
	case "move":
		if len(args) != 3 {
			return command{}, errUsage
		}
		if cmd.source, cmd.color, err = parsePick(args[0], args[1]); err != nil {
			return command{}, err
		}
		if cmd.line, err = parseLine(args[2]); err != nil {
			return command{}, err
		}
	default:
		return command{}, errUsage
	}
	return cmd, nil
}

func parsePick(src, color string) (game.Source, game.Color, error) {
	c, err := game.ParseColor(color)
	if err != nil {
		return 0, 0, err
	}
	if src == "c" || src == "center" {
		return game.Center, c, nil
	}
	n, err := strconv.Atoi(src)
	if err != nil || n < 0 {
		return 0, 0, fmt.Errorf("bad source %q, want a factory number or c", src)
	}
	return game.Source(n), c, nil
}

func parseLine(s string) (int, error) {
	if s == "floor" || s == "f" || s == "-1" {
		return game.FloorLine, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= game.WallSize {
		return 0, fmt.Errorf("bad line %q, want 0-4 or floor", s)
	}
	return n, nil
}
