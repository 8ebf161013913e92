// Command milkchess inspects positions from the command line.
//
//	milkchess moves   [-fen FEN | -position POS] [-san]
//	milkchess state   [-fen FEN | -position POS] [-history POS,POS,...]
//	milkchess perft   [-fen FEN | -position POS] -depth N
//	milkchess divide  [-fen FEN | -position POS] -depth N
//	milkchess fen     -position POS | -fen FEN
//	milkchess hash-secret SECRET
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"milkchess/internal/analysis"
	"milkchess/internal/auth"
	"milkchess/internal/game"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "milkchess %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: milkchess <moves|state|perft|divide|fen|hash-secret> [flags]")
}

var errUsage = errors.New("bad usage")

func run(cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)
	fen := fs.String("fen", "", "FEN string (defaults to the initial position)")
	position := fs.String("position", "", "encoded position string")
	depth := fs.Int("depth", 0, "perft depth")
	san := fs.Bool("san", false, "print moves in SAN instead of coordinate notation")
	history := fs.String("history", "", "comma-separated earlier positions of the game, oldest first")

	switch cmd {
	case "hash-secret":
		if len(args) != 1 {
			return fmt.Errorf("%w: hash-secret takes exactly one secret", errUsage)
		}
		hash, err := auth.NewSecretService().HashSecret(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hash)
		return nil
	case "moves", "state", "perft", "divide", "fen":
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(out)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *position == "" && *fen == "" {
		*fen = game.StartFEN
	}
	pos, err := analysis.ResolvePosition(*position, *fen)
	if err != nil {
		return err
	}
	b, err := game.DecodePosition(pos)
	if err != nil {
		return err
	}

	switch cmd {
	case "moves":
		for _, a := range b.GenerateLegalMoves() {
			if *san {
				fmt.Fprintln(out, b.SAN(a))
			} else {
				fmt.Fprintln(out, a.String())
			}
		}
	case "state":
		var line []string
		if *history != "" {
			for _, h := range strings.Split(*history, ",") {
				if _, err := game.DecodePosition(h); err != nil {
					return fmt.Errorf("history: %w", err)
				}
				line = append(line, h)
			}
		}
		line = append(line, pos)

		fmt.Fprintln(out, b.ClassifyState())
		if reason, ok := b.AutomaticDraw(); ok {
			fmt.Fprintln(out, reason.DisplayText())
		} else if game.IsThreefoldRepetition(line, pos) {
			fmt.Fprintln(out, game.DrawByThreefoldRepetition.DisplayText())
		}
	case "perft":
		if *depth <= 0 {
			return fmt.Errorf("%w: -depth must be > 0", errUsage)
		}
		start := time.Now()
		nodes := b.Perft(*depth)
		elapsed := time.Since(start)
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(out, "depth %d: %d nodes in %v (%.0f nps)\n", *depth, nodes, elapsed.Round(time.Millisecond), nps)
	case "divide":
		if *depth <= 0 {
			return fmt.Errorf("%w: -depth must be > 0", errUsage)
		}
		var total int64
		for _, e := range b.Divide(*depth) {
			fmt.Fprintf(out, "%s: %d\n", e.Move, e.Nodes)
			total += e.Nodes
		}
		fmt.Fprintf(out, "Total: %d\n", total)
	case "fen":
		fmt.Fprintln(out, b.FEN())
		fmt.Fprintln(out, b.Position())
	}
	return nil
}
