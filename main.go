package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"wtptetris/client"
	"wtptetris/tetris"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[25;0H\n\r\033[?25h"

	minWidth, minHeight = 48, 24
)

func main() {
	addr := flag.String("addr", "localhost:9000", "tetris server address")
	online := flag.Bool("online", false, "start an online game right away")
	watch := flag.String("watch", "", "id of an online game to watch")
	noGhost := flag.Bool("no-ghost", false, "hide where the piece will land")
	interval := flag.Duration("interval", tetris.DefaultInterval, "gravity interval of local games")
	seed := flag.Uint64("seed", 0, "seed of the piece sequence, 0 picks one")
	sequence := flag.String("sequence", "", "comma separated shapes to repeat instead of random pieces, like I,O,T")
	logFile := flag.String("log", "", "write JSON logs to this file")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	logger, closeLog := newLogger(*logFile, *debug)
	defer closeLog()

	if err := checkSize(); err != nil {
		log.Fatal(err)
	}

	gameOpts := []tetris.Option{tetris.WithInterval(*interval)}
	switch {
	case *sequence != "":
		shapes, err := tetris.ParseSequence(*sequence)
		if err != nil {
			log.Fatalf("invalid --sequence: %v", err)
		}
		gameOpts = append(gameOpts, tetris.WithSource(tetris.NewCycleSource(shapes...)))
	case *seed != 0:
		gameOpts = append(gameOpts, tetris.WithSource(tetris.NewRandomSource(*seed)))
	}

	restore := startRawConsole()
	c, err := client.New(logger, &client.Options{
		NoGhost: *noGhost,
		Address: *addr,
		Online:  *online,
		Watch:   *watch,
	}, gameOpts...)
	if err != nil {
		restore()
		log.Fatalf("unable to start the client: %v", err)
	}
	c.Start()
	c.Close()
	restore()
}

func newLogger(path string, debug bool) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	var w io.Writer = io.Discard
	closer := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("unable to open log file: %v", err)
		}
		w = f
		closer = func() { f.Close() } //nolint:errcheck
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	logger.Info("client started", slog.Time("at", time.Now()))
	return logger, closer
}

func checkSize() error {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return fmt.Errorf("unable to read the terminal size: %w", err)
	}
	if w < minWidth || h < minHeight {
		return fmt.Errorf("the terminal is %dx%d, it needs to be at least %dx%d", w, h, minWidth, minHeight)
	}
	return nil
}

func startRawConsole() func() {
	fmt.Print(hideCursor)
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatalf("Error setting terminal to raw mode: %v", err)
	}

	return func() {
		if err := term.Restore(int(os.Stdin.Fd()), oldState); err != nil {
			log.Fatalf("unable to retore the terminal original state: %v", err)
		}
		fmt.Print(showCursor)
	}
}
