package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/config"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/console"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/transport/resultsapi"
)

// main - runs the two-player game in the terminal and reports results to the result service.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()
	logger := initLogger(conf.LogLevel)

	client := resultsapi.NewClient(conf.ResultsAPIURL, resultsapi.WithTimeout(conf.SubmitTimeout))
	host := console.NewHost(logger, client, console.WithSubmitTimeout(conf.SubmitTimeout))

	if err := run(context.Background(), os.Stdin, os.Stdout, host, client); err != nil {
		panic(fmt.Errorf("game failed: %w", err))
	}

	host.Wait()
}

// initialize config.
func initConfig() *config.Client {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoadClient(filepath.Join(baseDir, "./config.yml"))
}

// initialize logger. The board owns stdout, so logs go to stderr.
func initLogger(logLevel string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, in io.Reader, out io.Writer, host *console.Host, results recentResults) error {
	fmt.Fprint(out, helpText)
	if err := host.Render(out); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		cmd := parseCommand(scanner.Text())
		switch cmd.action {
		case actionQuit:
			return nil
		case actionHelp:
			fmt.Fprint(out, helpText)
			continue
		case actionResults:
			printResults(ctx, out, results)
			continue
		case actionEvent:
			host.Dispatch(cmd.event)
		case actionShow:
		default:
			fmt.Fprintf(out, "unknown command %q, type 'help'\n", cmd.raw)
			continue
		}

		if err := host.Render(out); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("could not read input: %w", err)
	}
	return nil
}
