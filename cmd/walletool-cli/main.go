package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/0xRadioAc7iv/go-walletool/core"
	"github.com/0xRadioAc7iv/go-walletool/internal"
	"github.com/0xRadioAc7iv/go-walletool/internal/logging"
	"github.com/0xRadioAc7iv/go-walletool/internal/utils"
	"github.com/0xRadioAc7iv/go-walletool/walletool"
	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"golang.org/x/term"
)

type options struct {
	DesktopDir string `long:"desktopdir" description:"Directory password removal copies are written to"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical, off}"`
	LogDir     string `long:"logdir" description:"Directory to write a rotating log file to"`
}

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	errorColor  = color.New(color.FgRed)
)

func main() {
	os.Exit(mainInt())
}

func mainInt() int {
	ctx, stop := utils.ContextWithProcessInterruptOrKill(context.Background())
	defer stop()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	return run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, interactive)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer,
	interactive bool) int {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(out, err)
			return 0
		}
		errorColor.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		errorColor.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	if opts.DesktopDir != "" {
		cfg.DesktopDir = opts.DesktopDir
	}

	logCfg := cfg.LoggingConfig()
	if opts.DebugLevel != "" {
		cfg.DebugLevel = opts.DebugLevel
		logCfg.Console = errOut
	}
	if opts.LogDir != "" {
		logCfg.LogDir = opts.LogDir
	}

	logMgr, err := logging.NewManager(logCfg)
	if err != nil {
		errorColor.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	defer logMgr.Close()

	core.SetupLoggers(logMgr)
	if err := logMgr.SetLevels(cfg.DebugLevel); err != nil {
		errorColor.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	client, err := walletool.New(
		walletool.WithConfig(cfg),
		walletool.WithOutput(out),
	)
	if err != nil {
		errorColor.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	if interactive {
		fmt.Fprintln(out, "Type commands. 'help' for information or 'exit' to quit.")
	}

	lines := make(chan string)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if interactive {
			promptColor.Fprint(out, "walletool> ")
		}

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return 0

		case l, ok := <-lines:
			if !ok {
				return 0
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}

		cmd, cmdArgs, err := utils.SplitStringIntoCommandAndArguments(line)
		if err != nil {
			errorColor.Fprintf(out, "parse error: %v\n", err)
			continue
		}

		if strings.EqualFold(cmd, "exit") {
			return 0
		}

		if err := client.Execute(cmd, cmdArgs); err != nil {
			errorColor.Fprintf(out, "Error: %v\n", err)
		}
	}
}
