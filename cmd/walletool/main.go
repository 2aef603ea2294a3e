package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/0xRadioAc7iv/go-walletool/core"
	"github.com/0xRadioAc7iv/go-walletool/internal"
	"github.com/0xRadioAc7iv/go-walletool/internal/logging"
	"github.com/0xRadioAc7iv/go-walletool/internal/utils"
)

func main() {
	os.Exit(mainInt())
}

func mainInt() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	fail := func(err error) int {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts, err := utils.ParseOptions(args)
	if errors.Is(err, utils.ErrHelp) {
		fmt.Fprint(stdout, utils.Usage())
		return 0
	}
	if err != nil {
		return fail(err)
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fail(err)
	}

	logCfg := cfg.LoggingConfig()
	if opts.DebugLevel != "" {
		cfg.DebugLevel = opts.DebugLevel
		logCfg.Console = stderr
	}
	if opts.LogDir != "" {
		logCfg.LogDir = opts.LogDir
	}

	logMgr, err := logging.NewManager(logCfg)
	if err != nil {
		return fail(err)
	}
	defer logMgr.Close()

	core.SetupLoggers(logMgr)
	if err := logMgr.SetLevels(cfg.DebugLevel); err != nil {
		return fail(err)
	}

	wt := &core.Walletool{
		Output:     stdout,
		DesktopDir: cfg.DesktopDir,
	}

	if opts.DumpAllKeys {
		err = wt.DumpAllKeys(opts.Wallet)
	} else {
		_, err = wt.RemovePassword(core.RemovalRequest{
			WalletPath: opts.Wallet,
			DBType:     opts.Type,
			Key:        opts.Key,
		})
	}
	if err != nil {
		return fail(err)
	}

	return 0
}
