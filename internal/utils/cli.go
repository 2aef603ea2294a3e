package utils

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
)

const (
	DBTypeBerkeley = "BerkelyDB"
	DBTypeSQLite   = "SQLite"

	// KeyHexLength is the length of the --KEY value, 5 bytes in hex.
	KeyHexLength = 10
)

// ErrHelp is returned by ParseOptions when --help was requested.
var ErrHelp = errors.New("help requested")

var (
	ErrNoOptions       = errors.New("No options provided. Use --help for usage information.")
	ErrInvalidDBType   = errors.New("Invalid database type. Must be 'BerkelyDB' or 'SQLite'")
	ErrInvalidKey      = errors.New("Invalid KEY format. Must be a 5-byte hexadecimal string")
	ErrNoWallet        = errors.New("Wallet path must be specified")
	ErrDumpOnlyWallet  = errors.New("--dump-all-keys can only be used with --wallet")
	ErrRemoveNeedsArgs = errors.New("--remove-pass requires --wallet, --type, and --KEY options")
	ErrNoMode          = errors.New("Either --dump-all-keys or --remove-pass must be specified")
)

// Messages for a value flag given as the last argument.
var missingValue = map[string]string{
	"--wallet": "Wallet path not specified",
	"--type":   "Database type not specified",
	"--KEY":    "KEY not specified",
}

// Options are the command line options of walletool.
type Options struct {
	Wallet      string `long:"wallet" value-name:"path" description:"Specify wallet.dat file path"`
	Type        string `long:"type" value-name:"BerkelyDB|SQLite" description:"Specify database type"`
	Key         string `long:"KEY" value-name:"5-byte-hex" description:"Specify 5-byte hexadecimal key"`
	RemovePass  bool   `long:"remove-pass" description:"Remove wallet password"`
	DumpAllKeys bool   `long:"dump-all-keys" description:"Dump all keys from wallet"`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical, off} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogDir     string `long:"logdir" description:"Directory to write a rotating log file to"`
}

func newParser(opts *Options) *flags.Parser {
	p := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash|flags.IgnoreUnknown)
	p.Name = "walletool"
	p.Usage = "--wallet <path> (--dump-all-keys | --remove-pass --type <BerkelyDB|SQLite> --KEY <5-byte-hex>)"
	return p
}

// Usage returns the help text printed for --help.
func Usage() string {
	var buf bytes.Buffer
	newParser(&Options{}).WriteHelp(&buf)
	return buf.String()
}

// ParseOptions parses and validates command line arguments, excluding the
// program name. ErrHelp is returned if --help was given anywhere.
func ParseOptions(args []string) (*Options, error) {
	if len(args) == 0 {
		return nil, ErrNoOptions
	}

	opts := &Options{}
	rest, err := newParser(opts).ParseArgs(args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			switch ferr.Type {
			case flags.ErrHelp:
				return nil, ErrHelp
			case flags.ErrExpectedArgument:
				if msg, ok := missingValue[args[len(args)-1]]; ok {
					return nil, errors.New(msg)
				}
			}
		}
		return nil, err
	}

	if len(rest) > 0 {
		return nil, fmt.Errorf("Unknown option: %s", rest[0])
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}

// Validate checks option values and combinations.
func (o *Options) Validate() error {
	if o.Type != "" && !ValidDBType(o.Type) {
		return ErrInvalidDBType
	}
	if o.Key != "" && !ValidKey(o.Key) {
		return ErrInvalidKey
	}

	if o.Wallet == "" {
		return ErrNoWallet
	}

	switch {
	case o.DumpAllKeys:
		if o.Type != "" || o.Key != "" || o.RemovePass {
			return ErrDumpOnlyWallet
		}
	case o.RemovePass:
		if o.Type == "" || o.Key == "" {
			return ErrRemoveNeedsArgs
		}
	default:
		return ErrNoMode
	}

	return nil
}

func ValidDBType(t string) bool {
	return t == DBTypeBerkeley || t == DBTypeSQLite
}

// ValidKey reports whether s is exactly 10 hex digits, either case.
func ValidKey(s string) bool {
	if len(s) != KeyHexLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
