package report

import (
	"fmt"
	"io"

	"github.com/0xRadioAc7iv/go-walletool/internal/record"
)

const (
	MasterKeyPrefix  = "Mkey_encrypted: "
	CheckKeyPrefix   = "encrypted ckey: "
	NoMasterKeyLine  = "There is no Master Key in the file"
	RemovedKeyPrefix = "The new wallet.dat file with the password removed was saved to: "
)

// Reporter writes scan and removal results as text lines.
type Reporter struct {
	w io.Writer
}

func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// FormatRecord returns the output line for rec, without the trailing newline.
// It panics on a record of unknown kind.
func FormatRecord(rec *record.Record) string {
	switch rec.Kind {
	case record.KindMasterKey:
		return MasterKeyPrefix + rec.Hex()
	case record.KindCheckKey:
		return CheckKeyPrefix + rec.Hex()
	default:
		panic(fmt.Sprintf("report: unknown record kind %d", rec.Kind))
	}
}

// MasterKey writes the master key line followed by a blank line.
func (r *Reporter) MasterKey(rec *record.Record) error {
	_, err := fmt.Fprintf(r.w, "%s\n\n", FormatRecord(rec))
	return err
}

func (r *Reporter) NoMasterKey() error {
	_, err := fmt.Fprintln(r.w, NoMasterKeyLine)
	return err
}

func (r *Reporter) CheckKey(rec *record.Record) error {
	_, err := fmt.Fprintln(r.w, FormatRecord(rec))
	return err
}

// Removed confirms where the copied wallet was written.
func (r *Reporter) Removed(dest string) error {
	_, err := fmt.Fprintln(r.w, RemovedKeyPrefix+dest)
	return err
}
