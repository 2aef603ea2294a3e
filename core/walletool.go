package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/0xRadioAc7iv/go-walletool/internal/cache"
	"github.com/0xRadioAc7iv/go-walletool/internal/lock"
	"github.com/0xRadioAc7iv/go-walletool/internal/metrics"
	"github.com/0xRadioAc7iv/go-walletool/internal/record"
	"github.com/0xRadioAc7iv/go-walletool/internal/report"
	"github.com/0xRadioAc7iv/go-walletool/internal/scanner"
	"github.com/0xRadioAc7iv/go-walletool/internal/utils"
	"github.com/davecgh/go-spew/spew"
)

// Walletool scans wallet files for encrypted keys and writes password
// removal copies. The zero value writes to stdout and keeps no cache or
// metrics.
type Walletool struct {
	Output     io.Writer          // Where results are printed, os.Stdout if nil
	DesktopDir string             // Destination directory override
	Cache      *cache.ScanCache   // Optional scan result cache
	Metrics    *metrics.Collector // Optional event counters
}

// ScanResult holds every record found in one wallet file.
type ScanResult struct {
	MasterKey *record.Record   // nil when the file has no usable "mkey"
	CheckKeys []*record.Record // in file order
	Cached    bool
}

// RemovalRequest carries the --remove-pass options.
type RemovalRequest struct {
	WalletPath string
	DBType     string
	Key        string // 10 hex digits; validated, never used by the copy
}

func (wt *Walletool) reporter() *report.Reporter {
	if wt.Output == nil {
		return report.New(os.Stdout)
	}
	return report.New(wt.Output)
}

func (wt *Walletool) count(event string, n int) {
	if wt.Metrics != nil {
		wt.Metrics.Add(event, n)
	}
}

// DumpAllKeys prints the master key (or its absence) followed by every check
// key of the wallet at path.
func (wt *Walletool) DumpAllKeys(path string) error {
	res, err := wt.Scan(path)
	if err != nil {
		return err
	}

	rep := wt.reporter()

	if res.MasterKey != nil {
		err = rep.MasterKey(res.MasterKey)
	} else {
		err = rep.NoMasterKey()
	}
	if err != nil {
		return err
	}

	for _, rec := range res.CheckKeys {
		if err := rep.CheckKey(rec); err != nil {
			return err
		}
	}

	if wt.Metrics != nil {
		log.Tracef("Metrics after dump: %v", newLogClosure(func() string {
			snap, _ := wt.Metrics.Snapshot()
			return spew.Sdump(snap)
		}))
	}

	return nil
}

// Scan runs the master key pass and then the check key pass over the wallet
// at path. The file is opened separately for each pass. Results for an
// unchanged file are served from the cache when one is configured.
func (wt *Walletool) Scan(path string) (*ScanResult, error) {
	wt.count(metrics.ScanAttempts, 1)

	res, err := wt.scan(path)
	if err != nil {
		wt.count(metrics.Failures, 1)
		return nil, err
	}

	if res.MasterKey != nil {
		wt.count(metrics.MasterKeysFound, 1)
	} else {
		wt.count(metrics.MasterKeysMissing, 1)
	}
	wt.count(metrics.CheckKeysFound, len(res.CheckKeys))

	return res, nil
}

func (wt *Walletool) scan(path string) (*ScanResult, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		log.Debugf("Unable to open %v: %v", path, err)
		return nil, fmt.Errorf("Can't open file %s", path)
	}

	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	var fp fingerprint
	if wt.Cache != nil {
		fp, err = fingerprintOf(path, info)
		if err != nil {
			log.Debugf("Unable to checksum %v: %v", path, err)
			return nil, fmt.Errorf("Can't open file %s", path)
		}

		if res, ok := wt.fromCache(key, fp); ok {
			wt.count(metrics.ScanCacheHits, 1)
			return res, nil
		}
	}

	log.Debugf("Scanning %v (%d bytes)", path, info.Size())

	res := &ScanResult{}

	err = withScanner(path, func(s *scanner.Scanner) error {
		var err error
		res.MasterKey, err = s.MasterKey()
		return err
	})
	if err != nil {
		return nil, err
	}

	if res.MasterKey == nil {
		log.Infof("No master key found in %v", path)
	}

	err = withScanner(path, func(s *scanner.Scanner) error {
		return s.CheckKeys(func(rec *record.Record) error {
			res.CheckKeys = append(res.CheckKeys, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Found %d check keys in %v", len(res.CheckKeys), path)

	if wt.Cache != nil {
		wt.toCache(key, fp, res)
	}

	return res, nil
}

// withScanner opens path for a single pass and closes it on every exit path.
func withScanner(path string, fn func(*scanner.Scanner) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Can't open file %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("Can't open file %s", path)
	}

	return fn(scanner.New(f, info.Size()))
}

// fingerprint identifies the file contents a cached scan was built from.
type fingerprint struct {
	size     int64
	modTime  int64
	checksum uint32
}

// fingerprintOf reads the whole file at path. The checksum is taken before
// the scan passes, so a file rewritten mid-scan never matches on the next
// lookup.
func fingerprintOf(path string, info os.FileInfo) (fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return fingerprint{}, err
	}
	defer f.Close()

	sum, err := record.ReaderCRC(f)
	if err != nil {
		return fingerprint{}, err
	}

	return fingerprint{
		size:     info.Size(),
		modTime:  info.ModTime().UnixNano(),
		checksum: sum,
	}, nil
}

func (wt *Walletool) fromCache(key string, fp fingerprint) (*ScanResult, bool) {
	entry, ok := wt.Cache.Retrieve(key)
	if !ok {
		return nil, false
	}
	if !entry.Fresh(fp.size, fp.modTime, fp.checksum) {
		log.Debugf("Cached scan of %v is stale", key)
		return nil, false
	}

	res, err := decodeResult(entry.Data)
	if err != nil {
		log.Warnf("Dropping unreadable cache entry for %v: %v", key, err)
		wt.Cache.Delete(key)
		return nil, false
	}

	log.Debugf("Serving %v from cache", key)
	res.Cached = true

	return res, true
}

func (wt *Walletool) toCache(key string, fp fingerprint, res *ScanResult) {
	data, err := encodeResult(res)
	if err != nil {
		log.Warnf("Unable to cache scan of %v: %v", key, err)
		return
	}

	wt.Cache.Store(key, cache.Entry{
		Size:     fp.size,
		ModTime:  fp.modTime,
		Checksum: fp.checksum,
		Data:     data,
	})
}

func encodeResult(res *ScanResult) ([]byte, error) {
	var buf bytes.Buffer

	if res.MasterKey != nil {
		if err := record.WriteRecord(&buf, res.MasterKey); err != nil {
			return nil, err
		}
	}
	for _, rec := range res.CheckKeys {
		if err := record.WriteRecord(&buf, rec); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decodeResult(data []byte) (*ScanResult, error) {
	res := &ScanResult{}
	r := bytes.NewReader(data)

	for {
		rec, err := record.ReadRecord(r)
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}

		switch rec.Kind {
		case record.KindMasterKey:
			if res.MasterKey != nil {
				return nil, errors.New("duplicate master key record")
			}
			res.MasterKey = rec
		case record.KindCheckKey:
			res.CheckKeys = append(res.CheckKeys, rec)
		}
	}
}

// RemovePassword copies the wallet to <Desktop>/wallet.dat and prints where it
// was saved. The copy is byte for byte; req.Key is only validated.
func (wt *Walletool) RemovePassword(req RemovalRequest) (string, error) {
	wt.count(metrics.RemovalAttempts, 1)

	dest, err := wt.removePassword(req)
	if err != nil {
		wt.count(metrics.Failures, 1)
		return "", err
	}

	wt.count(metrics.RemovalSuccess, 1)

	if err := wt.reporter().Removed(dest); err != nil {
		return "", err
	}

	return dest, nil
}

func (wt *Walletool) removePassword(req RemovalRequest) (string, error) {
	switch {
	case req.WalletPath == "":
		return "", utils.ErrNoWallet
	case !utils.ValidDBType(req.DBType):
		return "", utils.ErrInvalidDBType
	case !utils.ValidKey(req.Key):
		return "", utils.ErrInvalidKey
	}

	if !utils.PathExists(req.WalletPath) {
		return "", fmt.Errorf("Source wallet file does not exist: %s", req.WalletPath)
	}

	desktop, err := utils.DesktopDir(wt.DesktopDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(desktop, DefaultDirPerm); err != nil {
		return "", fmt.Errorf("Cannot create destination directory %s: %w", desktop, err)
	}

	dest := filepath.Join(desktop, DestinationFileName)

	lf, err := lock.Acquire(dest)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := lock.Release(lf); err != nil {
			log.Warnf("Unable to release lock on %v: %v", dest, err)
		}
	}()

	log.Debugf("Copying %v (%v) to %v", req.WalletPath, req.DBType, dest)

	n, err := utils.CopyFile(req.WalletPath, dest)
	if err != nil {
		return "", fmt.Errorf("Failed to process wallet file: %w", err)
	}

	log.Infof("Wrote %d bytes to %v", n, dest)

	return dest, nil
}
