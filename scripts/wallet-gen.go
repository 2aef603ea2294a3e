/*
	Basic Script that generates synthetic wallet containers with known keys and
	checks that walletool finds every one of them.
*/

package main

import (
	"bytes"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/0xRadioAc7iv/go-walletool/walletool"
)

const (
	concurrency = 6

	minFileSize = 4 * 1024
	maxFileSize = 512 * 1024

	maxCheckKeys = 20

	progressEvery = 50
)

type wallet struct {
	path      string
	masterKey []byte
	checkKeys [][]byte
}

func main() {
	dir := flag.String("dir", "./wallets", "Directory to write generated wallets to")
	count := flag.Int("count", 200, "Number of wallets to generate")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		fmt.Println("Error creating output directory:", err)
		os.Exit(1)
	}

	client, err := walletool.New(walletool.WithOutput(&bytes.Buffer{}))
	if err != nil {
		fmt.Println("Error creating client:", err)
		os.Exit(1)
	}

	start := time.Now()
	fmt.Println("Starting synthetic wallet generator")

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))

			for n := range jobs {
				w, err := generate(rng, filepath.Join(*dir, fmt.Sprintf("wallet-%05d.dat", n)))
				if err != nil {
					fmt.Printf("[worker %d] write error: %v\n", id, err)
					continue
				}

				if err := verify(client, w); err != nil {
					fmt.Printf("[worker %d] %v: %v\n", id, w.path, err)
					mu.Lock()
					failures++
					mu.Unlock()
				}

				if n > 0 && n%progressEvery == 0 {
					fmt.Printf("[worker %d] completed wallet %d\n", id, n)
				}
			}
		}(i)
	}

	for n := 0; n < *count; n++ {
		jobs <- n
	}
	close(jobs)
	wg.Wait()

	fmt.Printf("Generated %d wallets in %v, %d mismatches\n", *count, time.Since(start), failures)
	if failures > 0 {
		os.Exit(1)
	}
}

// generate writes random filler with an optional master key and a run of
// check keys placed so their windows do not overlap.
func generate(rng *rand.Rand, path string) (*wallet, error) {
	size := minFileSize + rng.Intn(maxFileSize-minFileSize)
	data := make([]byte, size)
	for i := range data {
		// Upper case filler can never spell a lower case tag.
		data[i] = byte('A' + rng.Intn(26))
	}

	w := &wallet{path: path}
	pos := 72

	if rng.Intn(4) > 0 {
		w.masterKey = randomKey(rng)
		copy(data[pos-72:], w.masterKey)
		copy(data[pos:], "mkey")
		pos += 4
	}

	n := rng.Intn(maxCheckKeys + 1)
	for i := 0; i < n; i++ {
		pos += 52 + rng.Intn(256)
		if pos+71 > size {
			break
		}
		key := randomKey(rng)
		copy(data[pos-52:], key)
		copy(data[pos:], "ckey")
		w.checkKeys = append(w.checkKeys, key)
		pos += 71
	}

	return w, os.WriteFile(path, data, 0644)
}

func randomKey(rng *rand.Rand) []byte {
	key := make([]byte, 48)
	for i := range key {
		// Digits keep generated keys from forming tags.
		key[i] = byte('0' + rng.Intn(10))
	}
	return key
}

func verify(client *walletool.Client, w *wallet) error {
	res, err := client.Scan(w.path)
	if err != nil {
		return err
	}

	switch {
	case w.masterKey == nil && res.MasterKey != nil:
		return fmt.Errorf("unexpected master key at %d", res.MasterKey.TagOffset)
	case w.masterKey != nil && (res.MasterKey == nil || !bytes.Equal(res.MasterKey.Key, w.masterKey)):
		return fmt.Errorf("master key mismatch")
	}

	if len(res.CheckKeys) != len(w.checkKeys) {
		return fmt.Errorf("found %d check keys, expected %d", len(res.CheckKeys), len(w.checkKeys))
	}
	for i, rec := range res.CheckKeys {
		if !bytes.Equal(rec.Key, w.checkKeys[i]) {
			return fmt.Errorf("check key %d mismatch", i)
		}
	}

	return nil
}
