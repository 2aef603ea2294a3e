// Package walletool provides a client for dumping the encrypted keys of a
// wallet.dat file and writing password removal copies of it.
//
// Example:
//
//	client, err := walletool.New(walletool.WithDesktopDir("/tmp/out"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = client.DumpAllKeys("wallet.dat")
//	dest, err := client.RemovePassword("wallet.dat", "BerkelyDB", "0123456789")
package walletool
