package core

const (
	DestinationFileName = "wallet.dat" // Name of the copy written to the Desktop directory
	DefaultDirPerm      = 0755
)
