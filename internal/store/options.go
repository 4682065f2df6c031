package store

import "fmt"

// ScanMode selects how account lines are collected.
type ScanMode string

const (
	// ScanPrefixRun reads accounts from the start of the file and stops at
	// the first line that is not an account. Later `C` lines are ignored.
	ScanPrefixRun ScanMode = "prefix-run"
	// ScanFullScan collects every `C` line in the file.
	ScanFullScan ScanMode = "full-scan"
)

// FlagMode selects how the effective flag of an operation is read and written.
type FlagMode string

const (
	// FlagNonEmpty treats any non-empty value as true and the empty value
	// as false. "False" therefore reads as true. Writes "True" or "".
	FlagNonEmpty FlagMode = "non-empty"
	// FlagStrict accepts only strconv.ParseBool values. Writes "true" or "false".
	FlagStrict FlagMode = "strict"
)

// Options controls how user files are parsed and written.
type Options struct {
	AccountScan ScanMode
	Effective   FlagMode
}

// DefaultOptions matches how existing files have always been read.
func DefaultOptions() Options {
	return Options{AccountScan: ScanPrefixRun, Effective: FlagNonEmpty}
}

// ParseScanMode validates a scan mode name. Empty means ScanPrefixRun.
func ParseScanMode(s string) (ScanMode, error) {
	switch ScanMode(s) {
	case "", ScanPrefixRun:
		return ScanPrefixRun, nil
	case ScanFullScan:
		return ScanFullScan, nil
	}
	return "", fmt.Errorf("unknown account scan mode %q", s)
}

// ParseFlagMode validates a flag mode name. Empty means FlagNonEmpty.
func ParseFlagMode(s string) (FlagMode, error) {
	switch FlagMode(s) {
	case "", FlagNonEmpty:
		return FlagNonEmpty, nil
	case FlagStrict:
		return FlagStrict, nil
	}
	return "", fmt.Errorf("unknown effective flag mode %q", s)
}
