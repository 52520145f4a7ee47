package detection

import (
	"bytes"
	"strings"
)

// IndicatorTag identifies a class of ransomware indicator found by the scanner.
type IndicatorTag string

const (
	TagRansomwareExtension IndicatorTag = "RANSOMWARE_EXTENSION"
	TagRansomNote          IndicatorTag = "RANSOM_NOTE"
	TagHighEntropy         IndicatorTag = "HIGH_ENTROPY"
)

// ScannerConfig controls the pattern scanner. Defaults match the reference
// deny-list and keyword set the alert thresholds were tuned against.
type ScannerConfig struct {
	// SuspiciousExtensions is the path-suffix deny-list, lowercase.
	SuspiciousExtensions []string

	// NoteKeywords are matched case-insensitively within NotePrefixBytes.
	NoteKeywords []string

	// NotePrefixBytes bounds how much of the buffer the keyword search reads.
	NotePrefixBytes int

	// HighEntropyThreshold is the entropy above which TagHighEntropy fires.
	HighEntropyThreshold float64
}

// DefaultScannerConfig returns the reference scanner configuration.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		SuspiciousExtensions: []string{".locked", ".encrypted", ".crypted", ".crypto", ".enc", ".ransom"},
		NoteKeywords:         []string{"bitcoin", "decrypt", "ransom", "restore"},
		NotePrefixBytes:      1024,
		HighEntropyThreshold: 7.5,
	}
}

// PatternScanner checks file paths and content for known ransomware
// indicators. Scan reads at most NotePrefixBytes of the buffer and mutates
// nothing.
type PatternScanner struct {
	cfg ScannerConfig
}

// NewPatternScanner creates a scanner with the given configuration. Zero
// fields fall back to the reference defaults.
func NewPatternScanner(cfg ScannerConfig) *PatternScanner {
	def := DefaultScannerConfig()
	if len(cfg.SuspiciousExtensions) == 0 {
		cfg.SuspiciousExtensions = def.SuspiciousExtensions
	}
	if len(cfg.NoteKeywords) == 0 {
		cfg.NoteKeywords = def.NoteKeywords
	}
	if cfg.NotePrefixBytes <= 0 {
		cfg.NotePrefixBytes = def.NotePrefixBytes
	}
	if cfg.HighEntropyThreshold <= 0 {
		cfg.HighEntropyThreshold = def.HighEntropyThreshold
	}
	return &PatternScanner{cfg: cfg}
}

// Scan returns the set of indicator tags matched by the path and buffer,
// in a fixed order. Paths and buffers with no match yield an empty slice.
func (ps *PatternScanner) Scan(path string, data []byte) []IndicatorTag {
	var tags []IndicatorTag

	if ps.hasSuspiciousExtension(path) {
		tags = append(tags, TagRansomwareExtension)
	}
	if ps.hasNoteKeyword(data) {
		tags = append(tags, TagRansomNote)
	}
	if SampledEntropy(data) > ps.cfg.HighEntropyThreshold {
		tags = append(tags, TagHighEntropy)
	}

	return tags
}

func (ps *PatternScanner) hasSuspiciousExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range ps.cfg.SuspiciousExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (ps *PatternScanner) hasNoteKeyword(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	prefix := data
	if len(prefix) > ps.cfg.NotePrefixBytes {
		prefix = prefix[:ps.cfg.NotePrefixBytes]
	}
	lower := bytes.ToLower(prefix)

	for _, keyword := range ps.cfg.NoteKeywords {
		if bytes.Contains(lower, []byte(keyword)) {
			return true
		}
	}
	return false
}
