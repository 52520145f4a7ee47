package detection

import (
	"fmt"
	"strings"

	"github.com/0xAdem/ransomguard/internal/models"
)

// ClassifierConfig holds the scoring weights and cutoffs. The reference
// values are hand-tuned; they are kept configurable rather than derived.
type ClassifierConfig struct {
	HighEntropyThreshold float64 // entropy above which the entropy condition fires
	EntropyWeight        int     // score for the entropy condition
	IndicatorWeight      int     // score per indicator tag
	BurstWeight          int     // score for the rapid-modification condition
	ExtensionWeight      int     // score for the critical-extension condition

	// CriticalExtensions are path suffixes that add ExtensionWeight on
	// their own, independent of the scanner's deny-list.
	CriticalExtensions []string

	CriticalScore int // riskScore at or above which severity is critical
	HighScore     int // ... high
	MediumScore   int // ... medium
	LowScore      int // ... low; below this no alert is emitted
}

// DefaultClassifierConfig returns the reference weights and cutoffs.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		HighEntropyThreshold: 7.5,
		EntropyWeight:        30,
		IndicatorWeight:      25,
		BurstWeight:          35,
		ExtensionWeight:      40,
		CriticalExtensions:   []string{".locked", ".encrypted"},
		CriticalScore:        80,
		HighScore:            60,
		MediumScore:          40,
		LowScore:             20,
	}
}

// Classifier fuses entropy, indicator tags and burst statistics into a
// severity-graded alert.
type Classifier struct {
	cfg  ClassifierConfig
	host string
}

// NewClassifier creates a classifier reporting alerts against the given
// host name. Zero config fields fall back to the reference defaults.
func NewClassifier(cfg ClassifierConfig, host string) *Classifier {
	def := DefaultClassifierConfig()
	if cfg.HighEntropyThreshold <= 0 {
		cfg.HighEntropyThreshold = def.HighEntropyThreshold
	}
	if cfg.EntropyWeight <= 0 {
		cfg.EntropyWeight = def.EntropyWeight
	}
	if cfg.IndicatorWeight <= 0 {
		cfg.IndicatorWeight = def.IndicatorWeight
	}
	if cfg.BurstWeight <= 0 {
		cfg.BurstWeight = def.BurstWeight
	}
	if cfg.ExtensionWeight <= 0 {
		cfg.ExtensionWeight = def.ExtensionWeight
	}
	if len(cfg.CriticalExtensions) == 0 {
		cfg.CriticalExtensions = def.CriticalExtensions
	}
	if cfg.CriticalScore <= 0 {
		cfg.CriticalScore = def.CriticalScore
	}
	if cfg.HighScore <= 0 {
		cfg.HighScore = def.HighScore
	}
	if cfg.MediumScore <= 0 {
		cfg.MediumScore = def.MediumScore
	}
	if cfg.LowScore <= 0 {
		cfg.LowScore = def.LowScore
	}
	return &Classifier{cfg: cfg, host: host}
}

// Classify scores a file event against its indicators and burst state and
// returns an alert, or nil when the score stays below the low cutoff. The
// four conditions are additive and evaluated in a fixed order; the reasons
// list preserves that order. Classify is deterministic for identical
// inputs: the returned alert carries no ID or timestamp, those are stamped
// when the record is appended to the log.
func (c *Classifier) Classify(ev models.FileEvent, tags []IndicatorTag, recentCount int, threshold float64) *models.Alert {
	score := 0
	var reasons []string

	if ev.FME > c.cfg.HighEntropyThreshold {
		score += c.cfg.EntropyWeight
		reasons = append(reasons, "High file entropy (possible encryption)")
	}

	if len(tags) > 0 {
		score += c.cfg.IndicatorWeight * len(tags)
		reasons = append(reasons, "Suspicious patterns: "+joinTags(tags))
	}

	if float64(recentCount) > threshold {
		score += c.cfg.BurstWeight
		reasons = append(reasons, fmt.Sprintf("Rapid file modifications (%d > %.2f)", recentCount, threshold))
	}

	if c.hasCriticalExtension(ev.Path) {
		score += c.cfg.ExtensionWeight
		reasons = append(reasons, "Suspicious file extension")
	}

	if score > 100 {
		score = 100
	}

	severity, alertType := c.grade(score)
	if severity == models.SeverityInfo {
		return nil
	}

	return &models.Alert{
		Host:      c.host,
		Path:      ev.Path,
		Severity:  severity,
		FME:       ev.FME,
		ABT:       threshold,
		RiskScore: score,
		Type:      alertType,
		Reasons:   reasons,
	}
}

// grade maps a risk score to severity and classification, first match wins.
func (c *Classifier) grade(score int) (models.Severity, models.AlertType) {
	switch {
	case score >= c.cfg.CriticalScore:
		return models.SeverityCritical, models.AlertRansomware
	case score >= c.cfg.HighScore:
		return models.SeverityHigh, models.AlertRaaS
	case score >= c.cfg.MediumScore:
		return models.SeverityMedium, models.AlertSuspicious
	case score >= c.cfg.LowScore:
		return models.SeverityLow, models.AlertSuspicious
	default:
		return models.SeverityInfo, models.AlertBenign
	}
}

func (c *Classifier) hasCriticalExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range c.cfg.CriticalExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func joinTags(tags []IndicatorTag) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, ", ")
}
