package detection

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/0xAdem/ransomguard/internal/models"
)

func testClassifier() *Classifier {
	return NewClassifier(ClassifierConfig{}, "test-host")
}

func TestClassifier_BenignEventYieldsNoAlert(t *testing.T) {
	c := testClassifier()

	ev := models.FileEvent{
		Path:   "doc.txt",
		Action: models.ActionModified,
		FME:    Entropy([]byte("hello world")),
	}

	if alert := c.Classify(ev, nil, 1, 2.0); alert != nil {
		t.Errorf("expected nil alert for benign event, got %+v", alert)
	}
}

func TestClassifier_EncryptedLockedFileIsCritical(t *testing.T) {
	c := testClassifier()
	scanner := NewPatternScanner(ScannerConfig{})

	rng := rand.New(rand.NewSource(42))
	buf := make([]byte, 1024)
	rng.Read(buf)

	path := "/home/user/thesis.docx.locked"
	ev := models.FileEvent{Path: path, Action: models.ActionModified, FME: Entropy(buf)}
	tags := scanner.Scan(path, buf)

	alert := c.Classify(ev, tags, 1, 2.0)
	if alert == nil {
		t.Fatal("expected alert for encrypted .locked file")
	}

	if alert.Severity != models.SeverityCritical {
		t.Errorf("Severity = %s, expected critical", alert.Severity)
	}
	if alert.Type != models.AlertRansomware {
		t.Errorf("Type = %s, expected Ransomware", alert.Type)
	}
	if alert.RiskScore < 95 || alert.RiskScore > 100 {
		t.Errorf("RiskScore = %d, expected in [95, 100]", alert.RiskScore)
	}
	if alert.Host != "test-host" {
		t.Errorf("Host = %s, expected test-host", alert.Host)
	}
	if len(alert.Reasons) == 0 {
		t.Error("expected populated reasons list")
	}
}

func TestClassifier_BurstAloneFires(t *testing.T) {
	c := testClassifier()

	// 10 modifications inside the window against a threshold of 2.0:
	// the rapid-modification condition fires on its own.
	ev := models.FileEvent{Path: "/home/user/notes.txt", Action: models.ActionModified, FME: 4.8}
	alert := c.Classify(ev, nil, 10, 2.0)

	if alert == nil {
		t.Fatal("expected alert from burst condition alone")
	}
	if alert.RiskScore != 35 {
		t.Errorf("RiskScore = %d, expected 35", alert.RiskScore)
	}
	if alert.Severity != models.SeverityLow {
		t.Errorf("Severity = %s, expected low", alert.Severity)
	}
	if alert.Type != models.AlertSuspicious {
		t.Errorf("Type = %s, expected Suspicious", alert.Type)
	}
}

func TestClassifier_SeverityGrading(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name     string
		ev       models.FileEvent
		tags     []IndicatorTag
		count    int
		abt      float64
		score    int
		severity models.Severity
		alertTyp models.AlertType
	}{
		{
			name:     "entropy only is low",
			ev:       models.FileEvent{Path: "a.bin", FME: 7.9},
			count:    1,
			abt:      2.0,
			score:    30,
			severity: models.SeverityLow,
			alertTyp: models.AlertSuspicious,
		},
		{
			name:     "one tag only is low",
			ev:       models.FileEvent{Path: "a.ransom", FME: 3.0},
			tags:     []IndicatorTag{TagRansomwareExtension},
			count:    1,
			abt:      2.0,
			score:    25,
			severity: models.SeverityLow,
			alertTyp: models.AlertSuspicious,
		},
		{
			name:     "entropy plus burst is high",
			ev:       models.FileEvent{Path: "a.bin", FME: 7.9},
			count:    10,
			abt:      2.0,
			score:    65,
			severity: models.SeverityHigh,
			alertTyp: models.AlertRaaS,
		},
		{
			name:     "two tags is medium",
			ev:       models.FileEvent{Path: "a.ransom", FME: 3.0},
			tags:     []IndicatorTag{TagRansomwareExtension, TagRansomNote},
			count:    1,
			abt:      2.0,
			score:    50,
			severity: models.SeverityMedium,
			alertTyp: models.AlertSuspicious,
		},
		{
			name:     "everything fires and clamps at 100",
			ev:       models.FileEvent{Path: "a.locked", FME: 7.9},
			tags:     []IndicatorTag{TagRansomwareExtension, TagHighEntropy},
			count:    50,
			abt:      2.0,
			score:    100,
			severity: models.SeverityCritical,
			alertTyp: models.AlertRansomware,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := c.Classify(tt.ev, tt.tags, tt.count, tt.abt)
			if alert == nil {
				t.Fatal("expected alert")
			}
			if alert.RiskScore != tt.score {
				t.Errorf("RiskScore = %d, expected %d", alert.RiskScore, tt.score)
			}
			if alert.Severity != tt.severity {
				t.Errorf("Severity = %s, expected %s", alert.Severity, tt.severity)
			}
			if alert.Type != tt.alertTyp {
				t.Errorf("Type = %s, expected %s", alert.Type, tt.alertTyp)
			}
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := testClassifier()

	ev := models.FileEvent{Path: "/data/db.encrypted", Action: models.ActionModified, FME: 7.8}
	tags := []IndicatorTag{TagRansomwareExtension, TagHighEntropy}

	first := c.Classify(ev, tags, 12, 3.5)
	second := c.Classify(ev, tags, 12, 3.5)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different alerts:\n%+v\n%+v", first, second)
	}
}

func TestClassifier_ScoreMonotonicInEachCondition(t *testing.T) {
	c := testClassifier()

	score := func(ev models.FileEvent, tags []IndicatorTag, count int, abt float64) int {
		alert := c.Classify(ev, tags, count, abt)
		if alert == nil {
			return 0
		}
		return alert.RiskScore
	}

	base := models.FileEvent{Path: "a.bin", FME: 3.0}

	// Entropy condition.
	hot := base
	hot.FME = 7.9
	if score(hot, []IndicatorTag{TagRansomNote}, 1, 2.0) < score(base, []IndicatorTag{TagRansomNote}, 1, 2.0) {
		t.Error("score decreased when entropy condition fired")
	}

	// Tag count.
	one := []IndicatorTag{TagRansomNote}
	two := []IndicatorTag{TagRansomNote, TagHighEntropy}
	if score(base, two, 1, 2.0) < score(base, one, 1, 2.0) {
		t.Error("score decreased with an additional tag")
	}

	// Burst condition.
	if score(base, one, 10, 2.0) < score(base, one, 1, 2.0) {
		t.Error("score decreased when burst condition fired")
	}

	// Extension condition.
	locked := base
	locked.Path = "a.locked"
	if score(locked, one, 1, 2.0) < score(base, one, 1, 2.0) {
		t.Error("score decreased when extension condition fired")
	}
}

func TestClassifier_ReasonsPreserveEvaluationOrder(t *testing.T) {
	c := testClassifier()

	ev := models.FileEvent{Path: "/data/x.locked", FME: 7.9}
	alert := c.Classify(ev, []IndicatorTag{TagRansomwareExtension}, 10, 2.0)
	if alert == nil {
		t.Fatal("expected alert")
	}

	want := []string{
		"High file entropy (possible encryption)",
		"Suspicious patterns: RANSOMWARE_EXTENSION",
		"Rapid file modifications (10 > 2.00)",
		"Suspicious file extension",
	}
	if !reflect.DeepEqual([]string(alert.Reasons), want) {
		t.Errorf("Reasons = %v, expected %v", alert.Reasons, want)
	}
}
