package bili

import (
	"fmt"
	"strconv"
	"strings"
)

type Quality int

const (
	QualityDefault Quality = iota
	QualityLow
	QualityHigh
)

// qn codes understood by the play URL endpoint. High needs a logged-in session to be honoured.
var qualityCodes = map[Quality]int{
	QualityDefault: 16,
	QualityLow:     16,
	QualityHigh:    112,
}

func (q Quality) Code() int {
	if code, ok := qualityCodes[q]; ok {
		return code
	}
	return qualityCodes[QualityDefault]
}

func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityHigh:
		return "high"
	default:
		return "default"
	}
}

func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return QualityDefault, nil
	case "low":
		return QualityLow, nil
	case "high":
		return QualityHigh, nil
	}
	return QualityDefault, fmt.Errorf("unsupported quality: %s", s)
}

func (q Quality) query() map[string]string {
	return map[string]string{
		"fnval": "1",
		"qn":    strconv.Itoa(q.Code()),
	}
}
