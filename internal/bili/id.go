package bili

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// VideoID is either a numeric av id or a BV code. The zero value is invalid.
type VideoID struct {
	aid  uint64
	bvid string
}

func AID(aid uint64) VideoID {
	return VideoID{aid: aid}
}

func BVID(bvid string) VideoID {
	return VideoID{bvid: bvid}
}

func (v VideoID) IsAID() bool {
	return v.bvid == ""
}

func (v VideoID) AID() uint64 {
	return v.aid
}

func (v VideoID) BVID() string {
	return v.bvid
}

func (v VideoID) String() string {
	if v.IsAID() {
		return strconv.FormatUint(v.aid, 10)
	}
	return v.bvid
}

// query adds the id under aidKey or "bvid". The play URL endpoint names the numeric id "avid".
func (v VideoID) query(q url.Values, aidKey string) {
	if v.IsAID() {
		q.Set(aidKey, strconv.FormatUint(v.aid, 10))
	} else {
		q.Set("bvid", v.bvid)
	}
}

var (
	bvidRegex = regexp.MustCompile(`(?i)\bBV([0-9A-Za-z]{10})\b`)
	avidRegex = regexp.MustCompile(`(?i)^(?:.*/)?av(\d+)(?:[/?#].*)?$`)
)

// ParseVideoID accepts a bare number, "av123", a BV code, or a video page URL holding either.
func ParseVideoID(s string) (VideoID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VideoID{}, fmt.Errorf("empty video id")
	}
	if aid, err := strconv.ParseUint(s, 10, 64); err == nil {
		if aid == 0 {
			return VideoID{}, fmt.Errorf("invalid video id %q", s)
		}
		return AID(aid), nil
	}
	if m := bvidRegex.FindStringSubmatch(s); m != nil {
		return BVID("BV" + m[1]), nil
	}
	if m := avidRegex.FindStringSubmatch(s); m != nil {
		aid, err := strconv.ParseUint(m[1], 10, 64)
		if err == nil && aid != 0 {
			return AID(aid), nil
		}
	}
	return VideoID{}, fmt.Errorf("invalid video id %q", s)
}
