package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func NewJobID() string {
	return uuid.New().String()
}

func RenewOutputPath(outputPath string) string {
	for index := 1; ; index++ {
		candidate := NumberedPath(outputPath, index)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// NumberedPath returns the index-th alternative for outputPath, e.g. "clip-(2).mp4".
func NumberedPath(outputPath string, index int) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	return filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", base[:len(base)-len(ext)], index, ext))
}

// SanitizeFileName trims the title and drops path separators so it can't escape the output dir.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "video"
	}
	return name
}

func VideoFileName(title, id string) string {
	return fmt.Sprintf("%s-%s%s", SanitizeFileName(title), id, VideoExt)
}

// ParseSize accepts plain byte counts or a K/M/G suffix (binary units), e.g. "4M".
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.TrimSuffix(s, "IB")
	s = strings.TrimSuffix(s, "B")
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	multiplier := int64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1024
	case 'M':
		multiplier = 1024 * 1024
	case 'G':
		multiplier = 1024 * 1024 * 1024
	}
	if multiplier > 1 {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %v", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("size must not be negative")
	}
	return n * multiplier, nil
}

func TempPath(outputPath string) string {
	tempDir := filepath.Join(filepath.Dir(outputPath), TempDirName)
	return filepath.Join(tempDir, filepath.Base(outputPath)+".part")
}

// Clean removes the temp directory under dir along with any partial downloads in it.
func Clean(dir string) error {
	tempDir := filepath.Join(dir, TempDirName)
	_, err := os.Stat(tempDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.RemoveAll(tempDir)
}
