package scheduler

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/tanq16/bilidl/internal/utils"
)

// pathClaims hands out output paths so no two jobs in a run share a file or its .part file.
type pathClaims struct {
	mu       sync.Mutex
	claimed  map[string]bool
	tempDirs map[string]bool
}

func newPathClaims() *pathClaims {
	return &pathClaims{claimed: make(map[string]bool), tempDirs: make(map[string]bool)}
}

// claim returns path, or the first numbered alternative that is neither on disk nor claimed.
func (p *pathClaims) claim(path string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	candidate := path
	for index := 1; p.taken(candidate); index++ {
		candidate = utils.NumberedPath(path, index)
	}
	p.claimed[candidate] = true
	p.tempDirs[filepath.Dir(utils.TempPath(candidate))] = true
	return candidate
}

func (p *pathClaims) taken(path string) bool {
	if p.claimed[path] {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

// removeEmptyTempDirs runs once all workers are done. Directories still holding partial
// downloads are left for the clean command.
func (p *pathClaims) removeEmptyTempDirs() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for dir := range p.tempDirs {
		os.Remove(dir)
	}
}
