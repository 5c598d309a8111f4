package promotion_code

import (
	"fmt"
	"os"
)

// CodeFile is the plain-text output of a run, one code per line.
type CodeFile struct {
	file    *os.File
	written int
}

// CreateCodeFile creates path, truncating whatever a previous run left there.
func CreateCodeFile(path string) (*CodeFile, error) {

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	return &CodeFile{file: file}, nil
}

// Append writes code on its own line and syncs it to disk.
func (cf *CodeFile) Append(code string) error {

	if _, err := cf.file.WriteString(code + "\n"); err != nil {
		return fmt.Errorf("failed to write code to %s: %w", cf.file.Name(), err)
	}
	if err := cf.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", cf.file.Name(), err)
	}

	cf.written++

	return nil
}

func (cf *CodeFile) Written() int {
	return cf.written
}

func (cf *CodeFile) Path() string {
	return cf.file.Name()
}

func (cf *CodeFile) Close() error {
	return cf.file.Close()
}
