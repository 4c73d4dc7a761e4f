package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Iterate reads a report file and calls fn for every data record, header
// excluded. Iteration stops on the first error from fn.
func Iterate(name string, fn func(record []string) error) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open report %q: %w", name, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue
		} else if line == "" {
			continue
		}
		if err := fn(strings.Split(line, Sep)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read report %q: %w", name, err)
	}
	return nil
}
