package structurewalk

import (
	"bufio"
	"os"
)

// countLines counts the lines in path, a final line without a trailing
// newline included. It returns 0 if the file cannot be opened, and the
// lines counted so far if a read error (such as a line over 1 MiB) stops
// the scan, rather than aborting the walk.
func countLines(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	count := 0
	for scanner.Scan() {
		count++
	}
	return count
}
