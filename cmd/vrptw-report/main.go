// vrptw-report scans a directory of vrptw-solve JSON outputs and prints
// a CSV summary.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type solution struct {
	TerminalState string  `json:"terminal_state"`
	Objective     float64 `json:"objective"`
	Iterations    int     `json:"iterations"`
	Routes        [][]int `json:"routes,omitempty"`
	Comment       string  `json:"comment,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: vrptw-report <directory-of-solution-json-files>")
		os.Exit(1)
	}
	dirName := os.Args[1]
	entries, err := os.ReadDir(dirName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't open directory %s: %s\n", dirName, err)
		os.Exit(1)
	}

	fmt.Println("File,TerminalState,Objective,Iterations,Routes,Comment")
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dirName, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "couldn't read %s: %s\n", e.Name(), err)
			continue
		}
		var sol solution
		if err := json.Unmarshal(data, &sol); err != nil {
			fmt.Fprintf(os.Stderr, "couldn't parse %s: %s\n", e.Name(), err)
			continue
		}
		fmt.Printf("%s,%s,%.4f,%d,%d,%s\n", e.Name(), sol.TerminalState, sol.Objective, sol.Iterations, len(sol.Routes), sol.Comment)
	}
}
