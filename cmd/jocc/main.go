// Command jocc is a thin example driver over the front-end core: it
// reads each file named on the command line, runs it through a
// translation group's preprocessor shell, and prints any diagnostics
// produced. It exists so the core packages have a runnable entry
// point; the real preprocessing (#include, macro expansion,
// conditional compilation) is not implemented here.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xyproto/env/v2"
	"github.com/xyproto/jocc/internal/diag"
	"github.com/xyproto/jocc/internal/synk"
	"github.com/xyproto/jocc/internal/tgroup"
)

func main() {
	verbose := flag.Bool("verbose", env.Bool("JOCC_VERBOSE"), "log progress for each file")
	dumpArena := flag.Bool("dump-arena", false, "dump the raw AST arena words for each file to stderr")
	flag.Parse()

	tabWidth := env.Int("JOCC_TAB_WIDTH", 8)
	if *verbose {
		log.Printf("tab width: %d", tabWidth)
	}

	files := flag.Args()
	if len(files) == 0 {
		log.Fatalln("usage: jocc [-verbose] [-dump-arena] file...")
	}

	exitCode := 0
	for _, path := range files {
		if *verbose {
			log.Printf("processing %s", path)
		}
		if !processFile(path, *dumpArena) {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// processFile preprocesses one file and reports its diagnostics. It
// returns false if the file produced any SeverityError diagnostic.
func processFile(path string, dumpArena bool) bool {
	text, err := readFile(path)
	if err != nil {
		log.Printf("%s: %v", path, err)
		return false
	}

	g := tgroup.New()
	name := g.Strings.Intern([]byte(path))
	phys := g.SrcMan.AddPhysFile(name, text)

	result := g.Preprocess(phys)
	if result.IllegalBytes {
		log.Printf("%s: stopped at illegal input bytes", path)
	}

	ok := true
	for _, d := range g.Diags.All() {
		printDiagnostic(path, d)
		if d.Severity == diag.SeverityError {
			ok = false
		}
	}

	if dumpArena {
		dumpArenaWords(path, &g.Arena)
	}

	return ok
}

// readFile reads path and appends the NUL sentinel the core requires
// past the last content byte, matching original_source/jocc/jocc.c's
// read_file.
func readFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return append(content, 0), nil
}

func printDiagnostic(path string, d diag.Diagnostic) {
	sev := "error"
	if d.Severity != diag.SeverityError {
		sev = "warning"
	}
	fmt.Fprintf(os.Stderr, "%s: %s: diagnostic %d\n%s\n%*s^\n", path, sev, d.Code, d.LineText, int(d.LineTextOffset), "")
}

// dumpArenaWords writes every AST arena word as little-endian hex, one
// per line, for ad hoc inspection.
func dumpArenaWords(path string, arena *synk.Arena) {
	fmt.Fprintf(os.Stderr, "%s: arena length %d words\n", path, arena.Len())
	var buf [4]byte
	for i := uint32(0); i < arena.Len(); i++ {
		binary.LittleEndian.PutUint32(buf[:], arena.Get(synk.AstID(i), 0))
		fmt.Fprintf(os.Stderr, "  %08x: % x\n", i, buf)
	}
}
