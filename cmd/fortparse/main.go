/*
Fortparse parses Fortran 2003/2008 source and prints its concrete syntax
tree, either for a single file given on the command line or, with no file
argument, as an interactive REPL for trying snippets.

Usage:

	fortparse [flags] [FILE]

The flags are:

	-v, --version
		Give the current version of gofortran and then exit.

	-8, --f2008
		Parse using the F2008 rule delta (submodules, the narrowed
		do-term-action-stmt) instead of plain F2003.

	-x, --fixed-form
		Read FILE (or REPL input) as fixed-form Fortran instead of the
		free-form default.

	-c, --comments
		Preserve comments as sibling nodes instead of discarding them.

	--config FILE
		Load extension toggles from the named TOML config file.

Once a session has started in REPL mode, each line is tokenized the way a
shell would (quoting honored) and treated as one parse attempt; type "quit"
to exit.
*/
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"

	"github.com/dekarrin/gofortran/config"
	"github.com/dekarrin/gofortran/ferrors"
	"github.com/dekarrin/gofortran/fortran"
	"github.com/dekarrin/gofortran/internal/version"
)

const (
	ExitSuccess = iota
	ExitParseError
	ExitInitError
)

var (
	returnCode int = ExitSuccess

	flagVersion  = pflag.BoolP("version", "v", false, "Gives the version info")
	flagF2008    = pflag.BoolP("f2008", "8", false, "Parse using the F2008 rule delta instead of F2003")
	flagFixed    = pflag.BoolP("fixed-form", "x", false, "Read input as fixed-form Fortran")
	flagComments = pflag.BoolP("comments", "c", false, "Preserve comments as CST sibling nodes")
	flagConfig   = pflag.String("config", "", "Load extension toggles from the named TOML config file")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg := fortran.Config{
		FixedForm:        *flagFixed,
		PreserveComments: *flagComments,
	}
	if *flagF2008 {
		cfg.Dialect = fortran.F2008
	}
	if *flagConfig != "" {
		f, err := config.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		cfg.Extensions = fortran.ExtensionSet{
			XFormat:       f.Extensions.XFormat,
			DollarEdit:    f.Extensions.DollarEdit,
			ByteType:      f.Extensions.ByteType,
			DoubleComplex: f.Extensions.DoubleComplex,
		}
	}

	args := pflag.Args()
	if len(args) > 0 {
		runFile(args[0], cfg)
		return
	}
	runREPL(cfg)
}

func runFile(path string, cfg fortran.Config) {
	start := time.Now()
	tree, err := fortran.ParseFile(path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s", err.Error())
		returnCode = ExitParseError
		return
	}
	elapsed := time.Since(start)

	out := tree.String()
	fmt.Println(out)
	fmt.Fprintf(os.Stderr, "parsed %s in %s\n",
		humanize.Bytes(uint64(len(out))), elapsed.Round(time.Microsecond))
}

func runREPL(cfg fortran.Config) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "fortparse> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline config: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		words, qerr := shellquote.Split(line)
		if qerr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", qerr.Error())
			continue
		}
		if len(words) == 0 {
			continue
		}
		if strings.EqualFold(words[0], "quit") || strings.EqualFold(words[0], "exit") {
			return
		}

		src := strings.Join(words, "\n")
		tree, perr := fortran.Parse(src, cfg)
		if perr != nil {
			if se, ok := perr.(*ferrors.SyntaxError); ok {
				fmt.Println(se.Error())
			} else {
				fmt.Println(perr.Error())
			}
			continue
		}
		fmt.Println(tree.String())
	}
}
