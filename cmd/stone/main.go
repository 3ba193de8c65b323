package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"github.com/stonelang/stone/internal/builtins"
	"github.com/stonelang/stone/internal/lang"
)

func main() {
	printAST := flag.Bool("print-ast", false, "print the parsed program as an s-expression and exit")
	debug := flag.Bool("debug", false, "enable call/instantiation trace logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: stone [-print-ast] [-debug] /path/to/source.stn")
		os.Exit(1)
	}

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Red(err))
		os.Exit(1)
	}

	stream := lang.NewTokenStream(lang.NewLexer(string(source)))
	prog, err := lang.Parse(stream)
	if err != nil {
		reportFailure(err)
	}

	if *printAST {
		fmt.Println(lang.PrintTree(prog))
		return
	}

	global := lang.NewEnvironment(nil)
	builtins.Install(global)

	result, err := lang.Evaluate(prog, global)
	if err != nil {
		reportFailure(err)
	}

	if result != nil {
		fmt.Println(lang.AsString(result))
	}
}

func reportFailure(err error) {
	fmt.Fprintln(os.Stderr, color.Red(err.Error()))
	os.Exit(1)
}
