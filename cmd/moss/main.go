package main

import (
	"fmt"
	"os"

	"github.com/mosscss/moss/internal/logger"
	"github.com/mosscss/moss/pkg/api"
)

const helpText = `
Usage:
  moss extend <selector> <source> <targets>   Add "source" wherever "targets" matches
  moss replace <selector> <source> <targets>  Replace matches of "targets" with "source"

Options:
  --minify      Remove whitespace from the output
  --help        Print this message

Examples:
  # => ".a, .b"
  moss extend ".a" ".b" ".a"

  # => ".b"
  moss replace ".a" ".b" ".a"
`

func main() {
	osArgs := os.Args[1:]
	minify := false

	args := make([]string, 0, len(osArgs))
	for _, arg := range osArgs {
		switch arg {
		case "-h", "-help", "--help", "/?":
			fmt.Fprintf(os.Stderr, "%s\n", helpText)
			os.Exit(0)
		case "--minify":
			minify = true
		default:
			args = append(args, arg)
		}
	}

	if len(args) != 4 {
		fmt.Fprintf(os.Stderr, "%s\n", helpText)
		os.Exit(1)
	}

	options := api.Options{MinifyWhitespace: minify}
	var result string
	var err error

	switch args[0] {
	case "extend":
		result, err = api.ExtendSelector(args[1], args[2], args[3], options)
	case "replace":
		result, err = api.ReplaceSelector(args[1], args[2], args[3], options)
	default:
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf("Invalid command: %q", args[0]))
		os.Exit(1)
	}

	if err != nil {
		logger.PrintErrorToStderr(osArgs, err.Error())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "%s\n", result)
}
