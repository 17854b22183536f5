package main

import (
	"flag"
	"fmt"
	"os"

	"grimm.is/serac/cmd"
)

const defaultConfigFile = "/etc/serac/serac.hcl"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
		configFile := serveFlags.String("config", defaultConfigFile, "Configuration file")
		serveFlags.StringVar(configFile, "c", defaultConfigFile, "Configuration file (short)")
		serveFlags.Parse(os.Args[2:])

		if err := cmd.RunServe(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Serve failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("verbose", false, "Verbose output")
		checkFlags.BoolVar(verbose, "v", false, "Verbose output (short)")
		checkFlags.Parse(os.Args[2:])

		configFile := defaultConfigFile
		if len(checkFlags.Args()) > 0 {
			configFile = checkFlags.Arg(0)
		}

		if err := cmd.RunCheck(configFile, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	case "version":
		cmd.RunVersion()

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: serac <command> [options]

Commands:
  serve    Run the uplink configuration daemon
  check    Validate a configuration file
  version  Print build information

Options:
  serve -c <file>     Configuration file (default %s)
  check -v <file>     Verbose configuration summary
`, defaultConfigFile)
}
