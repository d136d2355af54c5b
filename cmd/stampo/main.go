// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
)

const version = "0.3.0"

func main() {
	command(os.Args...)
}

// TestEnvironment is true when testing stampo, false otherwise.
var TestEnvironment = false

// exit causes the current program to exit with the given status code. If
// running in a test environment, every exit call is a no-op.
func exit(status int) {
	if !TestEnvironment {
		os.Exit(status)
	}
}

// stderr prints lines on stderr.
func stderr(lines ...string) {
	for _, l := range lines {
		fmt.Fprint(os.Stderr, l+"\n")
	}
}

// exitError prints msg on stderr with a bold red color and exits with status
// code 1.
func exitError(format string, a ...interface{}) {
	msg := fmt.Errorf(format, a...)
	stderr("\033[1;31m"+msg.Error()+"\033[0m", `exit status 1`)
	exit(1)
}

// command runs command 'stampo' with given args. First argument must be
// executable name.
func command(args ...string) {
	flag.Usage = commandsHelp["stampo"]

	// No command provided.
	if len(args) == 1 {
		flag.Usage()
		exit(0)
		return
	}

	cmdArg := args[1]

	// Used by flag.Parse.
	os.Args = append(args[:1], args[2:]...)

	cmd, ok := commands[cmdArg]
	if !ok {
		stderr(
			fmt.Sprintf("stampo %s: unknown command", cmdArg),
			`Run 'stampo help' for usage.`,
		)
		exit(1)
		return
	}
	cmd()
}

// commandsHelp maps a command name to a function that prints help for that
// command.
var commandsHelp = map[string]func(){
	"stampo": func() {
		stderr(
			`Stampo renders text templates with values read from environments`,
			``,
			`Usage:`,
			``,
			`	   stampo <command> [arguments]`,
			``,
			`The commands are:`,
			``,
			`	   render      render template files`,
			`	   serve       serve rendered templates over HTTP`,
			`	   version     print stampo version`,
			``,
			`Use "stampo help <command>" for more information about a command.`,
		)
		flag.PrintDefaults()
	},
	"render": func() {
		stderr(
			`usage: stampo render [-o output] [-e file] [-t text] [-charset name] [-markdown] [-v] file...`,
			``,
			`Render renders the template files to the output, in order, with the`,
			`symbols of the environment.`,
			``,
			`The flags are:`,
			``,
			`	-o output`,
			`		write the rendered templates to the file output instead of the`,
			`		standard output`,
			`	-e file`,
			`		add the symbols of the environment file, it can be repeated, a`,
			`		file named - reads the standard input, files with extension`,
			`		.yaml or .yml are read as YAML`,
			`	-t text`,
			`		add the symbols of the environment source text, it can be`,
			`		repeated`,
			`	-charset name`,
			`		read the template files and write the output with the charset`,
			`		name instead of UTF-8`,
			`	-markdown`,
			`		convert the rendered output from Markdown to HTML`,
			`	-v`,
			`		print the name of each rendered file on stderr`,
			``,
			`A file that fails to parse or render is reported on stderr and does`,
			`not stop the rendering of the remaining files, but the exit status`,
			`is 1.`,
		)
	},
	"serve": func() {
		stderr(
			`usage: stampo serve [-e file] [-t text]`,
			``,
			`Serve runs a web server on localhost:8080 rendering the template`,
			`files in the current directory. Files with extension .md are`,
			`converted from Markdown to HTML after rendering. Modified files are`,
			`rendered again at the next request.`,
		)
	},
	"version": func() {
		stderr(
			`usage: stampo version`,
		)
	},
}

// commands maps a command name to a function that executes that command.
// Commands are called by command-line using:
//
//	stampo command
var commands = map[string]func(){
	"render": func() {
		flag.Usage = commandsHelp["render"]
		render()
	},
	"serve": func() {
		flag.Usage = commandsHelp["serve"]
		err := serve()
		if err != nil {
			exitError("%s", err)
		}
	},
	"help": func() {
		if len(os.Args) == 1 {
			flag.Usage()
			exit(0)
			return
		}
		topic := os.Args[1]
		help, ok := commandsHelp[topic]
		if !ok {
			fmt.Fprintf(os.Stderr, "stampo help %s: unknown help topic. Run 'stampo help'.\n", topic)
			exit(1)
			return
		}
		help()
	},
	"version": func() {
		flag.Usage = commandsHelp["version"]
		fmt.Printf("stampo version %s (%s)\n", version, runtime.Version())
	},
}
