// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/stampo-dev/stampo"
	"github.com/stampo-dev/stampo/env"
)

// repeatedFlag collects the values of a flag that can be repeated.
type repeatedFlag []string

func (f *repeatedFlag) String() string {
	return fmt.Sprint(*f)
}

func (f *repeatedFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

// render executes command:
//
//	stampo render
func render() {

	var envFiles repeatedFlag
	var envTexts repeatedFlag
	output := flag.String("o", "", "write to `file` instead of stdout")
	flag.Var(&envFiles, "e", "add the symbols of the environment `file`")
	flag.Var(&envTexts, "t", "add the symbols of the environment source `text`")
	charset := flag.String("charset", "", "read and write with the charset `name`")
	markdown := flag.Bool("markdown", false, "convert the output from Markdown to HTML")
	verbose := flag.Bool("v", false, "print the name of each rendered file")

	flag.Parse()

	if len(flag.Args()) == 0 {
		flag.Usage()
		exit(0)
		return
	}

	var enc encoding.Encoding
	if *charset != "" {
		var err error
		enc, err = htmlindex.Get(*charset)
		if err != nil {
			exitError("unknown charset %q", *charset)
			return
		}
	}

	e := env.New()
	for _, name := range envFiles {
		var err error
		switch {
		case name == "-":
			err = e.AddFromStdin()
		case filepath.Ext(name) == ".yaml" || filepath.Ext(name) == ".yml":
			var src []byte
			src, err = os.ReadFile(name)
			if err == nil {
				err = e.AddFromYAML(src)
			}
		default:
			err = e.AddFromFile(name)
		}
		if err != nil {
			exitError("%s", err)
			return
		}
	}
	for i, text := range envTexts {
		err := e.AddFromString(fmt.Sprintf("argument %d", i+1), text)
		if err != nil {
			exitError("%s", err)
			return
		}
	}

	var out io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			exitError("%s", err)
			return
		}
		defer f.Close()
		out = f
	}
	if enc != nil {
		w := transform.NewWriter(out, enc.NewEncoder())
		defer w.Close()
		out = w
	}

	failed := false
	for _, name := range flag.Args() {
		err := renderFile(out, name, e, enc, *markdown)
		if err != nil {
			stderr(err.Error())
			failed = true
			continue
		}
		if *verbose {
			stderr(name)
		}
	}
	if failed {
		exit(1)
	}
}

// renderFile renders the template file name to out with the symbols of the
// environment e. The source is decoded with enc if not nil and the output
// is converted from Markdown to HTML if markdown is true.
func renderFile(out io.Writer, name string, e *env.Env, enc encoding.Encoding, markdown bool) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	if enc != nil {
		src, err = enc.NewDecoder().Bytes(src)
		if err != nil {
			return fmt.Errorf("%s: %s", name, err)
		}
	}
	tree, err := stampo.Parse(name, src)
	if err != nil {
		return err
	}
	// Each file is rendered with its own copy of the environment.
	re := env.New()
	re.Merge(e, false)
	if !markdown {
		return stampo.Render(out, tree, re)
	}
	var b bytes.Buffer
	err = stampo.Render(&b, tree, re)
	if err != nil {
		return err
	}
	return goldmark.Convert(b.Bytes(), out)
}
