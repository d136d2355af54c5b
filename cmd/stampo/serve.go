// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/stampo-dev/stampo"
	"github.com/stampo-dev/stampo/compiler"
	"github.com/stampo-dev/stampo/env"
)

// serve executes command:
//
//	stampo serve
func serve() error {

	var envFiles repeatedFlag
	var envTexts repeatedFlag
	flag.Var(&envFiles, "e", "add the symbols of the environment `file`")
	flag.Var(&envTexts, "t", "add the symbols of the environment source `text`")

	flag.Parse()

	base := env.New()
	for _, name := range envFiles {
		var err error
		if filepath.Ext(name) == ".yaml" || filepath.Ext(name) == ".yml" {
			var src []byte
			src, err = os.ReadFile(name)
			if err == nil {
				err = base.AddFromYAML(src)
			}
		} else {
			err = base.AddFromFile(name)
		}
		if err != nil {
			return err
		}
	}
	for i, text := range envTexts {
		err := base.AddFromString(fmt.Sprintf("argument %d", i+1), text)
		if err != nil {
			return err
		}
	}

	cache, err := newTreeCache(".")
	if err != nil {
		return err
	}
	defer cache.Close()

	srv := &server{
		cache:  cache,
		static: http.FileServer(http.Dir(".")),
		base:   base,
	}

	s := &http.Server{
		Addr:           ":8080",
		Handler:        srv,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	fmt.Fprintln(os.Stderr, "Web server is available at http://localhost:8080/")
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	return s.ListenAndServe()
}

type server struct {
	cache  *treeCache
	static http.Handler
	base   *env.Env
}

func (srv *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	name := r.URL.Path[1:]
	if name == "" || strings.HasSuffix(name, "/") {
		name += "index.html"
	}

	ext := path.Ext(name)
	if ext != ".html" && ext != ".md" && ext != ".txt" {
		srv.static.ServeHTTP(w, r)
		return
	}

	tree, err := srv.cache.tree(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		var serr *compiler.SyntaxError
		if errors.As(err, &serr) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(500)
			fmt.Fprintf(w, "%s", err)
			return
		}
		http.Error(w, "Internal Server Error", 500)
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return
	}

	// Renderings share the tree but not the environment.
	e := env.New()
	e.Merge(srv.base, false)

	var b bytes.Buffer
	err = stampo.Render(&b, tree, e)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(500)
		fmt.Fprintf(w, "%s", err)
		return
	}

	if ext == ".md" {
		var html bytes.Buffer
		err = goldmark.Convert(b.Bytes(), &html)
		if err != nil {
			http.Error(w, "Internal Server Error", 500)
			fmt.Fprintf(os.Stderr, "%s\n", err)
			return
		}
		b = html
	}

	switch ext {
	case ".txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err = b.WriteTo(w)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
	}
}
