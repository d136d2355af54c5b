// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/stampo-dev/stampo"
	"github.com/stampo-dev/stampo/ast"
)

// treeCache parses the template files in a directory and caches the trees.
// A cached tree is dropped when fsnotify reports a write on its file, so
// the next request parses the file again.
type treeCache struct {
	dir     string
	watcher *fsnotify.Watcher

	sync.Mutex
	trees map[string]*ast.Tree
}

func newTreeCache(dir string) (*treeCache, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	c := &treeCache{dir: dir, watcher: watcher, trees: map[string]*ast.Tree{}}
	go c.invalidate()
	return c, nil
}

func (c *treeCache) Close() error {
	return c.watcher.Close()
}

// tree returns the tree of the template file name, relative to the cache
// directory. On a cache miss it parses the file, watching it from before
// the read so that no write is lost.
func (c *treeCache) tree(name string) (*ast.Tree, error) {
	c.Lock()
	tree, ok := c.trees[name]
	c.Unlock()
	if ok {
		return tree, nil
	}
	file := filepath.Join(c.dir, name)
	err := c.watcher.Add(file)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	tree, err = stampo.Parse(name, src)
	if err != nil {
		return nil, err
	}
	c.Lock()
	c.trees[name] = tree
	c.Unlock()
	return tree, nil
}

// invalidate drops from the cache the trees of the written files. Watcher
// errors are reported on the standard error.
func (c *treeCache) invalidate() {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				name := strings.ReplaceAll(event.Name, "\\", "/")
				name = strings.TrimPrefix(name, c.dir+"/")
				c.Lock()
				delete(c.trees, name)
				c.Unlock()
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
}
