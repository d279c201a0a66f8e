// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2026 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package settings

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mvo5/goconfigparser"

	"github.com/snapcore/batterysaverd/logger"
)

// settingsSection is the ini section the file store reads from.
const settingsSection = "settings"

// FileStore reads settings from an ini file with a single [settings]
// section. A missing file behaves as if all keys were unset, so that a
// freshly installed system comes up with pure defaults.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the ini file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get implements Store.
func (s *FileStore) Get(key string) (string, error) {
	cfg := goconfigparser.New()
	if err := cfg.ReadFile(s.path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	// a missing option is not an error, the key is simply unset
	v, err := cfg.Get(settingsSection, key)
	if err != nil {
		return "", nil
	}
	return v, nil
}

// Watch implements Watcher. The directory containing the settings file
// is watched rather than the file itself so that editors and config
// management tools that replace the file via rename are still noticed.
func (s *FileStore) Watch(fn func()) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		name := filepath.Base(s.path)
		for {
			select {
			case <-done:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					logger.Debugf("settings file %s changed (%s)", s.path, ev.Op)
					fn()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Noticef("cannot watch settings file %s: %v", s.path, err)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}, nil
}
