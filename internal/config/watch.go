// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the watcher waits after the last change
// event before reloading. Editors and os.WriteFile rewrite a file as
// truncate-then-write, emitting a burst of events; reloading on the
// first one would read a half-written file.
const watchDebounce = 200 * time.Millisecond

// Watch observes the config file at path and invokes onChange with the
// freshly loaded config whenever it is rewritten. This is how a running
// session adopts a rotated user key without restarting. Change events
// are debounced so only the settled file is parsed; reload failures are
// logged and skipped, and the previous config stays in effect.
//
// Watch blocks until ctx is done; run it in its own goroutine.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	reload := time.NewTimer(watchDebounce)
	if !reload.Stop() {
		<-reload.C
	}
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !reload.Stop() {
				select {
				case <-reload.C:
				default:
				}
			}
			reload.Reset(watchDebounce)

		case <-reload.C:
			cfg, err := LoadFrom(path)
			if err != nil {
				log.Printf("config: reload failed: %v", err)
				continue
			}
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config: watch error: %v", err)
		}
	}
}
