// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

var frames = []string{"|", "/", "-", "\\"}

// StartSpinner shows text behind a rotating frame until the returned function
// is called. Without a terminal on stdout it draws nothing.
func StartSpinner(text string) (stop func()) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}

	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		area.Update(fmt.Sprintf("%s %s", frames[0], text))
		for {
			select {
			case <-t.C:
				i++
				area.Update(fmt.Sprintf("%s %s", frames[i%len(frames)], text))
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}

// WhileLoading runs fn with the spinner shown.
func WhileLoading[T any](text string, fn func() T) T {
	stop := StartSpinner(text)
	defer stop()
	return fn()
}
