// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tui is an interactive summary browser for -tui: a list of
// scanned segments on the left, the selected segment's transactional
// summary on the right.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/novatechflow/kafscale-segdump/pkg/dump/multi"
)

// App is the running TUI session. Build one with New and call Run.
type App struct {
	app         *tview.Application
	segmentList *tview.List
	detailsText *tview.TextView
	results     []multi.Result
}

// New builds the browser over results (ordinarily the output of
// multi.Scan), with the first result's summary shown initially.
func New(results []multi.Result) *App {
	a := &App{results: results}
	a.app = tview.NewApplication()

	a.segmentList = tview.NewList()
	a.segmentList.SetBorder(true)
	a.segmentList.SetTitle(" Segments ")
	a.segmentList.ShowSecondaryText(false)

	a.detailsText = tview.NewTextView()
	a.detailsText.SetBorder(true)
	a.detailsText.SetTitle(" Summary ")
	a.detailsText.SetDynamicColors(true)
	a.detailsText.SetScrollable(true)

	for _, r := range results {
		label := r.Path
		if r.Err != nil {
			label = "[red]" + label
		}
		a.segmentList.AddItem(label, "", 0, nil)
	}

	a.segmentList.SetChangedFunc(func(index int, _, _ string, _ rune) {
		a.showDetails(index)
	})

	a.segmentList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			a.app.SetFocus(a.detailsText)
			return nil
		case tcell.KeyEscape:
			a.app.Stop()
			return nil
		}
		return event
	})
	a.detailsText.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			a.app.SetFocus(a.segmentList)
			return nil
		case tcell.KeyEscape:
			a.app.Stop()
			return nil
		}
		return event
	})

	if len(results) > 0 {
		a.showDetails(0)
	}
	return a
}

func (a *App) showDetails(index int) {
	if index < 0 || index >= len(a.results) {
		return
	}
	r := a.results[index]
	if r.Err != nil {
		a.detailsText.SetText(fmt.Sprintf("[red]%s[white]\n\nerror: %v", r.Path, r.Err))
		return
	}
	s := r.Summary
	a.detailsText.SetText(fmt.Sprintf(`[yellow]%s[white]

[green]Records:[white]            %d
[green]Largest batch:[white]      %d bytes
[green]First batch offset:[white] %d
[green]Last batch offset:[white]  %d
[green]Committed:[white]          %d
[green]Aborted:[white]            %d
[green]Open transactions:[white]  %d
[green]Empty transactions:[white] %d
[green]Txn size (mean):[white]    %.1f
[green]Txn duration (mean ms):[white] %.1f
`,
		r.Path,
		s.RecordCount, s.MaxBatchSize,
		s.FirstBatch.BaseOffset, s.LastBatch.LastOffset,
		s.Committed, s.Aborted,
		len(s.OpenTransactions), len(s.EmptyTransactions),
		s.TxnSizeStats.Mean(), s.TxnDurationStats.Mean()))
}

// Run blocks until the user exits the browser (Escape).
func (a *App) Run() error {
	flex := tview.NewFlex().
		AddItem(a.segmentList, 0, 1, true).
		AddItem(a.detailsText, 0, 2, false)
	return a.app.SetRoot(flex, true).Run()
}
