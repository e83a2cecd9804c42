// Package tui is the terminal front end. It drives the same library,
// playback controller and downloader as the web server and redraws from
// the event bus.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/cesargomez89/tunedeck/internal/constants"
	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/downloader"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/library"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/playback"
)

const (
	pageMain  = "main"
	pageModal = "modal"
	barWidth  = 40
)

type App struct {
	tviewApp  *tview.Application
	library   *library.Library
	player    *playback.Controller
	downloads *downloader.Service
	bus       *events.Bus
	logger    *logger.Logger
	keys      *KeyMap

	pages  *tview.Pages
	search *tview.InputField
	tabs   *tview.TextView
	table  *tview.Table
	bar    *tview.TextView
	status *tview.TextView

	ctx  context.Context
	rows []Row
}

func NewApp(lib *library.Library, player *playback.Controller, downloads *downloader.Service, bus *events.Bus, log *logger.Logger) *App {
	if log == nil {
		log = logger.Default()
	}
	a := &App{
		tviewApp:  tview.NewApplication(),
		library:   lib,
		player:    player,
		downloads: downloads,
		bus:       bus,
		logger:    log.WithComponent("tui"),
		keys:      NewKeyMap(),
		ctx:       context.Background(),
	}
	a.layout()
	a.bindKeys()
	return a
}

func (a *App) layout() {
	a.search = tview.NewInputField().
		SetLabel(" Search: ").
		SetFieldWidth(0).
		SetFieldBackgroundColor(tcell.ColorDefault)
	a.search.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			a.runSearch(a.search.GetText())
			a.tviewApp.SetFocus(a.table)
		case tcell.KeyEscape, tcell.KeyTab:
			a.tviewApp.SetFocus(a.table)
		}
	})

	a.tabs = tview.NewTextView().SetDynamicColors(true)

	a.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.table.SetBorder(true)
	a.table.SetSelectedFunc(func(row, _ int) {
		if row > 0 && row-1 < len(a.rows) {
			a.activate(a.rows[row-1])
		}
	})

	a.bar = tview.NewTextView().SetDynamicColors(true)
	a.bar.SetBorder(true).SetTitle(" Now playing ")

	a.status = tview.NewTextView().SetDynamicColors(true).
		SetText("[darkgray]/ search  enter play  space pause  n/p next/prev  ←/→ seek  f fav  d download  1-4 tabs  F favorites  X clear  q quit")

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.search, 1, 0, false).
		AddItem(a.tabs, 1, 0, false).
		AddItem(a.table, 0, 1, true).
		AddItem(a.bar, 4, 0, false).
		AddItem(a.status, 1, 0, false)

	a.pages = tview.NewPages().AddPage(pageMain, root, true, true)
	a.tviewApp.SetRoot(a.pages, true).SetFocus(a.table)
	a.tviewApp.SetInputCapture(a.capture)
}

func (a *App) bindKeys() {
	a.keys.Bind(Action{"search", func() { a.tviewApp.SetFocus(a.search) }}, nil, []rune{'/'})
	a.keys.Bind(Action{"toggle", a.toggle}, nil, []rune{' '})
	a.keys.Bind(Action{"next", func() { a.async(a.player.Next) }}, nil, []rune{'n'})
	a.keys.Bind(Action{"prev", func() { a.async(a.player.Prev) }}, nil, []rune{'p'})
	a.keys.Bind(Action{"seekBack", func() { a.seekBy(-constants.SeekStep) }}, []tcell.Key{tcell.KeyLeft}, nil)
	a.keys.Bind(Action{"seekForward", func() { a.seekBy(constants.SeekStep) }}, []tcell.Key{tcell.KeyRight}, nil)
	a.keys.Bind(Action{"favorite", a.toggleFavorite}, nil, []rune{'f'})
	a.keys.Bind(Action{"download", a.download}, nil, []rune{'d'})
	a.keys.Bind(Action{"favorites", a.toggleFavoritesView}, nil, []rune{'F'})
	a.keys.Bind(Action{"clear", a.confirmClear}, nil, []rune{'X'})
	a.keys.Bind(Action{"quit", a.Stop}, nil, []rune{'q'})
	for i, c := range domain.Categories {
		cat := c
		a.keys.Bind(Action{"tab", func() { a.selectCategory(cat) }}, nil, []rune{rune('1' + i)})
	}
}

// capture routes global keys unless the search field or a modal owns
// the keyboard.
func (a *App) capture(event *tcell.EventKey) *tcell.EventKey {
	if a.tviewApp.GetFocus() == a.search {
		return event
	}
	if front, _ := a.pages.GetFrontPage(); front != pageMain {
		return event
	}
	if a.keys.Handle(event) {
		return nil
	}
	return event
}

// Run starts the UI and blocks until it is stopped or ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx = ctx

	a.renderResults()
	a.renderPlayer(a.player.Session())

	ch, unsubscribe := a.bus.Subscribe(constants.EventBufferSize)
	defer unsubscribe()
	go a.relay(ctx, ch)
	go func() {
		<-ctx.Done()
		a.tviewApp.Stop()
	}()

	return a.tviewApp.Run()
}

func (a *App) Stop() {
	a.tviewApp.Stop()
}

func (a *App) relay(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			a.tviewApp.QueueUpdateDraw(func() { a.apply(e) })
		}
	}
}

func (a *App) apply(e events.Event) {
	switch p := e.Payload.(type) {
	case playback.Session:
		a.renderPlayer(p)
	case events.ResultsChanged:
		a.renderResults()
	case events.Notice:
		if p.Kind == events.NoticeDownloadDone {
			a.setStatus("[lightgreen]" + p.Message)
			return
		}
		a.showNotice(p.Message)
	case domain.Download:
		if p.Status == domain.DownloadStatusRunning {
			a.setStatus(fmt.Sprintf("[yellow]Downloading %s...", p.Title))
		}
	}
}

func (a *App) renderResults() {
	snap := a.library.Snapshot()
	a.rows = Rows(snap, a.library.Favorites().List())

	a.tabs.SetText(Tabs(snap.Counts, snap.Category))
	a.table.SetTitle(Title(snap))
	a.table.Clear()

	header := tcell.StyleDefault.Foreground(tcell.ColorYellow).Attributes(tcell.AttrBold)
	for i, h := range []string{"Title", "Artist", "Album", ""} {
		a.table.SetCell(0, i, tview.NewTableCell(h).SetStyle(header).SetSelectable(false))
	}
	for r, row := range a.rows {
		for c, col := range row.Cols {
			cell := tview.NewTableCell(tview.Escape(col)).SetMaxWidth(40)
			if c == 0 {
				cell.SetExpansion(1)
			}
			a.table.SetCell(r+1, c, cell)
		}
	}
	if len(a.rows) > 0 {
		a.table.Select(1, 0)
	}
}

func (a *App) renderPlayer(s playback.Session) {
	a.bar.SetText(PlayerBar(s, barWidth))
}

func (a *App) setStatus(text string) {
	a.status.SetText(text)
}

// async runs fn off the UI goroutine and reports its error as a notice.
func (a *App) async(fn func(context.Context) error) {
	go func() {
		if err := fn(a.ctx); err != nil {
			a.tviewApp.QueueUpdateDraw(func() { a.reportError(err) })
		}
	}()
}

// reportError surfaces err. Superseded operations and load failures
// already announced by a notice stay quiet.
func (a *App) reportError(err error) {
	switch {
	case errors.Is(err, playback.ErrSuperseded),
		errors.Is(err, library.ErrSuperseded),
		errors.Is(err, playback.ErrNoPlayableSource),
		errors.Is(err, playback.ErrMediaLoad):
		return
	case errors.Is(err, playback.ErrNotPlaying):
		a.setStatus("[darkgray]Nothing is playing")
		return
	}
	a.logger.Warn("Action failed", "error", err)
	a.showNotice(err.Error())
}

func (a *App) runSearch(q string) {
	a.async(func(ctx context.Context) error {
		_, err := a.library.Search(ctx, q, false)
		return err
	})
}

func (a *App) activate(row Row) {
	if row.Track != nil {
		track := *row.Track
		a.async(func(ctx context.Context) error { return a.player.Play(ctx, track) })
		return
	}
	a.async(func(ctx context.Context) error {
		_, err := a.library.OpenEntity(ctx, row.Kind, row.ID)
		return err
	})
}

func (a *App) toggle() {
	a.async(a.player.Toggle)
}

func (a *App) seekBy(delta float64) {
	s := a.player.Session()
	if s.Progress == nil {
		return
	}
	if _, err := a.player.Seek(*s.Progress + delta); err != nil {
		a.reportError(err)
	}
}

func (a *App) toggleFavorite() {
	track, ok := a.player.Current()
	if !ok {
		a.setStatus("[darkgray]Nothing is playing")
		return
	}
	added := a.library.Favorites().Toggle(track)
	a.player.Refresh()
	if added {
		a.setStatus(fmt.Sprintf("[lightgreen]Added %s to favorites", track.Name))
	} else {
		a.setStatus(fmt.Sprintf("[gray]Removed %s from favorites", track.Name))
	}
	if a.library.View() == library.ViewFavorites {
		a.renderResults()
	}
}

func (a *App) download() {
	if a.downloads == nil {
		return
	}
	if d, running := a.downloads.Running(); running {
		a.setStatus(fmt.Sprintf("[yellow]Still downloading %s", d.Title))
		return
	}
	if _, err := a.downloads.DownloadCurrent(a.ctx); err != nil {
		a.showNotice(err.Error())
	}
}

func (a *App) selectCategory(cat domain.Category) {
	if a.library.View() == library.ViewFavorites {
		a.library.SetView(library.ViewSearch)
	}
	a.library.SetCategory(cat)
}

func (a *App) toggleFavoritesView() {
	if a.library.View() == library.ViewFavorites {
		a.library.SetView(library.ViewSearch)
		return
	}
	a.library.SetView(library.ViewFavorites)
}

func (a *App) showModal(m *tview.Modal) {
	a.pages.AddPage(pageModal, m, true, true)
	a.tviewApp.SetFocus(m)
}

func (a *App) closeModal() {
	a.pages.RemovePage(pageModal)
	a.tviewApp.SetFocus(a.table)
}

func (a *App) showNotice(msg string) {
	m := tview.NewModal().
		SetText(msg).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) { a.closeModal() })
	a.showModal(m)
}

func (a *App) confirmClear() {
	m := tview.NewModal().
		SetText("Clear favorites, last song and last results?").
		AddButtons([]string{"Clear", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			a.closeModal()
			if label != "Clear" {
				return
			}
			a.player.Reset()
			a.async(a.library.Reset)
		})
	a.showModal(m)
}
