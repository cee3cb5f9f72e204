package main

import (
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"idlemouse/internal/adapters/robotinput"
	"idlemouse/internal/core/mover"
)

const (
	unconstrainedOption = "None (whole screen)"
	pickWindowTimeout   = 10 * time.Second
)

type moverTheme struct {
	base fyne.Theme
}

func newMoverTheme() fyne.Theme {
	return &moverTheme{base: theme.DarkTheme()}
}

func (t *moverTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x10, G: 0x13, B: 0x18, A: 0xff}
	case theme.ColorNameHeaderBackground:
		return color.NRGBA{R: 0x14, G: 0x19, B: 0x20, A: 0xff}
	case theme.ColorNameButton:
		return color.NRGBA{R: 0x1e, G: 0x26, B: 0x30, A: 0xff}
	case theme.ColorNameDisabledButton:
		return color.NRGBA{R: 0x17, G: 0x1c, B: 0x23, A: 0xff}
	case theme.ColorNameInputBackground:
		return color.NRGBA{R: 0x15, G: 0x1b, B: 0x22, A: 0xff}
	case theme.ColorNameInputBorder, theme.ColorNameSeparator:
		return color.NRGBA{R: 0x2c, G: 0x36, B: 0x42, A: 0xff}
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return color.NRGBA{R: 0x53, G: 0xc2, B: 0xa5, A: 0xff}
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0x62, G: 0xd4, B: 0xb6, A: 0x66}
	case theme.ColorNameHover:
		return color.NRGBA{R: 0x62, G: 0xd4, B: 0xb6, A: 0x22}
	case theme.ColorNamePressed:
		return color.NRGBA{R: 0x62, G: 0xd4, B: 0xb6, A: 0x40}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x53, G: 0xc2, B: 0xa5, A: 0x44}
	case theme.ColorNameForeground:
		return color.NRGBA{R: 0xf0, G: 0xf3, B: 0xf6, A: 0xff}
	case theme.ColorNamePlaceHolder:
		return color.NRGBA{R: 0xa6, G: 0xb2, B: 0xbf, A: 0xff}
	case theme.ColorNameError:
		return color.NRGBA{R: 0xff, G: 0x85, B: 0x85, A: 0xff}
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 0x7d, G: 0xd4, B: 0xa6, A: 0xff}
	}
	return t.base.Color(name, variant)
}

func (t *moverTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *moverTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *moverTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 8
	case theme.SizeNameInnerPadding:
		return 8
	case theme.SizeNameInputRadius:
		return 8
	}
	return t.base.Size(name)
}

func formatStatus(status mover.Status, now time.Time) string {
	if status.Err != "" {
		return "Error: " + status.Err
	}
	if !status.Running {
		if status.Clicks == 0 {
			return "Idle"
		}
		return fmt.Sprintf("Stopped after %d click pairs", status.Clicks)
	}
	if status.LastClick.IsZero() {
		return "Running, waiting for first click"
	}
	return fmt.Sprintf("Running, %d click pairs, last click %.1fs ago",
		status.Clicks, now.Sub(status.LastClick).Seconds())
}

func runUI(baseCfg config) error {
	fApp := app.New()
	fApp.Settings().SetTheme(newMoverTheme())

	window := fApp.NewWindow("Mouse Activity")
	window.Resize(fyne.NewSize(560, 560))
	window.SetFixedSize(true)
	window.CenterOnScreen()

	directionDefault := string(baseCfg.direction)
	distanceDefault := strconv.Itoa(baseCfg.distance)
	clickDefault := strconv.FormatFloat(baseCfg.clickInterval.Seconds(), 'f', -1, 64)
	moveDefault := strconv.FormatFloat(baseCfg.moveInterval.Seconds(), 'f', -1, 64)
	windowDefault := strings.TrimSpace(baseCfg.windowTitle)

	settingsLoadWarning := ""
	stored, err := loadUISettings()
	if err != nil {
		settingsLoadWarning = fmt.Sprintf("Failed to load saved settings: %v", err)
	} else if stored != nil {
		if _, parseErr := mover.ParseDirection(stored.Direction); parseErr == nil {
			directionDefault = stored.Direction
		}
		if stored.Distance > 0 {
			distanceDefault = strconv.Itoa(stored.Distance)
		}
		if stored.ClickInterval > 0 {
			clickDefault = strconv.FormatFloat(stored.ClickInterval, 'f', -1, 64)
		}
		if stored.MoveInterval > 0 {
			moveDefault = strconv.FormatFloat(stored.MoveInterval, 'f', -1, 64)
		}
		if value := strings.TrimSpace(stored.Window); value != "" {
			windowDefault = value
		}
	}

	directionSelect := widget.NewSelect(mover.Directions(), nil)
	directionSelect.SetSelected(directionDefault)

	distanceEntry := widget.NewEntry()
	distanceEntry.SetText(distanceDefault)
	clickEntry := widget.NewEntry()
	clickEntry.SetText(clickDefault)
	moveEntry := widget.NewEntry()
	moveEntry.SetText(moveDefault)

	windowSelect := widget.NewSelect([]string{unconstrainedOption}, nil)
	windowSelect.SetSelected(unconstrainedOption)

	var windowsMu sync.Mutex
	var listedWindows []robotinput.Window

	errorText := canvas.NewText("", nil)
	errorText.Color = theme.Color(theme.ColorNameError)
	if settingsLoadWarning != "" {
		errorText.Text = settingsLoadWarning
	}

	statusLabel := widget.NewLabel("Idle")
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	logGrid := widget.NewTextGrid()
	logGrid.SetText("")
	logScroll := container.NewVScroll(logGrid)
	logScroll.SetMinSize(fyne.NewSize(0, 150))

	const maxUILogLines = 50
	var logMu sync.Mutex
	logLines := make([]string, 0, maxUILogLines)
	debugLogs := debugLogsEnabled()
	appendLogLine := func(line string) {
		if !debugLogs {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return
		}

		logMu.Lock()
		logLines = append(logLines, line)
		if len(logLines) > maxUILogLines {
			logLines = logLines[len(logLines)-maxUILogLines:]
		}
		logText := strings.Join(logLines, "\n")
		logMu.Unlock()

		fyne.Do(func() {
			logGrid.SetText(logText)
			logScroll.ScrollToBottom()
		})
	}
	if settingsLoadWarning != "" {
		appendLogLine("WARNING " + settingsLoadWarning)
	}

	refreshBtn := widget.NewButton("Refresh", nil)
	pickBtn := widget.NewButton("Pick by click", nil)
	startBtn := widget.NewButton("Start", nil)
	stopBtn := widget.NewButton("Stop", nil)
	startBtn.Importance = widget.HighImportance
	stopBtn.Disable()

	// UI-thread only.
	applyWindows := func(windows []robotinput.Window, preferredTitle string) {
		prev := windowSelect.Selected
		windowsMu.Lock()
		listedWindows = windows
		windowsMu.Unlock()

		options := make([]string, 0, len(windows)+1)
		options = append(options, unconstrainedOption)
		for _, w := range windows {
			options = append(options, w.Label())
		}

		selected := unconstrainedOption
		if preferredTitle != "" {
			needle := strings.ToLower(preferredTitle)
			for i, w := range windows {
				if strings.Contains(strings.ToLower(w.Title), needle) {
					selected = options[i+1]
					break
				}
			}
		} else {
			for _, option := range options {
				if option == prev {
					selected = prev
					break
				}
			}
		}

		windowSelect.Options = options
		windowSelect.Refresh()
		windowSelect.SetSelected(selected)
	}

	selectedWindow := func() (robotinput.Window, bool) {
		label := windowSelect.Selected
		if label == "" || label == unconstrainedOption {
			return robotinput.Window{}, false
		}
		windowsMu.Lock()
		defer windowsMu.Unlock()
		for i, option := range windowSelect.Options {
			if option != label || i == 0 {
				continue
			}
			if i-1 < len(listedWindows) {
				return listedWindows[i-1], true
			}
		}
		return robotinput.Window{}, false
	}

	reloadWindows := func(preferredTitle string) {
		refreshBtn.Disable()
		go func() {
			windows, err := robotinput.List()
			fyne.Do(func() {
				refreshBtn.Enable()
				if err != nil {
					errorText.Text = "Window list failed: " + err.Error()
					errorText.Refresh()
					appendLogLine("ERROR " + errorText.Text)
					return
				}
				applyWindows(windows, preferredTitle)
			})
		}()
	}
	refreshBtn.OnTapped = func() {
		reloadWindows("")
	}

	pickBtn.OnTapped = func() {
		pickBtn.Disable()
		statusLabel.SetText("Click the target window within 10 seconds")
		go func() {
			picked, err := robotinput.PickWindow(pickWindowTimeout)
			fyne.Do(func() {
				pickBtn.Enable()
				statusLabel.SetText("Idle")
				if err != nil {
					errorText.Text = err.Error()
					errorText.Refresh()
					appendLogLine("ERROR " + err.Error())
					return
				}
				windowsMu.Lock()
				windows := listedWindows
				known := false
				for _, w := range windows {
					if w.PID == picked.PID {
						known = true
						break
					}
				}
				if !known {
					windows = append(windows, picked)
				}
				windowsMu.Unlock()
				applyWindows(windows, picked.Title)
				errorText.Text = ""
				errorText.Refresh()
				appendLogLine("INFO Picked window " + picked.Title)
			})
		}()
	}

	var stateMu sync.Mutex
	var runningService *mover.Service
	var watcherStop chan struct{}

	setRunningUI := func(running bool) {
		if running {
			startBtn.Disable()
			stopBtn.Enable()
			directionSelect.Disable()
			distanceEntry.Disable()
			clickEntry.Disable()
			moveEntry.Disable()
			windowSelect.Disable()
			refreshBtn.Disable()
			pickBtn.Disable()
			return
		}
		startBtn.Enable()
		stopBtn.Disable()
		directionSelect.Enable()
		distanceEntry.Enable()
		clickEntry.Enable()
		moveEntry.Enable()
		windowSelect.Enable()
		refreshBtn.Enable()
		pickBtn.Enable()
	}

	persistUISettings := func() {
		settings := uiSettings{Direction: directionSelect.Selected}
		if distance, err := strconv.Atoi(strings.TrimSpace(distanceEntry.Text)); err == nil {
			settings.Distance = distance
		}
		if seconds, err := strconv.ParseFloat(strings.TrimSpace(clickEntry.Text), 64); err == nil {
			settings.ClickInterval = seconds
		}
		if seconds, err := strconv.ParseFloat(strings.TrimSpace(moveEntry.Text), 64); err == nil {
			settings.MoveInterval = seconds
		}
		if w, ok := selectedWindow(); ok {
			settings.Window = w.Title
		}

		if err := saveUISettings(settings); err != nil {
			errorText.Text = fmt.Sprintf("Failed to save settings: %v", err)
			errorText.Refresh()
		}
	}

	buildServiceConfig := func() (mover.Config, string, error) {
		var cfg mover.Config

		direction, err := mover.ParseDirection(directionSelect.Selected)
		if err != nil {
			return cfg, "", err
		}
		distance, err := strconv.Atoi(strings.TrimSpace(distanceEntry.Text))
		if err != nil {
			return cfg, "", fmt.Errorf("move distance must be a whole number of pixels")
		}
		clickSeconds, err := strconv.ParseFloat(strings.TrimSpace(clickEntry.Text), 64)
		if err != nil {
			return cfg, "", fmt.Errorf("click interval must be a number of seconds")
		}
		moveSeconds, err := strconv.ParseFloat(strings.TrimSpace(moveEntry.Text), 64)
		if err != nil {
			return cfg, "", fmt.Errorf("move interval must be a number of seconds")
		}

		cfg = mover.Config{
			Direction:     direction,
			Distance:      distance,
			ClickInterval: time.Duration(clickSeconds * float64(time.Second)),
			MoveInterval:  time.Duration(moveSeconds * float64(time.Second)),
		}
		if w, ok := selectedWindow(); ok {
			cfg.Target = w.Target()
			return cfg, w.Title, nil
		}
		return cfg, "", nil
	}

	watchService := func(service *mover.Service, stopCh <-chan struct{}) {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		last := mover.Status{Running: true}
		render := func() {
			text := formatStatus(last, time.Now())
			fyne.Do(func() {
				statusLabel.SetText(text)
			})
		}
		render()

		for {
			select {
			case <-stopCh:
				return
			case status := <-service.Updates():
				last = status
				render()
			case <-ticker.C:
				render()
			case <-service.Done():
				select {
				case status := <-service.Updates():
					last = status
				default:
				}
				last.Running = false
				render()
				fyne.Do(func() {
					if last.Err != "" {
						errorText.Text = last.Err
						errorText.Refresh()
						appendLogLine("ERROR " + last.Err)
					}
					setRunningUI(false)
				})
				stateMu.Lock()
				if runningService == service {
					runningService = nil
					watcherStop = nil
				}
				stateMu.Unlock()
				return
			}
		}
	}

	startBtn.OnTapped = func() {
		stateMu.Lock()
		already := runningService != nil
		stateMu.Unlock()
		if already {
			return
		}

		cfg, targetTitle, err := buildServiceConfig()
		if err != nil {
			errorText.Text = err.Error()
			errorText.Refresh()
			appendLogLine("ERROR " + err.Error())
			return
		}

		logger := newSlogLogger(baseCfg.logLevel, appendLogLine)
		service, err := mover.NewService(cfg, robotinput.Pointer{}, logger)
		if err != nil {
			errorText.Text = err.Error()
			errorText.Refresh()
			appendLogLine("ERROR " + err.Error())
			return
		}

		errorText.Text = ""
		errorText.Refresh()
		if targetTitle != "" {
			appendLogLine("INFO Constrained to window " + targetTitle)
		}

		stop := make(chan struct{})
		stateMu.Lock()
		runningService = service
		watcherStop = stop
		stateMu.Unlock()

		service.Start()
		go watchService(service, stop)
		setRunningUI(true)
		persistUISettings()
	}

	stopBtn.OnTapped = func() {
		stateMu.Lock()
		service := runningService
		stateMu.Unlock()
		if service == nil {
			return
		}
		service.Stop()
	}

	stopRuntime := func() {
		stateMu.Lock()
		service := runningService
		stop := watcherStop
		runningService = nil
		watcherStop = nil
		stateMu.Unlock()

		if stop != nil {
			close(stop)
		}
		if service != nil {
			service.Stop()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var closeOnce sync.Once
	cleanup := func() {
		closeOnce.Do(func() {
			stopRuntime()
		})
	}

	requestQuit := func() {
		fyne.Do(func() {
			persistUISettings()
			cleanup()
			if currentApp := fyne.CurrentApp(); currentApp != nil {
				currentApp.Quit()
				return
			}
			window.SetCloseIntercept(nil)
			window.Close()
		})
	}

	go func() {
		<-sigCh
		requestQuit()
	}()

	window.SetCloseIntercept(func() {
		persistUISettings()
		cleanup()
		if currentApp := fyne.CurrentApp(); currentApp != nil {
			currentApp.Quit()
			return
		}
		window.SetCloseIntercept(nil)
		window.Close()
	})

	titleText := canvas.NewText("MOUSE ACTIVITY", color.NRGBA{R: 0x62, G: 0xd4, B: 0xb6, A: 0xff})
	titleText.TextStyle = fyne.TextStyle{Bold: true}
	titleText.TextSize = 26

	accentLine := canvas.NewRectangle(color.NRGBA{R: 0x53, G: 0xc2, B: 0xa5, A: 0xff})
	accentLine.SetMinSize(fyne.NewSize(220, 3))

	targetRow := container.NewBorder(nil, nil, nil, container.NewHBox(refreshBtn, pickBtn), windowSelect)
	targetCard := widget.NewCard("Target window", "", targetRow)

	paramsForm := widget.NewForm(
		widget.NewFormItem("Direction", directionSelect),
		widget.NewFormItem("Distance (px)", distanceEntry),
		widget.NewFormItem("Click interval (s)", clickEntry),
		widget.NewFormItem("Move interval (s)", moveEntry),
	)
	paramsCard := widget.NewCard("Motion", "", paramsForm)

	buttonsRow := container.NewGridWithColumns(2, startBtn, stopBtn)

	mainContent := container.NewVBox(
		titleText,
		accentLine,
		targetCard,
		paramsCard,
		statusLabel,
		errorText,
		buttonsRow,
	)
	mainPanel := container.NewPadded(mainContent)

	var rootContent fyne.CanvasObject = mainPanel
	if debugLogs {
		logsCard := widget.NewCard("Logs", "", logScroll)
		split := container.NewVSplit(mainPanel, logsCard)
		split.SetOffset(0.68)
		rootContent = split
	}

	reloadWindows(windowDefault)

	window.SetContent(rootContent)
	window.ShowAndRun()
	cleanup()
	return nil
}
