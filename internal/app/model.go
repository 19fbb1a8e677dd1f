package app

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eleven-am/lingualens/internal/capture"
	"github.com/eleven-am/lingualens/internal/device"
	"github.com/eleven-am/lingualens/internal/drawer"
	"github.com/eleven-am/lingualens/internal/locale"
	"github.com/eleven-am/lingualens/internal/speech"
	"github.com/eleven-am/lingualens/internal/ui"
)

const settleDuration = 180 * time.Millisecond

// Speaker reads text aloud in the voice for a language.
type Speaker interface {
	Speak(ctx context.Context, language, text string) error
}

// Options configures a Model.
type Options struct {
	Session   *capture.Session
	Speaker   Speaker
	Toggle    speech.Toggle
	Facing    device.Facing
	StatusTTL time.Duration
	Logger    *slog.Logger
}

// Model is the root bubbletea model for the lens TUI.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *capture.Session
	speaker Speaker
	catalog *locale.Catalog
	logger  *slog.Logger

	facing    device.Facing
	statusTTL time.Duration
	toggle    speech.Toggle

	// Drawer and lightbox
	drawer       drawer.State
	gesture      *drawer.Gesture
	drawerScroll int

	// In-flight work
	cameraBusy bool
	capturing  bool
	speaking   bool

	images *imageCache

	width  int
	height int
}

// New creates a Model around a capture session.
func New(opts Options) Model {
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = 4 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Facing == "" {
		opts.Facing = device.FacingUser
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		ctx:       ctx,
		cancel:    cancel,
		session:   opts.Session,
		speaker:   opts.Speaker,
		catalog:   opts.Session.Catalog(),
		logger:    opts.Logger.With("component", "tui"),
		facing:    opts.Facing,
		statusTTL: opts.StatusTTL,
		toggle:    opts.Toggle,
		gesture:   &drawer.Gesture{},
		images:    newImageCache(),
	}
	m.session.Notify(m.text(locale.KeyStatusIdle), capture.StatusInfo)
	return m
}

// Init returns no initial command; the camera starts on demand.
func (m Model) Init() tea.Cmd {
	return nil
}

func startCameraCmd(ctx context.Context, s *capture.Session, facing device.Facing) tea.Cmd {
	return func() tea.Msg {
		return cameraMsg{err: s.StartCamera(ctx, facing)}
	}
}

func switchCameraCmd(ctx context.Context, s *capture.Session) tea.Cmd {
	return func() tea.Msg {
		return cameraMsg{err: s.SwitchCamera(ctx)}
	}
}

func captureCmd(ctx context.Context, s *capture.Session) tea.Cmd {
	return func() tea.Msg {
		rec, err := s.Capture(ctx)
		return capturedMsg{record: rec, err: err}
	}
}

func processCmd(ctx context.Context, s *capture.Session, rec capture.Record) tea.Cmd {
	return func() tea.Msg {
		return processedMsg{id: rec.ID, state: s.Process(ctx, rec)}
	}
}

func speakCmd(ctx context.Context, sp Speaker, language, text string) tea.Cmd {
	return func() tea.Msg {
		return speechMsg{err: sp.Speak(ctx, language, text)}
	}
}

func expireStatusCmd(ttl time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

func settleCmd() tea.Cmd {
	return tea.Tick(settleDuration, func(time.Time) tea.Msg {
		return gestureSettledMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case cameraMsg:
		m.cameraBusy = false
		if msg.err == nil {
			m.facing = m.session.Facing()
		}
		return m, m.expireStatus()

	case capturedMsg:
		m.capturing = false
		if msg.err != nil {
			m.logger.Debug("capture failed", "error", msg.err)
			return m, m.expireStatus()
		}
		return m, tea.Batch(processCmd(m.ctx, m.session, msg.record), m.expireStatus())

	case processedMsg:
		cmds := []tea.Cmd{m.expireStatus()}
		cur := msg.state.Current
		if cur != nil && cur.ID == msg.id && cur.Result != nil && m.toggle.AutoPlay() {
			if cmd := m.speak(*cur); cmd != nil {
				m.speaking = true
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case speechMsg:
		m.speaking = false
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Warn("speech failed", "error", msg.err)
			m.session.Notify(m.text(locale.KeySpeechFailed)+": "+msg.err.Error(), capture.StatusError)
			return m, m.expireStatus()
		}
		return m, nil

	case statusExpiredMsg:
		m.session.ExpireStatus(msg.seq)
		return m, nil

	case gestureSettledMsg:
		if m.gesture.Finish() {
			m.drawer = drawer.Reduce(m.drawer, drawer.Closed{})
			m.drawerScroll = 0
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyCtrlC:
		m.session.Close()
		m.cancel()
		return m, tea.Quit

	case KeyCamera:
		switch m.session.CameraState() {
		case device.StateActive:
			m.session.StopCamera()
			return m, m.expireStatus()
		case device.StateStopped:
			if m.cameraBusy {
				return m, nil
			}
			m.cameraBusy = true
			return m, startCameraCmd(m.ctx, m.session, m.facing)
		}
		return m, nil

	case KeyFlip:
		if m.session.CameraState() != device.StateActive {
			m.facing = m.facing.Opposite()
			return m, nil
		}
		if m.cameraBusy {
			return m, nil
		}
		m.cameraBusy = true
		return m, switchCameraCmd(m.ctx, m.session)

	case KeyCapture, KeySpace:
		if m.capturing {
			return m, nil
		}
		m.capturing = true
		return m, captureCmd(m.ctx, m.session)

	case KeyLanguage:
		m.session.SetLanguage(m.catalog.Next(m.session.Language()))
		return m, nil

	case KeyMode:
		m.session.SetMode(m.session.Mode().Next())
		return m, nil

	case KeyTTS:
		m.toggle = m.toggle.Apply(speech.EnableToggled)
		return m, nil

	case KeyMute:
		m.toggle = m.toggle.Apply(speech.MuteToggled)
		return m, nil

	case KeySpeak:
		rec, ok := m.focusedRecord()
		if !ok || rec.Result == nil || speech.Speakable(*rec.Result) == "" {
			m.session.Notify(m.text(locale.KeySpeechNothing), capture.StatusInfo)
			return m, m.expireStatus()
		}
		cmd := m.speak(rec)
		m.speaking = cmd != nil
		return m, cmd

	case KeyHistory:
		m.drawer = drawer.Reduce(m.drawer, drawer.Toggled{})
		m.drawerScroll = 0
		return m, nil

	case KeyJ, KeyDown:
		if m.drawer.Open {
			n := len(m.session.History())
			if m.drawer.Selected < n-1 {
				m.drawer = drawer.Reduce(m.drawer, drawer.Selected{Index: m.drawer.Selected + 1})
			}
			m.followSelection()
		}
		return m, nil

	case KeyK, KeyUp:
		if m.drawer.Open {
			m.drawer = drawer.Reduce(m.drawer, drawer.Selected{Index: m.drawer.Selected - 1})
			m.followSelection()
		}
		return m, nil

	case KeyEnter:
		if m.drawer.Lightbox != "" {
			return m, nil
		}
		if m.drawer.Open {
			if history := m.session.History(); m.drawer.Selected < len(history) {
				m.drawer = drawer.Reduce(m.drawer, drawer.LightboxOpened{ID: history[m.drawer.Selected].ID})
			}
			return m, nil
		}
		if cur, ok := m.session.Current(); ok {
			m.drawer = drawer.Reduce(m.drawer, drawer.LightboxOpened{ID: cur.ID})
		}
		return m, nil

	case KeyDelete:
		id := m.drawer.Lightbox
		if id == "" && m.drawer.Open {
			if history := m.session.History(); m.drawer.Selected < len(history) {
				id = history[m.drawer.Selected].ID
			}
		}
		if id == "" || !m.session.Delete(id) {
			return m, nil
		}
		m.images.forget(id)
		if m.drawer.Lightbox == id {
			m.drawer = drawer.Reduce(m.drawer, drawer.LightboxClosed{})
		}
		m.drawer = drawer.Reduce(m.drawer, drawer.ItemRemoved{Count: len(m.session.History())})
		m.followSelection()
		m.session.Notify(m.text(locale.KeyDeleted), capture.StatusInfo)
		return m, m.expireStatus()

	case KeyClearHistory:
		m.session.ClearAll()
		m.images.reset()
		m.drawer = drawer.Reduce(m.drawer, drawer.Emptied{})
		m.drawerScroll = 0
		return m, m.expireStatus()

	case KeyEsc:
		if m.drawer.Lightbox != "" {
			m.drawer = drawer.Reduce(m.drawer, drawer.LightboxClosed{})
		} else if m.drawer.Open {
			m.drawer = drawer.Reduce(m.drawer, drawer.Closed{})
		}
		return m, nil
	}

	return m, nil
}

// handleMouse drives the drawer drag gesture and wheel scrolling.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.drawer.Open || m.drawer.Lightbox != "" {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.drawerScroll > 0 {
			m.drawerScroll--
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.drawerScroll < len(m.session.History())-1 {
			m.drawerScroll++
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && msg.Y >= m.drawerTop() {
			m.gesture.Begin(msg.Y, m.drawerScroll, m.height)
		}
	case tea.MouseActionMotion:
		if m.gesture.Phase() == drawer.PhaseDragging {
			m.gesture.Move(msg.Y)
		}
	case tea.MouseActionRelease:
		if m.gesture.Phase() == drawer.PhaseDragging {
			m.gesture.End()
			return m, settleCmd()
		}
	}
	return m, nil
}

func (m Model) speak(rec capture.Record) tea.Cmd {
	if m.speaker == nil || rec.Result == nil {
		return nil
	}
	text := speech.Speakable(*rec.Result)
	if text == "" {
		return nil
	}
	return speakCmd(m.ctx, m.speaker, rec.Language, text)
}

// focusedRecord is the lightbox record if one is open, else the current one.
func (m Model) focusedRecord() (capture.Record, bool) {
	if m.drawer.Lightbox != "" {
		return m.session.Lookup(m.drawer.Lightbox)
	}
	return m.session.Current()
}

func (m Model) expireStatus() tea.Cmd {
	st := m.session.Status()
	if st.Empty() {
		return nil
	}
	return expireStatusCmd(m.statusTTL, st.Seq)
}

func (m *Model) followSelection() {
	visible := m.drawerRows()
	if visible < 1 {
		visible = 1
	}
	if m.drawer.Selected < m.drawerScroll {
		m.drawerScroll = m.drawer.Selected
	}
	if m.drawer.Selected >= m.drawerScroll+visible {
		m.drawerScroll = m.drawer.Selected - visible + 1
	}
}

func (m Model) text(key string) string {
	return m.catalog.Text(m.session.Language(), key)
}

// imageCache keeps decoded capture images keyed by record id.
type imageCache struct {
	images map[string]image.Image
}

func newImageCache() *imageCache {
	return &imageCache{images: make(map[string]image.Image)}
}

func (c *imageCache) get(rec capture.Record) image.Image {
	if img, ok := c.images[rec.ID]; ok {
		return img
	}
	data, err := device.DecodeDataURL(rec.Image)
	if err != nil {
		c.images[rec.ID] = nil
		return nil
	}
	img, err := ui.DecodeImage(data)
	if err != nil {
		img = nil
	}
	c.images[rec.ID] = img
	return img
}

func (c *imageCache) forget(id string) {
	delete(c.images, id)
}

func (c *imageCache) reset() {
	c.images = make(map[string]image.Image)
}
