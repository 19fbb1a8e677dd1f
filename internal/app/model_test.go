package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eleven-am/lingualens/internal/capture"
	"github.com/eleven-am/lingualens/internal/device"
	"github.com/eleven-am/lingualens/internal/drawer"
	"github.com/eleven-am/lingualens/internal/inference"
	"github.com/eleven-am/lingualens/internal/locale"
	"github.com/eleven-am/lingualens/internal/speech"
)

type solidSource struct {
	err error
}

func (s solidSource) Open(ctx context.Context, c device.Constraints) (device.Stream, error) {
	if s.err != nil {
		return nil, s.err
	}
	return solidStream{}, nil
}

type solidStream struct{}

func (solidStream) Frame() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img, nil
}

func (solidStream) Close() error { return nil }

type stubInferencer struct {
	result inference.Result
	err    error
}

func (s stubInferencer) Process(ctx context.Context, req inference.Request) (inference.Result, error) {
	return s.result, s.err
}

type recordingSpeaker struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recordingSpeaker) Speak(ctx context.Context, language, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, language+":"+text)
	return r.err
}

func newTestModel(t *testing.T, inf capture.Inferencer, sp Speaker, toggle speech.Toggle) Model {
	t.Helper()
	sess := capture.NewSession(capture.Options{
		Camera:    device.New(device.Config{Source: solidSource{}}),
		Inference: inf,
		Language:  "English",
	})
	m := New(Options{
		Session:   sess,
		Speaker:   sp,
		Toggle:    toggle,
		StatusTTL: time.Millisecond,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

// run executes cmd and feeds every resulting message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, next := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, next)
		}
	}
	return m
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case KeyEnter:
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case KeyEsc:
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case KeySpace:
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return run(t, updated.(Model), cmd)
}

func TestNew_PostsIdleStatus(t *testing.T) {
	m := newTestModel(t, stubInferencer{}, nil, speech.Toggle{})
	want := locale.Default().Text("English", locale.KeyStatusIdle)
	if got := m.session.Status().Message; got != want {
		t.Errorf("expected idle status %q, got %q", want, got)
	}
	if m.Init() != nil {
		t.Error("Init should not start any work")
	}
}

func TestView_Initializing(t *testing.T) {
	sess := capture.NewSession(capture.Options{Camera: device.New(device.Config{}), Inference: stubInferencer{}})
	m := New(Options{Session: sess})
	if m.View() != "Initializing..." {
		t.Errorf("expected placeholder before first resize, got %q", m.View())
	}
}

func TestCaptureFlow(t *testing.T) {
	inf := stubInferencer{result: inference.Result{Translation: "Bonjour", Description: "A greeting"}}
	m := newTestModel(t, inf, nil, speech.Toggle{})

	m = press(t, m, KeyCamera)
	if m.session.CameraState() != device.StateActive {
		t.Fatalf("expected camera active, got %s", m.session.CameraState())
	}

	m = press(t, m, KeyLanguage)
	if m.session.Language() != "Spanish" {
		t.Fatalf("expected Spanish after cycling, got %s", m.session.Language())
	}

	m = press(t, m, KeyCapture)
	cur, ok := m.session.Current()
	if !ok || cur.Result == nil {
		t.Fatalf("expected resolved current record, got %+v", cur)
	}
	if cur.Result.Translation != "Bonjour" {
		t.Errorf("unexpected result %+v", cur.Result)
	}
	if m.capturing {
		t.Error("capturing flag should be cleared")
	}

	view := m.View()
	if !strings.Contains(view, "Bonjour") || !strings.Contains(view, "A greeting") {
		t.Error("view should render translation and description")
	}
	if !strings.Contains(view, "Traducción") {
		t.Error("view should use Spanish labels for a Spanish record")
	}

	m = press(t, m, KeySpace)
	if len(m.session.History()) != 1 {
		t.Errorf("expected one archived record, got %d", len(m.session.History()))
	}
}

func TestCapture_CameraOff(t *testing.T) {
	m := newTestModel(t, stubInferencer{}, nil, speech.Toggle{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(KeyCapture)})
	m = updated.(Model)
	msg := cmd()
	captured, ok := msg.(capturedMsg)
	if !ok {
		t.Fatalf("expected capturedMsg, got %T", msg)
	}
	if !errors.Is(captured.err, device.ErrNotActive) {
		t.Errorf("expected ErrNotActive, got %v", captured.err)
	}
	st := m.session.Status()
	if st.Kind != capture.StatusError {
		t.Errorf("expected error status, got %+v", st)
	}
}

func TestCamera_StartFailurePostsStatus(t *testing.T) {
	sess := capture.NewSession(capture.Options{
		Camera:    device.New(device.Config{Source: solidSource{err: device.ErrPermissionDenied}}),
		Inference: stubInferencer{},
	})
	m := New(Options{Session: sess, StatusTTL: time.Hour})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(KeyCamera)})
	m = updated.(Model)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	want := locale.Default().Text("English", locale.KeyCameraDenied)
	if st := m.session.Status(); st.Message != want || st.Kind != capture.StatusError {
		t.Errorf("expected %q error, got %+v", want, st)
	}
	if m.cameraBusy {
		t.Error("cameraBusy should be cleared")
	}
}

func TestAutoPlay(t *testing.T) {
	inf := stubInferencer{result: inference.Result{Translation: "hola", Description: "a sign"}}

	sp := &recordingSpeaker{}
	m := newTestModel(t, inf, sp, speech.Toggle{Enabled: true})
	m = press(t, m, KeyCamera)
	m = press(t, m, KeyCapture)
	if len(sp.calls) != 1 || sp.calls[0] != "English:a sign" {
		t.Errorf("expected description spoken once, got %v", sp.calls)
	}

	sp = &recordingSpeaker{}
	m = newTestModel(t, inf, sp, speech.Toggle{Enabled: true, Muted: true})
	m = press(t, m, KeyCamera)
	m = press(t, m, KeyCapture)
	if len(sp.calls) != 0 {
		t.Errorf("muted toggle should not autoplay, got %v", sp.calls)
	}

	m = press(t, m, KeySpeak)
	if len(sp.calls) != 1 {
		t.Errorf("manual speak should play while muted, got %v", sp.calls)
	}
}

func TestSpeechFailurePostsStatus(t *testing.T) {
	sp := &recordingSpeaker{err: errors.New("tts down")}
	m := newTestModel(t, stubInferencer{result: inference.Result{Translation: "x"}}, sp, speech.Toggle{})
	m = press(t, m, KeyCamera)
	m = press(t, m, KeyCapture)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(KeySpeak)})
	m = updated.(Model)
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	st := m.session.Status()
	if st.Kind != capture.StatusError || !strings.Contains(st.Message, "tts down") {
		t.Errorf("expected speech error status, got %+v", st)
	}
}

func TestSpeak_NothingToSay(t *testing.T) {
	sp := &recordingSpeaker{}
	m := newTestModel(t, stubInferencer{}, sp, speech.Toggle{})
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(KeySpeak)})
	m = updated.(Model)
	if len(sp.calls) != 0 {
		t.Error("nothing should be spoken")
	}
	if m.session.Status().Message != locale.Default().Text("English", locale.KeySpeechNothing) {
		t.Errorf("unexpected status %+v", m.session.Status())
	}
}

func TestToggleKeys(t *testing.T) {
	m := newTestModel(t, stubInferencer{}, nil, speech.Toggle{})
	m = press(t, m, KeyTTS)
	if !m.toggle.Enabled {
		t.Error("t should enable TTS")
	}
	m = press(t, m, KeyMute)
	if !m.toggle.Muted || m.toggle.AutoPlay() {
		t.Error("M should mute")
	}
	m = press(t, m, KeyMode)
	if m.session.Mode() != capture.ModeTranslate {
		t.Errorf("expected translate mode, got %s", m.session.Mode())
	}
}

func TestDrawer_SelectLightboxDelete(t *testing.T) {
	m := newTestModel(t, stubInferencer{result: inference.Result{Translation: "x"}}, nil, speech.Toggle{})
	m = press(t, m, KeyCamera)
	for i := 0; i < 4; i++ {
		m = press(t, m, KeyCapture)
	}
	if n := len(m.session.History()); n != 3 {
		t.Fatalf("expected 3 archived, got %d", n)
	}

	m = press(t, m, KeyHistory)
	if !m.drawer.Open {
		t.Fatal("h should open the drawer")
	}
	m = press(t, m, KeyJ)
	m = press(t, m, KeyJ)
	m = press(t, m, KeyJ)
	if m.drawer.Selected != 2 {
		t.Errorf("selection should stop at the last item, got %d", m.drawer.Selected)
	}

	target := m.session.History()[2].ID
	m = press(t, m, KeyEnter)
	if m.drawer.Lightbox != target {
		t.Fatalf("expected lightbox %s, got %s", target, m.drawer.Lightbox)
	}
	if m.View() == "" {
		t.Error("lightbox view should render")
	}

	m = press(t, m, KeyDelete)
	if m.drawer.Lightbox != "" {
		t.Error("deleting the lightbox record should close it")
	}
	if _, ok := m.session.Lookup(target); ok {
		t.Error("record should be deleted")
	}
	if m.drawer.Selected != 1 {
		t.Errorf("selection should clamp to 1, got %d", m.drawer.Selected)
	}

	m = press(t, m, KeyClearHistory)
	if len(m.session.History()) != 0 {
		t.Error("x should clear history")
	}
	if _, ok := m.session.Current(); ok {
		t.Error("x should drop the current record")
	}

	m = press(t, m, KeyEsc)
	if m.drawer.Open {
		t.Error("esc should close the drawer")
	}
}

func TestDrawer_DragToDismiss(t *testing.T) {
	m := newTestModel(t, stubInferencer{}, nil, speech.Toggle{})
	m = press(t, m, KeyHistory)
	top := m.drawerTop()

	mouse := func(m Model, action tea.MouseAction, y int) (Model, tea.Cmd) {
		updated, cmd := m.Update(tea.MouseMsg{X: 5, Y: y, Action: action, Button: tea.MouseButtonLeft})
		return updated.(Model), cmd
	}

	m, _ = mouse(m, tea.MouseActionPress, top)
	if m.gesture.Phase() != drawer.PhaseDragging {
		t.Fatalf("expected dragging, got %s", m.gesture.Phase())
	}
	m, _ = mouse(m, tea.MouseActionMotion, top+2)
	m, cmd := mouse(m, tea.MouseActionRelease, top+2)
	m = run(t, m, cmd)
	if !m.drawer.Open {
		t.Error("short drag should leave the drawer open")
	}

	m, _ = mouse(m, tea.MouseActionPress, top)
	m, _ = mouse(m, tea.MouseActionMotion, top+m.height/3)
	m, cmd = mouse(m, tea.MouseActionRelease, top+m.height/3)
	if m.gesture.Phase() != drawer.PhaseClosing {
		t.Fatalf("expected closing, got %s", m.gesture.Phase())
	}

	m, _ = mouse(m, tea.MouseActionPress, top)
	if m.gesture.Phase() != drawer.PhaseClosing {
		t.Error("a new drag must not start while closing")
	}

	m = run(t, m, cmd)
	if m.drawer.Open {
		t.Error("long drag should close the drawer")
	}
	if m.gesture.Phase() != drawer.PhaseIdle {
		t.Errorf("gesture should be idle, got %s", m.gesture.Phase())
	}
}

func TestStatusExpiry(t *testing.T) {
	m := newTestModel(t, stubInferencer{}, nil, speech.Toggle{})
	st := m.session.Notify("hello", capture.StatusInfo)
	m.session.Notify("newer", capture.StatusInfo)

	updated, _ := m.Update(statusExpiredMsg{seq: st.Seq})
	m = updated.(Model)
	if m.session.Status().Message != "newer" {
		t.Error("stale expiry should not clear a newer status")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, stubInferencer{}, nil, speech.Toggle{})
	m = press(t, m, KeyCamera)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(KeyQuit)})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if m.session.CameraState() != device.StateStopped {
		t.Error("quit should release the camera")
	}
	if m.ctx.Err() == nil {
		t.Error("quit should cancel in-flight work")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("the quick brown fox jumps", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "the quick brown fox jumps" {
		t.Errorf("wrap should preserve words, got %v", lines)
	}
}

func TestFitLines(t *testing.T) {
	if got := fitLines("a\nb\nc", 2); got != "a\nb" {
		t.Errorf("expected truncation, got %q", got)
	}
	if got := fitLines("a", 3); got != "a\n\n" {
		t.Errorf("expected padding, got %q", got)
	}
}
