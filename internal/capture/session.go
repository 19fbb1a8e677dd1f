package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eleven-am/lingualens/internal/device"
	"github.com/eleven-am/lingualens/internal/inference"
	"github.com/eleven-am/lingualens/internal/locale"
)

type Camera interface {
	Start(ctx context.Context, facing device.Facing) error
	Stop()
	Switch(ctx context.Context) error
	Snapshot() (device.Frame, error)
	Facing() device.Facing
	State() device.State
}

type Inferencer interface {
	Process(ctx context.Context, req inference.Request) (inference.Result, error)
}

type Options struct {
	Camera    Camera
	Inference Inferencer
	Catalog   *locale.Catalog
	Language  string
	Mode      Mode
	Now       func() time.Time
	Logger    *slog.Logger
}

type Session struct {
	camera    Camera
	inference Inferencer
	catalog   *locale.Catalog
	now       func() time.Time
	logger    *slog.Logger
	history   *History

	mu       sync.Mutex
	state    State
	language string
	mode     Mode
	cancel   context.CancelFunc
	inflight uint64
}

func NewSession(opts Options) *Session {
	if opts.Catalog == nil {
		opts.Catalog = locale.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Mode == "" {
		opts.Mode = ModeDescribe
	}
	return &Session{
		camera:    opts.Camera,
		inference: opts.Inference,
		catalog:   opts.Catalog,
		now:       opts.Now,
		logger:    opts.Logger.With("component", "capture"),
		history:   NewHistory(),
		language:  opts.Catalog.Canonical(opts.Language),
		mode:      opts.Mode,
	}
}

func (s *Session) StartCamera(ctx context.Context, facing device.Facing) error {
	s.Notify(s.text(locale.KeyRequesting), StatusInfo)
	if err := s.camera.Start(ctx, facing); err != nil {
		s.cameraFailed("start", err)
		return err
	}
	s.Notify(s.text(locale.KeyCameraStarted), StatusSuccess)
	return nil
}

func (s *Session) StopCamera() {
	s.camera.Stop()
	s.Notify(s.text(locale.KeyCameraStopped), StatusInfo)
}

func (s *Session) SwitchCamera(ctx context.Context) error {
	s.Notify(s.text(locale.KeyRequesting), StatusInfo)
	if err := s.camera.Switch(ctx); err != nil {
		s.cameraFailed("switch", err)
		return err
	}
	s.Notify(s.text(locale.KeyCameraStarted), StatusSuccess)
	return nil
}

func (s *Session) CameraState() device.State {
	return s.camera.State()
}

func (s *Session) Facing() device.Facing {
	return s.camera.Facing()
}

// Capture freezes the current camera frame into a new pending record. The
// previous current record, if any, moves into history.
func (s *Session) Capture(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.apply(CaptureBegan{})

	frame, err := s.camera.Snapshot()
	if err != nil {
		s.apply(CaptureFailed{Message: s.CameraMessage(err)})
		return Record{}, fmt.Errorf("capture frame: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		s.apply(CaptureFailed{Message: s.text(locale.KeyCameraFailed)})
		return Record{}, fmt.Errorf("generate record id: %w", err)
	}

	s.mu.Lock()
	created := s.now()
	rec := Record{
		ID:        id.String(),
		Image:     frame.DataURL,
		Language:  s.language,
		Mode:      s.mode,
		Facing:    frame.Facing,
		Timestamp: created.Format("15:04:05"),
		CreatedAt: created,
	}
	tr := Reduce(s.state, FrameCaptured{
		Record:     rec,
		Superseded: s.catalog.Text(s.language, locale.KeySuperseded),
	})
	s.state = tr.State
	if tr.Archived != nil {
		s.history.Push(*tr.Archived)
	}
	s.cancelLocked()
	s.state = Reduce(s.state, StatusPosted{
		Message: s.catalog.Text(s.language, locale.KeyStatusProcessing),
		Kind:    StatusInfo,
	}).State
	current := *s.state.Current
	s.mu.Unlock()

	s.logger.Debug("frame captured",
		"record_id", current.ID,
		"generation", current.Generation,
		"width", frame.Width,
		"height", frame.Height,
		"archived", tr.Archived != nil)
	return current, nil
}

// Process runs inference for rec. Results for a record that is no longer the
// latest capture are discarded.
func (s *Session) Process(ctx context.Context, rec Record) State {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.state.Current == nil || s.state.Current.ID != rec.ID || s.state.Generation != rec.Generation {
		st := s.state
		s.mu.Unlock()
		return st
	}
	s.cancelLocked()
	s.cancel = cancel
	s.inflight = rec.Generation
	s.mu.Unlock()

	result, err := s.inference.Process(ctx, inference.Request{
		Image:    rec.Image,
		Language: rec.Language,
		Mode:     string(rec.Mode),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == rec.Generation {
		s.cancel = nil
	}

	if err == nil {
		tr := Reduce(s.state, InferenceSucceeded{
			Generation: rec.Generation,
			Result:     Result{Translation: result.Translation, Description: result.Description},
		})
		if !tr.Applied {
			s.logger.Debug("discarding stale result", "record_id", rec.ID, "generation", rec.Generation)
			return s.state
		}
		s.state = Reduce(tr.State, StatusPosted{
			Message: s.catalog.Text(rec.Language, locale.KeyProcessed),
			Kind:    StatusSuccess,
		}).State
		return s.state
	}

	msg := s.inferenceMessage(rec.Language, err)
	tr := Reduce(s.state, InferenceFailed{Generation: rec.Generation, Message: msg})
	if !tr.Applied {
		s.logger.Debug("discarding stale failure", "record_id", rec.ID, "error", err)
		return s.state
	}
	s.logger.Warn("inference failed", "record_id", rec.ID, "error", err)
	s.state = Reduce(tr.State, StatusPosted{Message: msg, Kind: StatusError}).State
	return s.state
}

func (s *Session) CaptureAndProcess(ctx context.Context) (State, error) {
	rec, err := s.Capture(ctx)
	if err != nil {
		return s.State(), err
	}
	return s.Process(ctx, rec), nil
}

// Delete removes a record from history, or drops the current record.
func (s *Session) Delete(id string) bool {
	if s.history.Delete(id) {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tr := Reduce(s.state, Discarded{ID: id})
	if !tr.Applied {
		return false
	}
	s.cancelLocked()
	s.state = tr.State
	return true
}

func (s *Session) ClearAll() {
	s.history.Clear()
	s.mu.Lock()
	s.cancelLocked()
	s.state = Reduce(s.state, Cleared{}).State
	s.state = Reduce(s.state, StatusPosted{
		Message: s.catalog.Text(s.language, locale.KeyHistoryCleared),
		Kind:    StatusInfo,
	}).State
	s.mu.Unlock()
}

func (s *Session) Lookup(id string) (Record, bool) {
	s.mu.Lock()
	if s.state.Current != nil && s.state.Current.ID == id {
		rec := *s.state.Current
		s.mu.Unlock()
		return rec, true
	}
	s.mu.Unlock()
	return s.history.Find(id)
}

func (s *Session) History() []Record {
	return s.history.List()
}

func (s *Session) Current() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Current == nil {
		return Record{}, false
	}
	return *s.state.Current, true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

// ExpireStatus clears the status only if it is still the one posted with seq.
func (s *Session) ExpireStatus(seq uint64) bool {
	return s.apply(StatusExpired{Seq: seq}).Applied
}

func (s *Session) Notify(msg string, kind StatusKind) Status {
	return s.apply(StatusPosted{Message: msg, Kind: kind}).State.Status
}

func (s *Session) SetLanguage(lang string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = s.catalog.Canonical(lang)
	return s.language
}

func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Catalog() *locale.Catalog {
	return s.catalog
}

func (s *Session) Close() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
	s.camera.Stop()
}

// CameraMessage maps a device error onto the localized failure text.
func (s *Session) CameraMessage(err error) string {
	lang := s.Language()
	switch device.Classify(err) {
	case device.FailurePermissionDenied:
		return s.catalog.Text(lang, locale.KeyCameraDenied)
	case device.FailureNoDevice:
		return s.catalog.Text(lang, locale.KeyCameraNoDevice)
	case device.FailureUnsupported:
		return s.catalog.Text(lang, locale.KeyCameraUnsupport)
	}
	if errors.Is(err, device.ErrNotActive) {
		return s.catalog.Text(lang, locale.KeyCameraNotActive)
	}
	return s.catalog.Text(lang, locale.KeyCameraFailed) + " " + err.Error()
}

func (s *Session) cameraFailed(op string, err error) {
	if errors.Is(err, device.ErrSuperseded) {
		s.logger.Debug("camera request superseded", "op", op)
		return
	}
	s.logger.Warn("camera failure", "op", op, "kind", device.Classify(err).String(), "error", err)
	s.Notify(s.CameraMessage(err), StatusError)
}

func (s *Session) inferenceMessage(lang string, err error) string {
	var serverErr *inference.ServerError
	if errors.As(err, &serverErr) {
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return s.catalog.Text(lang, locale.KeyProcessFailed)
	}
	return s.catalog.Text(lang, locale.KeyConnectionFailed)
}

func (s *Session) text(key string) string {
	return s.catalog.Text(s.Language(), key)
}

func (s *Session) apply(ev Event) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr := Reduce(s.state, ev)
	s.state = tr.State
	if tr.Archived != nil {
		s.history.Push(*tr.Archived)
	}
	return tr
}

func (s *Session) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
