// Package locale holds the UI string tables for every supported result
// language.
package locale

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var defaultCatalog []byte

const (
	KeyTranslation      = "label.translation"
	KeyDescription      = "label.description"
	KeyNoText           = "label.no_text"
	KeyHistory          = "label.history"
	KeyEmptyHistory     = "label.empty_history"
	KeyCapturedImage    = "label.captured_image"
	KeyProcessing       = "label.processing"
	KeyCamera           = "label.camera"
	KeyStatusIdle       = "status.idle"
	KeyRequesting       = "status.requesting"
	KeyCameraStarted    = "status.camera_started"
	KeyCameraStopped    = "status.camera_stopped"
	KeyStatusProcessing = "status.processing"
	KeyProcessed        = "status.processed"
	KeyProcessFailed    = "status.process_failed"
	KeyConnectionFailed = "status.connection_failed"
	KeySuperseded       = "status.superseded"
	KeyHistoryCleared   = "status.history_cleared"
	KeyDeleted          = "status.deleted"
	KeyCameraFailed     = "camera.failed"
	KeyCameraDenied     = "camera.permission_denied"
	KeyCameraNoDevice   = "camera.no_device"
	KeyCameraUnsupport  = "camera.unsupported"
	KeyCameraNotActive  = "camera.not_active"
	KeySpeechFailed     = "speech.failed"
	KeySpeechNothing    = "speech.nothing"
)

type language struct {
	Name     string            `yaml:"name"`
	Code     string            `yaml:"code"`
	Voice    string            `yaml:"voice"`
	Messages map[string]string `yaml:"messages"`
}

type document struct {
	Fallback  string     `yaml:"fallback"`
	Languages []language `yaml:"languages"`
}

// Catalog resolves message keys per language, falling back to the catalog's
// fallback language for unknown languages or missing keys.
type Catalog struct {
	fallback string
	order    []string
	byName   map[string]language
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse locale catalog: %w", err)
	}
	if len(doc.Languages) == 0 {
		return nil, fmt.Errorf("locale catalog has no languages")
	}

	c := &Catalog{
		fallback: doc.Fallback,
		byName:   make(map[string]language, len(doc.Languages)),
	}
	for _, l := range doc.Languages {
		if l.Name == "" {
			return nil, fmt.Errorf("locale catalog entry without name")
		}
		key := strings.ToLower(l.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate language %q", l.Name)
		}
		c.byName[key] = l
		c.order = append(c.order, l.Name)
	}
	if c.fallback == "" {
		c.fallback = c.order[0]
	}
	if _, ok := c.byName[strings.ToLower(c.fallback)]; !ok {
		return nil, fmt.Errorf("fallback language %q not in catalog", c.fallback)
	}
	return c, nil
}

func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic("embedded locale catalog: " + err.Error())
	}
	return c
}

func (c *Catalog) Languages() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Has(lang string) bool {
	_, ok := c.byName[strings.ToLower(lang)]
	return ok
}

// Canonical returns the catalog spelling of lang, or the fallback language.
func (c *Catalog) Canonical(lang string) string {
	if l, ok := c.byName[strings.ToLower(lang)]; ok {
		return l.Name
	}
	return c.fallback
}

func (c *Catalog) Text(lang, key string) string {
	if l, ok := c.byName[strings.ToLower(lang)]; ok {
		if msg, ok := l.Messages[key]; ok && msg != "" {
			return msg
		}
	}
	if msg, ok := c.byName[strings.ToLower(c.fallback)].Messages[key]; ok {
		return msg
	}
	return key
}

func (c *Catalog) Voice(lang string) string {
	if l, ok := c.byName[strings.ToLower(lang)]; ok && l.Voice != "" {
		return l.Voice
	}
	return c.byName[strings.ToLower(c.fallback)].Voice
}

func (c *Catalog) Code(lang string) string {
	return c.byName[strings.ToLower(c.Canonical(lang))].Code
}

// Next returns the language after lang in catalog order, wrapping around.
func (c *Catalog) Next(lang string) string {
	current := c.Canonical(lang)
	for i, name := range c.order {
		if name == current {
			return c.order[(i+1)%len(c.order)]
		}
	}
	return c.order[0]
}
