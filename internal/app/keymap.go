package app

// Key binding constants used in handleKey.
const (
	KeyQuit         = "q"
	KeyCtrlC        = "ctrl+c"
	KeyCamera       = "s"
	KeyFlip         = "f"
	KeyCapture      = "c"
	KeySpace        = " "
	KeyLanguage     = "l"
	KeyMode         = "m"
	KeyTTS          = "t"
	KeyMute         = "M"
	KeySpeak        = "p"
	KeyHistory      = "h"
	KeyJ            = "j"
	KeyK            = "k"
	KeyUp           = "up"
	KeyDown         = "down"
	KeyEnter        = "enter"
	KeyDelete       = "d"
	KeyClearHistory = "x"
	KeyEsc          = "esc"
)
