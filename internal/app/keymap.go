package app

// Key binding constants used in handleKey.
const (
	KeyQuit       = "q"
	KeyQuitUpper  = "Q"
	KeyCtrlC      = "ctrl+c"
	KeyTab        = "tab"
	KeyShiftTab   = "shift+tab"
	KeyLang       = "L"
	KeySpace      = " "
	KeyStop       = "s"
	KeyRight      = "right"
	KeyL          = "l"
	KeyLeft       = "left"
	KeyH          = "h"
	KeyNext       = "n"
	KeyUp         = "up"
	KeyDown       = "down"
	KeyJ          = "j"
	KeyK          = "k"
	KeyMoveDown   = "J"
	KeyMoveUp     = "K"
	KeyPlus       = "+"
	KeyEquals     = "="
	KeyMinus      = "-"
	KeyAdd        = "a"
	KeyDelete     = "x"
	KeyActorMode  = "m"
	KeyAnal       = "f"
	KeyHard       = "r"
	KeyClothed    = "c"
	KeySave       = "w"
	KeyEnter      = "enter"
	KeyNewPreview = "p"
)
