package tui

type state int

const (
	inputState state = iota
	selectState
	confirmState
	loopState
	historyState
	errorState
)
