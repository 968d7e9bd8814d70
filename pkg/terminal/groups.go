package terminal

type commandGroup uint8

const (
	otherCmds commandGroup = iota
	patternCmds
	configCmds
)

type commandGroupDescription struct {
	description string
	group       commandGroup
}

var commandGroupDescriptions = []commandGroupDescription{
	{"Evaluating patterns", patternCmds},
	{"Configuration and scripting", configCmds},
	{"Other commands", otherCmds},
}
