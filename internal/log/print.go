package log

type Color string

var colorMap = map[Color]string{
	"green":  "\033[97;42m",
	"yellow": "\033[90;43m",
	"red":    "\033[97;41m",
	"cyan":   "\033[97;46m",
	"reset":  "\033[0m",
}

const (
	GREEN  Color = "green"
	YELLOW Color = "yellow"
	RED    Color = "red"
	CYAN   Color = "cyan"
	RESET  Color = "reset"
)

func HighlightString(color Color, str string) string {
	if _, ok := colorMap[color]; !ok {
		return colorMap["green"] + str + colorMap["reset"]
	}
	return colorMap[color] + str + colorMap["reset"]
}
