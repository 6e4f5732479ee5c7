package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseColor reads a catalog color: "#RRGGBB", "RRGGBB" or a named color
// such as "red" or "darkgray".
func ParseColor(s string) (tcell.Color, error) {
	s = strings.TrimSpace(s)
	if hex := strings.TrimPrefix(s, "#"); len(hex) == 6 {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return tcell.NewHexColor(int32(v)), nil
		}
	}
	if c, ok := tcell.ColorNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("invalid color %q", s)
}
