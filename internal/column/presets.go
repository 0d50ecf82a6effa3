package column

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/datatable/internal/row"
)

// presets are the renderers that schema files can reference by name.
var presets = map[string]RenderFunc{
	"text": nil,
	"upper": func(c Cell) string {
		if blank(c) {
			return Placeholder
		}
		return strings.ToUpper(row.Text(c.Value))
	},
	"lower": func(c Cell) string {
		if blank(c) {
			return Placeholder
		}
		return strings.ToLower(row.Text(c.Value))
	},
	"yesno": func(c Cell) string {
		b, ok := c.Value.(row.Bool)
		if !c.Present || !ok {
			return Placeholder
		}
		if b {
			return "yes"
		}
		return "no"
	},
	"json": func(c Cell) string {
		if !c.Present {
			return Placeholder
		}
		data, err := row.MarshalValue(c.Value)
		if err != nil {
			return Placeholder
		}
		return string(data)
	},
}

// blank reports a cell the default display shows as Placeholder.
func blank(c Cell) bool {
	if !c.Present {
		return true
	}
	_, isNull := c.Value.(row.Null)
	return isNull
}

// Preset returns the named renderer. "text" (and "") map to the default
// display, which is a nil RenderFunc.
func Preset(name string) (RenderFunc, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := presets[name]
	if !ok {
		return nil, &Error{
			Code:    ErrCodeUnknownRenderer,
			Message: fmt.Sprintf("unknown render preset %q: must be one of %v", name, PresetNames()),
		}
	}
	return fn, nil
}

// PresetNames lists the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
