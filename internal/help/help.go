// Package help renders the keybinding table and the search language
// reference shown on the help overlay.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/topix-dev/topix/internal/keymap"
	"github.com/topix-dev/topix/internal/style"
)

// Content renders the full help text: one section per key context, then
// the search language reference.
func Content(km keymap.KeyMap) string {
	var b strings.Builder
	for _, ctx := range keymap.Contexts(km) {
		b.WriteString(style.AccentBold.Render(ctx.Name))
		b.WriteString("\n")
		for _, binding := range ctx.Bindings {
			b.WriteString(renderBinding(binding))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(queryReference())
	return b.String()
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %s  %s", style.KeyHelp.Render(fmt.Sprintf(" %-11s", h.Key)), h.Desc)
}

func queryReference() string {
	var b strings.Builder
	b.WriteString(style.AccentBold.Render("Search language"))
	b.WriteString("\n")
	for _, line := range []struct{ example, desc string }{
		{`topic == "orders"`, "equality on a variable (t, o, k, v, p, ts, si, h)"},
		{`value.address.city != "Paris"`, "look inside a json value"},
		{`headers.content-type == "application/json"`, "match a record header"},
		{`key starts with "user-"`, "prefix match"},
		{`value contains "error"`, "substring match, also: v ~= \"error\""},
		{`size > 1024 and partition == 2`, "combine with and / or, group with ( )"},
		{`timestamp >= "2 hours ago"`, "relative or RFC3339 timestamps"},
		{`from begin`, "also: from end, from end - 5000, from offset 100"},
		{`order by timestamp desc`, "sort the matched records"},
		{`limit 1000`, "stop after this many matches"},
	} {
		b.WriteString(fmt.Sprintf("  %s\n      %s\n", style.Bold.Render(line.example), style.Alt.Render(line.desc)))
	}
	return b.String()
}
