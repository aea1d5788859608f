package grammar

import (
	"fmt"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

// String formats the file in canonical layout: one declaration per line,
// token names aligned.
func (f *File) String() string {
	width := 0
	for _, d := range f.Declarations {
		if d.Token != nil {
			width = max(width, len(d.Token.Name))
		}
	}

	var b strings.Builder
	for i, d := range f.Declarations {
		if i > 0 && d.Context != nil && f.Declarations[i-1].Token != nil {
			b.WriteString("\n")
		}
		switch {
		case d.Token != nil:
			b.WriteString(d.Token.format(width) + "\n")
		case d.Context != nil:
			b.WriteString(d.Context.String() + "\n")
		}
	}
	return b.String()
}

func (t *TokenDecl) String() string {
	return t.format(len(t.Name))
}

func (t *TokenDecl) format(width int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("token %-*s = %s", width, t.Name, t.Pattern))
	for _, m := range t.Modifiers {
		b.WriteString(" " + m.String())
	}
	b.WriteString(";")
	return b.String()
}

func (m *Modifier) String() string {
	switch {
	case m.Starts != nil:
		return "starts " + *m.Starts
	case m.Ends != nil:
		return "ends " + *m.Ends
	case m.Delimits != nil:
		return "delimits " + *m.Delimits
	case m.Escape != nil:
		return "escape " + *m.Escape
	case len(m.After) > 0:
		return "after " + strings.Join(m.After, ", ")
	case len(m.Before) > 0:
		return "before " + strings.Join(m.Before, ", ")
	}
	return ""
}

func (c *ContextDecl) String() string {
	var b strings.Builder
	b.WriteString("context " + c.Name)
	for _, flag := range c.Flags {
		b.WriteString(" " + flag)
	}
	if len(c.Tokens) == 0 {
		b.WriteString(" {}")
	} else {
		b.WriteString(" { " + strings.Join(c.Tokens, ", ") + " }")
	}
	for _, n := range c.Nests {
		b.WriteString("\n" + indent(1) + n.String())
	}
	if len(c.Nests) > 0 {
		b.WriteString(";")
	}
	return b.String()
}

func (n *NestDecl) String() string {
	return fmt.Sprintf("nest %s as %s", n.Key, n.Context)
}
