package tokenizer

import (
	"fmt"
	"strings"
)

func (c *Context) String() string {
	var b strings.Builder
	c.print(&b)
	return strings.TrimSuffix(b.String(), "\n")
}

func (c *Context) print(b *strings.Builder) {
	indent := strings.Repeat("  ", c.depth)
	span := c.Span()
	b.WriteString(fmt.Sprintf("%s%s depth=%d [%d:%d]", indent, c.def.name, c.depth, span.Start, span.End()))
	if !c.IsRoot() && c.EndToken() == nil {
		b.WriteString(" open")
	}
	b.WriteString("\n")

	for _, e := range c.Elements() {
		switch e.Kind {
		case TokenElement:
			b.WriteString(fmt.Sprintf("%s  %s\n", indent, e.Token.String()))
		case ChildElement:
			e.Child.print(b)
		case NoiseElement:
			b.WriteString(fmt.Sprintf("%s  noise %q @%d\n", indent, e.Text(c), span.Start+e.Span.Start))
		}
	}
}
