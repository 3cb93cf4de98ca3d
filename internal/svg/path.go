package svg

import "strings"

// PathData accumulates absolute path commands.
type PathData struct {
	b strings.Builder
}

func (p *PathData) MoveTo(x, y float64) {
	p.command("M", x, y)
}

func (p *PathData) LineTo(x, y float64) {
	p.command("L", x, y)
}

func (p *PathData) Close() {
	p.b.WriteString("Z")
}

func (p *PathData) Empty() bool {
	return p.b.Len() == 0
}

func (p *PathData) String() string {
	return p.b.String()
}

func (p *PathData) command(cmd string, x, y float64) {
	p.b.WriteString(cmd)
	p.b.WriteString(formatFloat(x))
	p.b.WriteString(",")
	p.b.WriteString(formatFloat(y))
}
