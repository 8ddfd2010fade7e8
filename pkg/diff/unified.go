package diff

import "strings"

// Unified renders a result in unified-style text: a two-line header, then
// one prefixed line per entry. Modified entries expand into the removed
// left line followed by the added right line.
func Unified(res *Result, leftName, rightName string) string {
	var b strings.Builder

	b.WriteString("--- ")
	b.WriteString(leftName)
	b.WriteByte('\n')
	b.WriteString("+++ ")
	b.WriteString(rightName)
	b.WriteByte('\n')

	for _, line := range res.Lines {
		switch line.Type {
		case Unchanged:
			b.WriteByte(' ')
			b.WriteString(line.LeftLine)
			b.WriteByte('\n')
		case Removed:
			b.WriteByte('-')
			b.WriteString(line.LeftLine)
			b.WriteByte('\n')
		case Added:
			b.WriteByte('+')
			b.WriteString(line.RightLine)
			b.WriteByte('\n')
		case Modified:
			b.WriteByte('-')
			b.WriteString(line.LeftLine)
			b.WriteByte('\n')
			b.WriteByte('+')
			b.WriteString(line.RightLine)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
