package gpu

import "strings"

// Preprocess inserts a #define line for each name directly after the
// #version directive of src. Sources without a #version get the defines
// prepended.
func Preprocess(src string, defines ...string) string {
	if len(defines) == 0 {
		return src
	}
	var block strings.Builder
	for _, d := range defines {
		block.WriteString("#define ")
		block.WriteString(d)
		block.WriteByte('\n')
	}

	trimmed := strings.TrimLeft(src, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version") {
		return block.String() + src
	}
	lead := len(src) - len(trimmed)
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return src + "\n" + block.String()
	}
	cut := lead + nl + 1
	return src[:cut] + block.String() + src[cut:]
}
