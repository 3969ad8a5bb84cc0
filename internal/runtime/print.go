package runtime

import (
	"strconv"
	"strings"
)

// Print renders v in scmgo's printed representation (§4.5): booleans as
// #t/#f, strings double-quoted, symbols as their bare name, lists
// parenthesized and space-separated, Unit as the empty string, numbers
// in a locale-independent form, procedures as their (lambda ...) form,
// and native procedures as #<NativeProcedure:NAME>.
func Print(v Value) string {
	switch val := v.(type) {
	case Boolean:
		if val {
			return "#t"
		}
		return "#f"
	case Integer:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case String:
		return "\"" + escapeString(string(val)) + "\""
	case *Symbol:
		return val.Name
	case List:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = Print(e)
		}
		return "(" + strings.Join(parts, " ") + ")"
	case Unit:
		return ""
	case EndOfInput:
		return ""
	case *Procedure:
		return "(lambda " + printParamShape(val.Params) + " " + Print(val.Body) + ")"
	case *NativeProcedure:
		name := val.Name
		if name == "" {
			name = "anonymous"
		}
		return "#<NativeProcedure:" + name + ">"
	default:
		return "#<unknown>"
	}
}

func printParamShape(p ParamShape) string {
	if p.IsVariadic() {
		return p.Rest.Name
	}
	names := make([]string, len(p.Fixed))
	for i, s := range p.Fixed {
		names[i] = s.Name
	}
	if p.Rest != nil {
		names = append(names, ".", p.Rest.Name)
	}
	return "(" + strings.Join(names, " ") + ")"
}

func escapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// UnescapeString resolves the backslash escapes scmgo recognizes inside
// string literals: \n, \t, \", \\. Any other escape sequence resolves
// to the following rune alone (the backslash is dropped and that rune is
// kept literally), matching the "at minimum" escape set called for in the
// spec's open question on string escape handling.
func UnescapeString(raw string) string {
	var sb strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i == len(runes)-1 {
			sb.WriteRune(r)
			continue
		}
		i++
		switch runes[i] {
		case 'n':
			sb.WriteRune('\n')
		case 't':
			sb.WriteRune('\t')
		case '"':
			sb.WriteRune('"')
		case '\\':
			sb.WriteRune('\\')
		default:
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}
