package types

import (
	"strings"
)

// Label renders t for diagnostics. Output is deterministic and compact:
// class names with angle-bracketed arguments, '?' suffix for nullable types.
func (s *System) Label(t TypeID) string {
	tt, ok := s.Lookup(t)
	if !ok {
		return "<invalid>"
	}
	var sb strings.Builder
	s.writeLabel(&sb, tt, 0)
	return sb.String()
}

const maxLabelDepth = 16

func (s *System) writeLabel(sb *strings.Builder, tt Type, depth int) {
	if depth > maxLabelDepth {
		sb.WriteString("...")
		return
	}
	switch tt.Kind {
	case KindVoid:
		sb.WriteString("void")
		return
	case KindDynamic:
		sb.WriteString("dynamic")
		return
	case KindNull:
		sb.WriteString("Null")
		return
	case KindNever:
		sb.WriteString("Never")
	case KindTypeParam:
		info := s.Class(tt.Param.Owner)
		if info != nil && int(tt.Param.Index) < len(info.TypeParams) {
			sb.WriteString(info.TypeParams[tt.Param.Index].Name)
		} else {
			sb.WriteString("T?")
			return
		}
	case KindInterface:
		info := s.Class(tt.Class)
		if info == nil {
			sb.WriteString("<invalid>")
			return
		}
		sb.WriteString(info.Name)
		if len(tt.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range tt.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				if at, ok := s.Lookup(a); ok {
					s.writeLabel(sb, at, depth+1)
				} else {
					sb.WriteString("<invalid>")
				}
			}
			sb.WriteByte('>')
		}
	case KindFunction:
		if rt, ok := s.Lookup(tt.Fn.Return); ok {
			s.writeLabel(sb, rt, depth+1)
		}
		sb.WriteString(" Function(")
		for i, p := range tt.Fn.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			if pt, ok := s.Lookup(p); ok {
				s.writeLabel(sb, pt, depth+1)
			}
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("<invalid>")
		return
	}
	if tt.Null == Nullable {
		sb.WriteByte('?')
	}
}
