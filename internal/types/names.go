package types

import (
	"fmt"
	"strings"
)

// Name returns the source spelling of a type, as used in diagnostics:
// "vec3<f32>", "array<i32, 4>", "ptr<storage, u32, read>", "abstract-int".
func (in *Interner) Name(id TypeID) string {
	var sb strings.Builder
	in.writeName(&sb, id)
	return sb.String()
}

func (in *Interner) writeName(sb *strings.Builder, id TypeID) {
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	switch tt.Kind {
	case KindVector:
		fmt.Fprintf(sb, "vec%d<", tt.Width)
		in.writeName(sb, tt.Elem)
		sb.WriteByte('>')
	case KindMatrix:
		fmt.Fprintf(sb, "mat%dx%d<", tt.Columns, tt.Width)
		in.writeName(sb, in.ElemOf(tt.Elem))
		sb.WriteByte('>')
	case KindArray:
		if tt.Stride != 0 {
			fmt.Fprintf(sb, "@stride(%d) ", tt.Stride)
		}
		sb.WriteString("array<")
		in.writeName(sb, tt.Elem)
		switch tt.CountKind {
		case CountConstant:
			fmt.Fprintf(sb, ", %d", tt.Count)
		case CountNamedOverride, CountUnnamedOverride:
			sb.WriteString(", [override]")
		}
		sb.WriteByte('>')
	case KindStruct:
		info, _ := in.StructInfo(id)
		if info != nil {
			sb.WriteString(info.Name)
		}
	case KindAtomic:
		sb.WriteString("atomic<")
		in.writeName(sb, tt.Elem)
		sb.WriteByte('>')
	case KindPointer, KindReference:
		sb.WriteString(tt.Kind.String())
		sb.WriteByte('<')
		sb.WriteString(tt.Space.String())
		sb.WriteString(", ")
		in.writeName(sb, tt.Elem)
		sb.WriteString(", ")
		sb.WriteString(tt.Access.String())
		sb.WriteByte('>')
	case KindTexture:
		in.writeTextureName(sb, tt)
	default:
		sb.WriteString(tt.Kind.String())
	}
}

func (in *Interner) writeTextureName(sb *strings.Builder, tt Type) {
	switch tt.Texture {
	case TextureSampled:
		sb.WriteString("texture_" + tt.Dim.String() + "<")
		in.writeName(sb, tt.Elem)
		sb.WriteByte('>')
	case TextureMultisampled:
		sb.WriteString("texture_multisampled_" + tt.Dim.String() + "<")
		in.writeName(sb, tt.Elem)
		sb.WriteByte('>')
	case TextureDepth:
		sb.WriteString("texture_depth_" + tt.Dim.String())
	case TextureDepthMultisampled:
		sb.WriteString("texture_depth_multisampled_" + tt.Dim.String())
	case TextureStorage:
		fmt.Fprintf(sb, "texture_storage_%s<%s, %s>", tt.Dim, tt.Format, tt.Access)
	}
}
