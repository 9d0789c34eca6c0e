package stacktrace

import (
	"context"
	"strings"

	"github.com/quay/zlog"

	"github.com/octylFractal/stacked-portrayals/types"
)

// Rewrite returns a copy of st with every class name, method name, and
// source-file hint translated through m.
func Rewrite(ctx context.Context, st Stacktrace, m types.MethodMapper) Stacktrace {
	ctx = zlog.ContextWithValues(ctx, "component", "stacktrace/Rewrite")
	frames := make([]Frame, len(st.Frames))
	for i, f := range st.Frames {
		frames[i] = rewriteFrame(ctx, f, m)
	}
	return Stacktrace{
		Type:    st.Type.MapSelf(m),
		Message: st.Message,
		Frames:  frames,
	}
}

func rewriteFrame(ctx context.Context, f Frame, m types.MethodMapper) Frame {
	candidates := m.MapMethod(f.Class, f.Method, nil)
	method := f.Method
	if len(candidates) > 0 {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.ID.Name
		}
		method = strings.Join(names, "/")
		zlog.Debug(ctx).Str("class", f.Class).Str("from_method", f.Method).Str("to_method", method).Msg("mapped method")
	}

	mappedClass, classMapped := m.MapClass(f.Class)
	class := f.Class
	if classMapped {
		class = mappedClass
	}

	file := rewriteFile(f.File, f.Class, m)

	return Frame{
		Module: f.Module,
		Class:  class,
		Method: method,
		File:   file,
		Line:   f.Line,
	}
}

// rewriteFile reconstructs a likely fully-qualified class name for the
// frame's file hint by substituting the file's basename for the class's
// simple name under the same package, then looks that up via MapClass.
// If the guess doesn't resolve, the original file string passes through
// unchanged.
func rewriteFile(file, class string, m types.MethodMapper) string {
	dot := strings.LastIndexByte(file, '.')
	if dot < 0 {
		return file
	}
	base, ext := file[:dot], file[dot+1:]

	var guessedClass string
	if pkgEnd := strings.LastIndexByte(class, '.'); pkgEnd >= 0 {
		guessedClass = class[:pkgEnd+1] + base
	} else {
		guessedClass = base
	}

	mapped, ok := m.MapClass(guessedClass)
	if !ok {
		return file
	}
	simple := mapped
	if idx := strings.LastIndexByte(mapped, '.'); idx >= 0 {
		simple = mapped[idx+1:]
	}
	return simple + "." + ext
}
