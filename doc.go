// Package prettytrace renders JavaScript (V8) stack traces as annotated
// source excerpts: every frame gets a header with its location, the
// syntax-highlighted source line and an underline below the failing token,
// followed by a one-line summary of the error.
//
//	at src/view.js:14:22 in function render
//	   │
//	14 │   return props.user.name;
//	   │                     ‾‾‾‾
//	   ╰── TypeError: Cannot read properties of undefined (reading 'name')
//
// Frames are shown outermost first so the throw site ends up next to the
// summary. Frames whose source cannot be read are shown as a header only.
//
// Traces captured as text:
//
//	e, err := prettytrace.ParseError(stackText)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := prettytrace.FormatTo(os.Stdout, e, &prettytrace.Options{
//		SkipNodeFiles: true,
//		SkipModules:   []string{"express"},
//	}); err != nil {
//		log.Fatal(err)
//	}
//
// Go programs can route their own failures through the same renderer. Errors
// created with github.com/pkg/errors and recovered panics get a stack built
// from their program counters:
//
//	func main() {
//		prettytrace.Install(nil)
//		defer prettytrace.Restore()
//		prettytrace.Run(run, nil)
//	}
//
// Set Options.Theme to "none" (or use a renderer with the Ascii profile) for
// output without escape sequences.
package prettytrace
