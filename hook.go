package prettytrace

import "sync/atomic"

// installed holds the options of the process-wide default renderer; nil
// means the default Go behaviour is in effect.
var installed atomic.Pointer[Options]

// Install sets the options used by the two opt-in integration points: a
// deferred Recover pretty-prints the panic it recovers, and %+v on *Error
// prints the pretty rendering. Go has no global hook for unrecovered panics,
// so a panic in a goroutine without a deferred Recover still crashes with the
// runtime's own traceback. Calling Install again replaces the options.
func Install(opts *Options) {
	if opts == nil {
		opts = DefaultOptions
	}
	cp := *opts
	installed.Store(&cp)
}

// Restore reverts Install. It is idempotent and safe to call without a prior
// Install.
func Restore() {
	installed.Store(nil)
}

// Installed reports whether Install is in effect.
func Installed() bool {
	return installed.Load() != nil
}

func installedOptions() (*Options, bool) {
	opts := installed.Load()
	return opts, opts != nil
}

// Recover is meant to be deferred at the top of main or a goroutine. While
// installed it renders a recovered panic to stderr and exits with status 1;
// otherwise it re-panics so the runtime's own traceback is printed.
//
//	defer prettytrace.Recover()
func Recover() {
	r := recover()
	if r == nil {
		return
	}
	opts, ok := installedOptions()
	if !ok {
		panic(r)
	}
	report(stderr, FromPanic(r), opts)
	exit(1)
}
