/*
Package tracinginit assembles and installs a logging pipeline from a small
configuration contract, built on zap and OpenTelemetry.

The pipeline is built from layers. A layer is a single output stage, for
example human-readable text to os.Stdout or newline-delimited JSON to a
file. Layers are created using the assembly functions Full, Compact,
Pretty and JSON from a Config (or JSONConfig), which carries the on/off
options of the layer and the quiet and verbose counters, typically counted
from command line flags such as -qq or -vv. The assembly functions return
the layer and the minimum Level resolved from the counters, such that the
layer can be customized further before being filtered:

	layer, level := tracinginit.Compact(cfg)
	layer.WithWriter(os.Stderr)
	tracinginit.Init(layer.WithFilter(level))

The *Filtered variants, e.g. CompactFiltered(cfg), do the filtering right
away.

How the counters map to a Level depends on the build. Default builds use
DebugPolicy, where the base level is info, verbose takes precedence over
quiet, and every -v or -q moves one step. Builds with "-tags release" use
ReleasePolicy, where the quiet counter is ignored and the base level is
error: each -v moves one step towards trace. ActivePolicy tells which one
is compiled in.

The layers are teed together into a Dispatch using New. A Dispatch exposes
a *zap.Logger, a logr.Logger and an OpenTelemetry TracerProvider. Spans
started through the Dispatch, using StartSpan or its TracerProvider, are
both forwarded to an upstream TracerProvider (see WithTracerProvider and
Provider) and logged: depending on the SpanEvents of each layer, records
are synthesized when a span is created, entered, exited and closed, and
records logged within a span carry the span name (or the whole chain of
spans) with them.

Finally, a Dispatch is installed as the default of the process:

  - SetDefault installs it until the returned *DefaultGuard is closed.
    Nested guards revert innermost first.
  - TryInit installs it as the global default once, and returns
    ErrAlreadySet for every later call.
  - Init is TryInit but panics if a global default is already set.

While installed, zap.L() and zap.S() write to the Dispatch, and Current()
returns it. L(ctx) returns the logger of the Dispatch in ctx (or the
default), attributed to the span in ctx.
*/
package tracinginit
