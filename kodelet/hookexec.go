package kodelet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// RunHookProcess handles hook re-invocations of the host binary.
// Programs that register hooks must call it at the top of main (before
// flag parsing or other side effects):
//
//	func main() {
//	    kodelet.RunHookProcess(myHooks...)
//	    // normal startup
//	}
//
// When the process was started by a bridge artifact, RunHookProcess
// services the request and exits; otherwise it returns immediately.
// The hooks passed here must include every hook registered with the
// client, since the generated artifacts address them by name.
func RunHookProcess(hooks ...Hook) {
	if len(os.Args) < 4 || os.Args[1] != hookArgMarker {
		return
	}
	os.Exit(runHook(hooks, os.Args[2], os.Args[3], os.Stdin, os.Stdout, os.Stderr))
}

// runHook executes one hook protocol verb and returns the process exit
// code. Split out from RunHookProcess for testability.
func runHook(hooks []Hook, name, verb string, stdin io.Reader, stdout, stderr io.Writer) int {
	var hook *Hook
	for i := range hooks {
		if hooks[i].Name == name {
			hook = &hooks[i]
		}
	}
	if hook == nil {
		writeHookError(stdout, fmt.Sprintf("unknown hook: %s", name))
		return 1
	}

	switch verb {
	case "hook":
		fmt.Fprintln(stdout, string(hook.Type))
		return 0

	case "run":
		var payload map[string]interface{}
		if err := json.NewDecoder(stdin).Decode(&payload); err != nil {
			writeHookError(stdout, fmt.Sprintf("invalid JSON: %v", err))
			return 1
		}
		return invokeHook(hook, payload, stdout)

	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", verb)
		return 1
	}
}

// invokeHook calls the callback and writes exactly one JSON object to
// stdout. Callback errors and panics are reported as {"error": ...}
// with a nonzero exit rather than crashing the bridge artifact.
func invokeHook(hook *Hook, payload map[string]interface{}, stdout io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			writeHookError(stdout, fmt.Sprintf("hook panic: %v", r))
			code = 1
		}
	}()

	result, err := hook.Func(payload)
	if err != nil {
		writeHookError(stdout, err.Error())
		return 1
	}
	if result == nil {
		result = map[string]interface{}{}
	}

	data, err := json.Marshal(result)
	if err != nil {
		writeHookError(stdout, fmt.Sprintf("unencodable hook result: %v", err))
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return 0
}

func writeHookError(w io.Writer, msg string) {
	data, _ := json.Marshal(map[string]string{"error": msg})
	fmt.Fprintln(w, string(data))
}
