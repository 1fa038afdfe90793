package runtime

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

var (
	debugLock    = sync.Mutex{}
	debugPrev    = time.Now()
	debugPattern = compileDebugPattern(os.Getenv("DEBUG"))
)

// compileDebugPattern turns a comma separated list of glob patterns, such as
// "monitor,fleet:*", into a regular expression matching debug names.
func compileDebugPattern(debug string) *regexp.Regexp {
	if debug == "" {
		return nil
	}
	debug = regexp.QuoteMeta(debug)
	debug = strings.Replace(debug, "\\*", ".*?", -1)
	debug = strings.Replace(debug, ",", "|", -1)
	return regexp.MustCompile("^(" + debug + ")$")
}

// Debug will return a debug(format, arg, arg...) function for which messages
// will be printed to stderr if name matches the DEBUG environment variable.
//
// This is for development only, use a Monitor for anything that matters in
// production.
func Debug(name string) func(string, ...interface{}) {
	if debugPattern == nil || !debugPattern.MatchString(name) {
		return func(string, ...interface{}) {}
	}

	return func(format string, args ...interface{}) {
		debugLock.Lock()
		now := time.Now()
		delay := now.Sub(debugPrev)
		debugPrev = now
		debugLock.Unlock()

		fmt.Fprintf(os.Stderr, " %-8s %s | %s\n",
			delay.Round(time.Microsecond), name, fmt.Sprintf(format, args...))
	}
}
