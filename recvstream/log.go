package recvstream

import "github.com/sirupsen/logrus"

// log is the package-level logger, in the style of the registry's
// internal/dcontext default: a logrus field logger, overridable by a caller
// that wants stream lifecycle events routed into its own logging pipeline.
var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the logger used for stream lifecycle diagnostics.
func SetLogger(l logrus.FieldLogger) {
	log = l
}
