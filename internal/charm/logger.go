// SPDX-License-Identifier: Apache-2.0

package charm

// Logger is the logging interface used by the reconciler. It is
// satisfied by logr.Logger.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}
